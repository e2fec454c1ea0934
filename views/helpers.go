package views

import (
	"encoding/json"
	"html/template"
	"time"

	"github.com/eringen/inkpress/content"
)

// FilterRelatedPosts returns posts that share the current post's category.
func FilterRelatedPosts(current content.Post, posts []content.Post, limit int) []content.Post {
	var related []content.Post
	for _, p := range posts {
		if p.Slug == current.Slug || p.Meta.Category != current.Meta.Category {
			continue
		}
		related = append(related, p)
		if limit > 0 && len(related) == limit {
			break
		}
	}
	return related
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block.
func WebsiteJsonLD(site Site) template.JS {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Title,
		"url":      site.Canonical(),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	return marshalJS(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(site Site, post content.Post) template.JS {
	postURL := site.Canonical("blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Meta.Title,
		"description":   post.Meta.Description,
		"datePublished": post.Meta.PubDate.Format(time.RFC3339),
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Title,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	data["articleSection"] = post.Meta.Category.Title()
	if post.Meta.UpdatedDate != nil {
		data["dateModified"] = post.Meta.UpdatedDate.Format(time.RFC3339)
	}
	if post.Meta.CoverImage != nil {
		data["image"] = *post.Meta.CoverImage
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	return marshalJS(data)
}

func marshalJS(v interface{}) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}

// formatDate renders time.Time or *time.Time values for humans.
func formatDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("Jan 2, 2006")
	case *time.Time:
		if t != nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return ""
}

// isoDate renders time.Time or *time.Time values for <time datetime>.
func isoDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02")
	case *time.Time:
		if t != nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
