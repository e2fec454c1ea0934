// Package views is the built-in theme: html/template pages exposed as templ
// components so they plug into the same ViewFuncs as hand-written templ code.
package views

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/inkpress/content"
	"github.com/eringen/inkpress/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"date":    formatDate,
	"isoDate": isoDate,
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"home", "blog", "post", "error", "admin_login", "admin_dashboard"} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html"))
	}
}

// data is the single view model passed to every page template.
type data struct {
	Site       Site
	Meta       PageMeta
	JSONLD     template.JS
	Posts      []content.Post
	Post       content.Post
	Body       template.HTML
	Minutes    int
	Cover      string
	Related    []content.Post
	Categories []content.Category
	Active     content.Category
	Status     int
	Heading    string
	Report     content.Report
	Message    string
	CSRF       string
	ShowError  bool
}

func page(name string, d data) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout", d)
	})
}

// Home lists the latest posts.
func Home(site Site, posts []content.Post) templ.Component {
	return page("home", data{
		Site: site,
		Meta: PageMeta{
			Title:       site.Title,
			Description: site.Description,
			URL:         site.Canonical(),
			OGType:      "website",
		},
		JSONLD: WebsiteJsonLD(site),
		Posts:  posts,
	})
}

// Blog lists every post, optionally narrowed to one category.
func Blog(site Site, posts []content.Post, active content.Category) templ.Component {
	meta := PageMeta{
		Title:       "Blog | " + site.Title,
		Description: site.Description,
		URL:         site.Canonical("blog"),
		OGType:      "website",
	}
	if active != "" {
		meta.Title = active.Title() + " | " + site.Title
		meta.URL = site.Canonical("blog", "category", string(active))
	}
	return page("blog", data{
		Site:       site,
		Meta:       meta,
		JSONLD:     WebsiteJsonLD(site),
		Posts:      posts,
		Categories: content.Categories,
		Active:     active,
	})
}

// Post renders a single article. cover overrides the frontmatter coverImage
// when a resized thumbnail exists.
func Post(site Site, post content.Post, related []content.Post, cover string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := markdown.RenderMarkdown(&buf, post.Body); err != nil {
			return err
		}
		body := buf.String()
		if cover == "" && post.Meta.CoverImage != nil {
			cover = *post.Meta.CoverImage
		}
		d := data{
			Site: site,
			Meta: PageMeta{
				Title:       post.Meta.Title + " | " + site.Title,
				Description: post.Meta.Description,
				URL:         site.Canonical("blog", post.Slug),
				OGType:      "article",
				Image:       cover,
			},
			JSONLD:  BlogPostingJsonLD(site, post),
			Post:    post,
			Body:    template.HTML(body),
			Minutes: markdown.ReadingTime(body),
			Cover:   cover,
			Related: related,
		}
		return pages["post"].ExecuteTemplate(w, "layout", d)
	})
}

// NotFound is the 404 page.
func NotFound(site Site) templ.Component {
	return errorPage(site, 404, "Page not found")
}

// ServerError is the 500 page.
func ServerError(site Site) templ.Component {
	return errorPage(site, 500, "Something went wrong")
}

func errorPage(site Site, status int, heading string) templ.Component {
	return page("error", data{
		Site:    site,
		Meta:    PageMeta{Title: heading + " | " + site.Title, OGType: "website"},
		Status:  status,
		Heading: heading,
	})
}

// AdminLogin is the password form of the content dashboard.
func AdminLogin(site Site, showError bool, csrf string) templ.Component {
	return page("admin_login", data{
		Site:      site,
		Meta:      PageMeta{Title: "Admin | " + site.Title},
		CSRF:      csrf,
		ShowError: showError,
	})
}

// AdminDashboard shows the last content load: indexed posts and every
// document that failed with all of its field errors.
func AdminDashboard(site Site, report content.Report, msg, csrf string) templ.Component {
	return page("admin_dashboard", data{
		Site:    site,
		Meta:    PageMeta{Title: "Content | " + site.Title},
		Report:  report,
		Message: msg,
		CSRF:    csrf,
	})
}
