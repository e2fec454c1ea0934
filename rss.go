package inkpress

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkpress/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	Category    string  `xml:"category,omitempty"`
	PubDate     string  `xml:"pubDate"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// buildFeed converts posts, already sorted newest first, into an RSS 2.0 document.
func (a *App) buildFeed(posts []content.Post) rssXML {
	site := a.Site()
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		postURL := site.Canonical("blog", p.Slug)
		items = append(items, rssItem{
			Title:       p.Meta.Title,
			Link:        postURL,
			Description: p.Meta.Description,
			Category:    p.Meta.Category.Title(),
			PubDate:     p.Meta.PubDate.UTC().Format(time.RFC1123Z),
			GUID:        rssGUID{IsPermaLink: true, Value: postURL},
		})
	}
	ch := rssChannel{
		Title:       site.Title,
		Link:        site.Canonical(),
		Description: site.Description,
		Items:       items,
	}
	if len(posts) > 0 {
		ch.LastBuildDate = posts[0].LastModified().UTC().Format(time.RFC1123Z)
	}
	return rssXML{Version: "2.0", Channel: ch}
}

func (a *App) renderRSS(c echo.Context, posts []content.Post) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(a.buildFeed(posts))
}
