package inkpress

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkpress/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) buildSitemap(posts []content.Post, categories []content.Category) sitemapURLSet {
	site := a.Site()
	latest := ""
	if len(posts) > 0 {
		latest = posts[0].LastModified().Format("2006-01-02")
	}
	urls := []sitemapURL{
		{Loc: site.Canonical(), LastMod: latest},
		{Loc: site.Canonical("blog"), LastMod: latest},
	}
	for _, cat := range categories {
		urls = append(urls, sitemapURL{Loc: site.Canonical("blog", "category", string(cat))})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     site.Canonical("blog", p.Slug),
			LastMod: p.LastModified().Format("2006-01-02"),
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, posts []content.Post, categories []content.Category) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(a.buildSitemap(posts, categories))
}
