package views

import (
	"net/url"
	"path"
	"strings"
)

// Link is a named navigation or social link.
type Link struct {
	Name string
	URL  string
}

// Site holds site-wide settings. Every component receives it so nothing
// is hardcoded in templates.
type Site struct {
	Title       string
	Description string
	URL         string // canonical origin, e.g. https://example.com
	Base        string // path prefix when deployed under a subdirectory
	Author      string
	Social      []Link
	Nav         []Link // URLs relative to Base, "" for the home page
}

// Path returns a base-prefixed absolute path with a trailing slash.
func (s Site) Path(segments ...string) string {
	p := path.Join(append([]string{"/", s.Base}, segments...)...)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// File returns a base-prefixed absolute path to a file, without a
// trailing slash.
func (s Site) File(segments ...string) string {
	return path.Join(append([]string{"/", s.Base}, segments...)...)
}

// Canonical returns the absolute URL of a site page.
func (s Site) Canonical(segments ...string) string {
	return s.absolute(s.Path(segments...))
}

// CanonicalFile returns the absolute URL of a site file.
func (s Site) CanonicalFile(segments ...string) string {
	return s.absolute(s.File(segments...))
}

func (s Site) absolute(p string) string {
	u, err := url.Parse(s.URL)
	if err != nil {
		return p
	}
	u.Path = p
	return u.String()
}

// NavPath resolves a Nav entry to an absolute path, leaving external links
// untouched.
func (s Site) NavPath(l Link) string {
	if strings.Contains(l.URL, "://") {
		return l.URL
	}
	if l.URL == "" {
		return s.Path()
	}
	return s.Path(l.URL)
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}
