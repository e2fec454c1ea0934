// Package inkpress is a personal blog engine built with Go, Echo, and templ.
// Posts are markdown documents with frontmatter; inkpress validates them
// against the blog schema, indexes the valid ones in SQLite, serves the
// site and exports it as static files.
//
// Users may provide their own templ components via the ViewFuncs struct;
// DefaultViews returns the built-in theme.
package inkpress

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/inkpress/content"
	"github.com/eringen/inkpress/views"
)

// ViewFuncs holds the templ components the framework calls when rendering
// pages. This is the inversion-of-control mechanism that lets users own
// and customize all templates.
type ViewFuncs struct {
	Home           func(site views.Site, posts []content.Post) templ.Component
	Blog           func(site views.Site, posts []content.Post, active content.Category) templ.Component
	Post           func(site views.Site, post content.Post, related []content.Post, cover string) templ.Component
	AdminLogin     func(site views.Site, showError bool, csrfToken string) templ.Component
	AdminDashboard func(site views.Site, report content.Report, message, csrfToken string) templ.Component
	NotFound       func(site views.Site) templ.Component
	ServerError    func(site views.Site) templ.Component
}

// DefaultViews returns the built-in theme.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:           views.Home,
		Blog:           views.Blog,
		Post:           views.Post,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

// App is the central inkpress application. It wires together the content
// loader, store, cache, handlers, middleware, and templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	initialized  bool

	mu     sync.RWMutex
	report content.Report
	covers map[string]string // slug -> thumbnail URL
}

// New creates a new App with the given configuration and view functions.
func New(cfg SiteConfig, vf ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  vf,
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetPrefix("inkpress")

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// WithLogger replaces the echo logger used for request and content logs.
func WithLogger(l echo.Logger) Option {
	return func(a *App) {
		a.Echo.Logger = l
	}
}

// Init validates the config, opens the index, loads the content collection
// and registers middleware and routes. Start and Build call it; tests can
// call it directly and drive a.Echo with httptest.
func (a *App) Init(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}
	a.Echo.Logger.SetLevel(parseLevel(a.Config.LogLevel))

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("inkpress: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)

	if a.Config.AdminEnabled() {
		a.loginLimiter = NewLoginLimiter(5, time.Minute)
	}

	if _, err := a.Reload(ctx); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app and serves it until the server stops.
func (a *App) Start() error {
	if err := a.Init(context.Background()); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Reload rescans the content directory and swaps the index. Invalid
// documents are logged and skipped, or fail the reload in strict mode.
func (a *App) Reload(ctx context.Context) (content.Report, error) {
	report, err := content.LoadCollection(ctx, os.DirFS(a.Config.ContentDir))
	if err != nil {
		return content.Report{}, fmt.Errorf("inkpress: load %s: %w", a.Config.ContentDir, err)
	}
	for _, f := range report.Failures {
		a.Echo.Logger.Warnf("content: %s: %v", f.Path, f.Err)
	}
	if a.Config.StrictContent && !report.OK() {
		a.setReport(report, a.coversSnapshot())
		return report, fmt.Errorf("inkpress: %d invalid documents in %s: %w",
			len(report.Failures), a.Config.ContentDir, report.Err())
	}

	if err := a.Store.ReplacePosts(ctx, report.Posts); err != nil {
		return report, fmt.Errorf("inkpress: index posts: %w", err)
	}
	covers := a.generateCovers(report.Posts)
	a.setReport(report, covers)
	a.Cache.Invalidate()
	a.Echo.Logger.Infof("content: indexed %d posts from %s (%d skipped)",
		len(report.Posts), a.Config.ContentDir, len(report.Failures))
	return report, nil
}

func (a *App) setReport(report content.Report, covers map[string]string) {
	a.mu.Lock()
	a.report = report
	a.covers = covers
	a.mu.Unlock()
}

func (a *App) coversSnapshot() map[string]string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.covers
}

// Report returns the outcome of the last content load.
func (a *App) Report() content.Report {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.report
}

// coverURL returns the generated thumbnail URL for slug, or "".
func (a *App) coverURL(slug string) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.covers[slug]
}

// Site converts the config into the view model shared by all templates.
func (a *App) Site() views.Site {
	return views.Site{
		Title:       a.Config.Title,
		Description: a.Config.Description,
		URL:         a.Config.URL,
		Base:        a.Config.Base,
		Author:      a.Config.Author,
		Social:      toViewLinks(a.Config.Social),
		Nav:         toViewLinks(a.Config.Nav),
	}
}

func toViewLinks(links []Link) []views.Link {
	out := make([]views.Link, len(links))
	for i, l := range links {
		out[i] = views.Link{Name: l.Name, URL: l.URL}
	}
	return out
}

func (a *App) setupRoutes() {
	g := a.Echo.Group(strings.TrimSuffix(a.Config.Base, "/"))

	g.GET("/public/style.css", a.handleStyle)
	g.Static("/public", a.Config.PublicDir)
	g.Static("/covers", a.Config.CoversDir)
	g.GET("/favicon.svg", a.handleFavicon)
	g.GET("/robots.txt", a.handleRobots)

	g.GET("/sitemap.xml", a.handleSitemap)
	g.GET("/rss.xml", a.handleFeed)
	g.GET("/", a.handleHome)
	g.GET("/blog/", a.handleBlog)
	g.GET("/blog/category/:category/", a.handleCategory)
	g.GET("/blog/:slug/", a.handlePost)

	if a.Config.AdminEnabled() {
		admin := g.Group("/admin", a.adminMiddleware()...)
		admin.GET("/", a.handleAdmin)
		admin.POST("/login/", a.handleAdminLogin)
		admin.POST("/logout/", a.handleAdminLogout)
		admin.POST("/reload/", a.handleAdminReload)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
