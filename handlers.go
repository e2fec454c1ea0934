package inkpress

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkpress/content"
	"github.com/eringen/inkpress/views"
)

const (
	homePostLimit    = 10
	relatedPostLimit = 3
)

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	if len(posts) > homePostLimit {
		posts = posts[:homePostLimit]
	}
	return Render(c, a.Views.Home(a.Site(), posts))
}

func (a *App) handleBlog(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return Render(c, a.Views.Blog(a.Site(), posts, ""))
}

func (a *App) handleCategory(c echo.Context) error {
	category := content.Category(c.Param("category"))
	if !category.Valid() {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Site()))
	}
	posts, err := a.Cache.ListPosts(c.Request().Context(), category)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Blog(a.Site(), posts, category))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Cache.GetPost(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Site()))
		}
		return err
	}
	posts, err := a.Cache.ListPosts(ctx, "")
	if err != nil {
		return err
	}
	related := views.FilterRelatedPosts(post, posts, relatedPostLimit)
	return Render(c, a.Views.Post(a.Site(), post, related, a.coverURL(post.Slug)))
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := a.Cache.ListPosts(ctx, "")
	if err != nil {
		return err
	}
	categories, err := a.Cache.ListCategories(ctx)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, categories)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

// handleStyle serves the user's stylesheet, falling back to the embedded one.
func (a *App) handleStyle(c echo.Context) error {
	return a.serveAsset(c, "style.css", "text/css; charset=utf-8")
}

func (a *App) handleFavicon(c echo.Context) error {
	return a.serveAsset(c, "favicon.svg", "image/svg+xml")
}

func (a *App) serveAsset(c echo.Context, name, contentType string) error {
	userFile := filepath.Join(a.Config.PublicDir, name)
	if _, err := os.Stat(userFile); err == nil {
		return c.File(userFile)
	}
	data, err := EmbeddedAssets.ReadFile("embedded/" + name)
	if err != nil {
		return echo.ErrNotFound
	}
	return c.Blob(http.StatusOK, contentType, data)
}

func (a *App) handleRobots(c echo.Context) error {
	userFile := filepath.Join(a.Config.PublicDir, "robots.txt")
	if _, err := os.Stat(userFile); err == nil {
		return c.File(userFile)
	}
	body := "User-agent: *\nAllow: /\n\nSitemap: " + a.Site().CanonicalFile("sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.Site()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.Site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
