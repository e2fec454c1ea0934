package inkpress

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
)

// Build renders every public route into outDir and copies the public and
// covers directories next to them. It returns the number of files rendered.
func (a *App) Build(ctx context.Context, outDir string) (int, error) {
	if err := a.Init(ctx); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("inkpress: create %s: %w", outDir, err)
	}
	if err := copyTree(a.Config.PublicDir, filepath.Join(outDir, "public")); err != nil {
		return 0, fmt.Errorf("inkpress: copy public: %w", err)
	}
	if err := copyTree(a.Config.CoversDir, filepath.Join(outDir, "covers")); err != nil {
		return 0, fmt.Errorf("inkpress: copy covers: %w", err)
	}

	routes, err := a.buildRoutes(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := a.exportRoute(route, outDir, http.StatusOK); err != nil {
			return n, err
		}
		n++
	}

	missing := a.Site().Path("__missing__")
	if err := a.exportPage(missing, filepath.Join(outDir, "404.html"), http.StatusNotFound); err != nil {
		return n, err
	}
	n++

	a.Echo.Logger.Infof("build: wrote %d files to %s", n, outDir)
	return n, nil
}

func (a *App) buildRoutes(ctx context.Context) ([]string, error) {
	site := a.Site()
	posts, err := a.Cache.ListPosts(ctx, "")
	if err != nil {
		return nil, err
	}
	categories, err := a.Cache.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	routes := []string{
		site.Path(),
		site.Path("blog"),
		site.File("rss.xml"),
		site.File("sitemap.xml"),
		site.File("robots.txt"),
		site.File("favicon.svg"),
		site.File("public", "style.css"),
	}
	for _, cat := range categories {
		routes = append(routes, site.Path("blog", "category", string(cat)))
	}
	for _, p := range posts {
		routes = append(routes, site.Path("blog", p.Slug))
	}
	return routes, nil
}

// exportRoute renders route and writes it to its file under outDir;
// directory routes become index.html.
func (a *App) exportRoute(route, outDir string, want int) error {
	rel := strings.TrimPrefix(route, strings.TrimSuffix(a.Site().Path(), "/"))
	if strings.HasSuffix(rel, "/") {
		rel += "index.html"
	}
	return a.exportPage(route, filepath.Join(outDir, filepath.FromSlash(rel)), want)
}

func (a *App) exportPage(route, dst string, want int) error {
	req, err := http.NewRequest(http.MethodGet, route, nil)
	if err != nil {
		return fmt.Errorf("inkpress: render %s: %w", route, err)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != want {
		return fmt.Errorf("inkpress: render %s: status %d", route, rec.Code)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, rec.Body.Bytes(), 0o644)
}

// copyTree mirrors src into dst. A missing src is not an error.
func copyTree(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(p, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
