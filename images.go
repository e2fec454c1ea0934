package inkpress

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/eringen/inkpress/content"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
)

// processImage decodes an image from src, shrinks it to maxImageWidth when
// wider, and encodes it as JPEG.
func processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// localCoverPath maps a coverImage value onto a file under the public
// directory. Remote and data URLs are left alone.
func (a *App) localCoverPath(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") {
		return "", false
	}
	clean := path.Clean("/" + ref)
	for _, prefix := range []string{strings.TrimSuffix(a.Config.Base, "/"), "/public"} {
		if prefix != "" && strings.HasPrefix(clean, prefix+"/") {
			clean = clean[len(prefix):]
		}
	}
	return filepath.Join(a.Config.PublicDir, filepath.FromSlash(clean)), true
}

// generateCovers writes a thumbnail for every post with a local cover image
// and returns slug -> thumbnail URL. Failures are logged and skipped.
func (a *App) generateCovers(posts []content.Post) map[string]string {
	covers := make(map[string]string)
	site := a.Site()
	for _, p := range posts {
		if p.Meta.CoverImage == nil {
			continue
		}
		src, ok := a.localCoverPath(*p.Meta.CoverImage)
		if !ok {
			continue
		}
		name := p.Slug + ".jpg"
		dst := filepath.Join(a.Config.CoversDir, name)
		if err := writeThumbnail(src, dst); err != nil {
			a.Echo.Logger.Warnf("cover %s: %v", p.Slug, err)
			continue
		}
		covers[p.Slug] = site.File("covers", name)
	}
	a.pruneCovers(covers)
	return covers
}

// pruneCovers removes thumbnails whose post is gone or no longer has a
// local cover image.
func (a *App) pruneCovers(covers map[string]string) {
	entries, err := os.ReadDir(a.Config.CoversDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || filepath.Ext(name) != ".jpg" {
			continue
		}
		if _, ok := covers[strings.TrimSuffix(name, ".jpg")]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(a.Config.CoversDir, name)); err != nil {
			a.Echo.Logger.Warnf("prune cover %s: %v", name, err)
		}
	}
}

// writeThumbnail renders src into dst unless dst is already newer.
func writeThumbnail(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if dstInfo, err := os.Stat(dst); err == nil && !dstInfo.ModTime().Before(srcInfo.ModTime()) {
		return nil
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := processImage(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create covers dir: %w", err)
	}
	return os.WriteFile(dst, data, 0o644)
}
