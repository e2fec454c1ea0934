package inkpress

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func withCover(doc, cover string) string {
	return strings.Replace(doc, "category:", "coverImage: "+cover+"\ncategory:", 1)
}

func TestProcessImageResizesWideImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1600, 400))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	data, err := processImage(&buf)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestProcessImageKeepsNarrowImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	data, err := processImage(&buf)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	_, err := processImage(strings.NewReader("not an image"))
	assert.Error(t, err)
}

func TestLocalCoverPath(t *testing.T) {
	app := New(SiteConfig{PublicDir: "public", Base: "/notes"}, DefaultViews())

	tests := []struct {
		ref   string
		want  string
		local bool
	}{
		{"/images/a.png", filepath.Join("public", "images", "a.png"), true},
		{"images/a.png", filepath.Join("public", "images", "a.png"), true},
		{"/notes/images/a.png", filepath.Join("public", "images", "a.png"), true},
		{"/public/images/a.png", filepath.Join("public", "images", "a.png"), true},
		{"/../../etc/passwd", filepath.Join("public", "etc", "passwd"), true},
		{"https://cdn.example.com/a.png", "", false},
		{"data:image/png;base64,AAAA", "", false},
		{"  ", "", false},
	}
	for _, tt := range tests {
		got, ok := app.localCoverPath(tt.ref)
		assert.Equal(t, tt.local, ok, tt.ref)
		assert.Equal(t, tt.want, got, tt.ref)
	}
}

func TestCoverThumbnails(t *testing.T) {
	docs := defaultDocs()
	docs["hello.md"] = withCover(helloDoc, "/images/cover.png")
	docs["design.md"] = withCover(designDoc, "https://cdn.example.com/remote.png")
	cfg := testConfig(t, docs)
	writePNG(t, filepath.Join(cfg.PublicDir, "images", "cover.png"), 1600, 400)

	app := newTestApp(t, cfg)

	thumb := filepath.Join(cfg.CoversDir, "hello.jpg")
	f, err := os.Open(thumb)
	require.NoError(t, err)
	defer f.Close()
	imgCfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 800, imgCfg.Width)

	rec := get(t, app, "/blog/hello/")
	require.Equal(t, http.StatusOK, rec.Code)
	src, _ := parseHTML(t, rec).Find("img.cover").Attr("src")
	assert.Equal(t, "/covers/hello.jpg", src)

	rec = get(t, app, "/covers/hello.jpg")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, app, "/blog/design/")
	require.Equal(t, http.StatusOK, rec.Code)
	src, _ = parseHTML(t, rec).Find("img.cover").Attr("src")
	assert.Equal(t, "https://cdn.example.com/remote.png", src)
	assert.NoFileExists(t, filepath.Join(cfg.CoversDir, "design.jpg"))
}

func TestStaleCoversArePruned(t *testing.T) {
	docs := defaultDocs()
	docs["hello.md"] = withCover(helloDoc, "/images/cover.png")
	cfg := testConfig(t, docs)
	writePNG(t, filepath.Join(cfg.PublicDir, "images", "cover.png"), 200, 100)
	stale := filepath.Join(cfg.CoversDir, "renamed.jpg")
	writePNG(t, stale, 10, 10)
	keep := filepath.Join(cfg.CoversDir, "notes.txt")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

	app := newTestApp(t, cfg)
	assert.FileExists(t, filepath.Join(cfg.CoversDir, "hello.jpg"))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, keep)

	require.NoError(t, os.Remove(filepath.Join(cfg.ContentDir, "hello.md")))
	_, err := app.Reload(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(cfg.CoversDir, "hello.jpg"))

	out := t.TempDir()
	_, err = app.Build(context.Background(), out)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(out, "covers", "hello.jpg"))
	assert.NoFileExists(t, filepath.Join(out, "covers", "renamed.jpg"))
}

func TestMissingCoverIsSkipped(t *testing.T) {
	docs := defaultDocs()
	docs["hello.md"] = withCover(helloDoc, "/images/missing.png")
	app := newTestApp(t, testConfig(t, docs))

	assert.Empty(t, app.coverURL("hello"))
	rec := get(t, app, "/blog/hello/")
	require.Equal(t, http.StatusOK, rec.Code)
	src, _ := parseHTML(t, rec).Find("img.cover").Attr("src")
	assert.Equal(t, "/images/missing.png", src)
}

func TestWriteThumbnailSkipsFreshOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out", "in.jpg")
	writePNG(t, src, 100, 100)

	require.NoError(t, writeThumbnail(src, dst))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(dst, future, future))
	require.NoError(t, os.WriteFile(src, []byte("corrupt"), 0o644))
	require.NoError(t, os.Chtimes(src, time.Now(), time.Now()))

	assert.NoError(t, writeThumbnail(src, dst), "fresh output must not be regenerated")
}
