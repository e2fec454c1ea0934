package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, md string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RenderMarkdown(&buf, md))
	return buf.String()
}

func TestRenderMarkdownBasics(t *testing.T) {
	tests := []struct {
		input    string
		contains string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"`code`", "<code>code</code>"},
		{"# Title", `<h1 id="title">Title</h1>`},
		{"~~gone~~", "<del>gone</del>"},
		{"[link](https://example.com)", `<a href="https://example.com">link</a>`},
		{"| a | b |\n|---|---|\n| 1 | 2 |", "<table>"},
	}
	for _, tt := range tests {
		got := render(t, tt.input)
		assert.Contains(t, got, tt.contains, "input %q", tt.input)
	}
}

func TestRenderMarkdownOmitsRawHTML(t *testing.T) {
	got := render(t, "<script>alert(1)</script>\n")
	assert.NotContains(t, got, "<script>")
}

func TestRenderMarkdownFigureTitle(t *testing.T) {
	got := render(t, `![A graph](/img/graph.png "Dijkstra on a small graph")`)

	assert.Contains(t, got, "<figure>")
	assert.Contains(t, got, `<img src="/img/graph.png" alt="A graph" title="Dijkstra on a small graph">`)
	assert.Contains(t, got, "<figcaption>Dijkstra on a small graph</figcaption></figure>")
	assert.NotContains(t, got, "<p><figure>")
}

func TestRenderMarkdownFigureTitleEscaped(t *testing.T) {
	got := render(t, `![x](/a.png "a <b> & c")`)
	assert.Contains(t, got, "<figcaption>a &lt;b&gt; &amp; c</figcaption>")
}

func TestRenderMarkdownUntitledImageStaysInline(t *testing.T) {
	got := render(t, "![alt](/a.png)")
	assert.NotContains(t, got, "<figure>")
	assert.Contains(t, got, "<p><img")
}

func TestRenderMarkdownImageWithTextIsNotFigure(t *testing.T) {
	got := render(t, `see ![alt](/a.png "title") here`)
	assert.NotContains(t, got, "<figure>")
}

func TestRenderMarkdownAccessibleEmoji(t *testing.T) {
	got := render(t, "ship it :rocket:")
	assert.Contains(t, got, `<span role="img" aria-label="rocket">🚀</span>`)
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Markdown("hello **world**").Render(context.Background(), &buf))
	assert.Equal(t, "<p>hello <strong>world</strong></p>\n", buf.String())
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("<p>a few words</p>"))

	long := "<p>" + strings.Repeat("word ", 450) + "</p><pre><code>" + strings.Repeat("x ", 1000) + "</code></pre>"
	assert.Equal(t, 3, ReadingTime(long))
}
