package markdown

import (
	"html"

	emoji "github.com/yuin/goldmark-emoji"
	emojiast "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark/util"
)

// renderAccessibleEmoji writes shortcode emoji as labelled images so screen
// readers announce the name instead of the raw glyph.
func renderAccessibleEmoji(w util.BufWriter, source []byte, n *emojiast.Emoji, config *emoji.RendererConfig) {
	_, _ = w.WriteString(`<span role="img" aria-label="`)
	_, _ = w.WriteString(html.EscapeString(n.Value.Name))
	_, _ = w.WriteString(`">`)
	_, _ = w.WriteString(string(n.Value.Unicode))
	_, _ = w.WriteString("</span>")
}
