package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindFigure is the node kind of Figure.
var KindFigure = ast.NewNodeKind("Figure")

// Figure wraps a titled image that stood alone in its paragraph.
type Figure struct {
	ast.BaseBlock
}

func (n *Figure) Kind() ast.NodeKind {
	return KindFigure
}

func (n *Figure) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// figureTransformer replaces paragraphs that hold exactly one titled image
// with a Figure so the title can be rendered as a caption.
type figureTransformer struct{}

func (figureTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var targets []*ast.Paragraph
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		p, ok := n.(*ast.Paragraph)
		if !ok {
			return ast.WalkContinue, nil
		}
		if p.ChildCount() == 1 {
			if img, ok := p.FirstChild().(*ast.Image); ok && len(img.Title) > 0 {
				targets = append(targets, p)
			}
		}
		return ast.WalkSkipChildren, nil
	})
	for _, p := range targets {
		img := p.FirstChild()
		p.RemoveChild(p, img)
		fig := &Figure{}
		fig.AppendChild(fig, img)
		parent := p.Parent()
		parent.ReplaceChild(parent, p, fig)
	}
}

type figureRenderer struct{}

func (r figureRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindFigure, r.renderFigure)
}

func (figureRenderer) renderFigure(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<figure>")
		return ast.WalkContinue, nil
	}
	if img, ok := n.FirstChild().(*ast.Image); ok {
		_, _ = w.WriteString("<figcaption>")
		_, _ = w.Write(util.EscapeHTML(img.Title))
		_, _ = w.WriteString("</figcaption>")
	}
	_, _ = w.WriteString("</figure>\n")
	return ast.WalkContinue, nil
}
