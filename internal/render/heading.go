package render

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/dgallion1/blogd/internal/slug"
	"github.com/dgallion1/blogd/internal/toc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// headingPriority beats the stock HTML renderer (1000) for headings.
const headingPriority = 100

// captureWriter is the writer handed to goldmark for one render. It carries
// the heading accumulator so node renderers registered on a shared goldmark
// instance can reach per-document state.
type captureWriter struct {
	*bufio.Writer
	anchors  *slug.Set
	headings []toc.Heading
}

func newCaptureWriter(w *bytes.Buffer) *captureWriter {
	return &captureWriter{
		Writer:  bufio.NewWriter(w),
		anchors: slug.NewSet(),
	}
}

// record assigns the heading a unique anchor and appends it to the buffer.
func (c *captureWriter) record(text string, level int) string {
	anchor := c.anchors.Unique(slug.Make(text))
	c.headings = append(c.headings, toc.Heading{Text: text, Slug: anchor, Level: level})
	return anchor
}

// headingAnchors renders every heading with an id attribute and records it.
type headingAnchors struct{}

func (h *headingAnchors) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(h, headingPriority)),
	)
}

func (h *headingAnchors) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, h.renderHeading)
}

func (h *headingAnchors) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if !entering {
		_, _ = w.WriteString("</h")
		_ = w.WriteByte("0123456"[n.Level])
		_, _ = w.WriteString(">\n")
		return ast.WalkContinue, nil
	}

	text := headingText(n, source)
	var anchor string
	if cw, ok := w.(*captureWriter); ok {
		anchor = cw.record(text, n.Level)
	} else {
		anchor = slug.Make(text)
	}

	_, _ = w.WriteString("<h")
	_ = w.WriteByte("0123456"[n.Level])
	_, _ = w.WriteString(` id="`)
	_, _ = w.Write(util.EscapeHTML([]byte(anchor)))
	_, _ = w.WriteString(`">`)
	return ast.WalkContinue, nil
}

// headingText returns the plain text of a heading's inline content, with
// backslash escapes and entity references resolved.
func headingText(n ast.Node, source []byte) string {
	var b bytes.Buffer
	var collect func(parent ast.Node, code bool)
	collect = func(parent ast.Node, code bool) {
		for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				v := t.Segment.Value(source)
				if !code {
					v = util.ResolveNumericReferences(util.ResolveEntityNames(util.UnescapePunctuations(v)))
				}
				b.Write(v)
				if t.SoftLineBreak() || t.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.Write(t.Value)
			case *ast.AutoLink:
				b.Write(t.Label(source))
			case *ast.CodeSpan:
				collect(c, true)
			case *ast.RawHTML:
				// not part of the visible title
			default:
				collect(c, code)
			}
		}
	}
	collect(n, false)
	return strings.Join(strings.Fields(b.String()), " ")
}
