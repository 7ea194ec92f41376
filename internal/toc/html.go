package toc

import (
	"html"
	"strings"
)

// Items serializes the forest as a sequence of <li> elements without an
// enclosing list. Nested children are wrapped in their own <ul>.
func Items(forest []*Node) string {
	var b strings.Builder
	writeItems(&b, forest)
	return b.String()
}

// List wraps Items in a <ul>. It returns "" for an empty forest so pages
// without headings do not render an empty list.
func List(forest []*Node) string {
	if len(forest) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<ul>")
	writeItems(&b, forest)
	b.WriteString("</ul>")
	return b.String()
}

// Recursion depth is bounded by heading depth (at most six levels).
func writeItems(b *strings.Builder, nodes []*Node) {
	for _, n := range nodes {
		b.WriteString(`<li><a href="#`)
		b.WriteString(html.EscapeString(n.Anchor))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(n.Title))
		b.WriteString("</a>")
		if len(n.Children) > 0 {
			b.WriteString("<ul>")
			writeItems(b, n.Children)
			b.WriteString("</ul>")
		}
		b.WriteString("</li>")
	}
}
