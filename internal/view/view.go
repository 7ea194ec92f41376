// Package view renders blog pages with html/template.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/dgallion1/blogd/internal/posts"
	"github.com/dgallion1/blogd/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// SinglePost is the data behind a post page. TOC and Content are trusted
// markup produced by the renderer.
type SinglePost struct {
	Title   string
	TOC     template.HTML
	Content template.HTML
}

// NewSinglePost combines a stored post with its rendered output.
func NewSinglePost(p *posts.Post, res *render.Result) SinglePost {
	return SinglePost{
		Title:   p.Title,
		TOC:     template.HTML(res.TOCHTML()),
		Content: template.HTML(res.HTML),
	}
}

// Pages holds the parsed page templates.
type Pages struct {
	post  *template.Template
	index *template.Template
}

// NewPages parses the embedded templates.
func NewPages() (*Pages, error) {
	post, err := template.ParseFS(templateFS, "templates/layout.html", "templates/post.html")
	if err != nil {
		return nil, fmt.Errorf("parse post template: %w", err)
	}
	index, err := template.ParseFS(templateFS, "templates/layout.html", "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	return &Pages{post: post, index: index}, nil
}

// Post writes the page for a single post. Output is buffered so a template
// error never leaves a half-written page.
func (p *Pages) Post(w io.Writer, data SinglePost) error {
	return execute(w, p.post, data)
}

// Index writes the list of latest posts.
func (p *Pages) Index(w io.Writer, latest []posts.Summary) error {
	return execute(w, p.index, latest)
}

func execute(w io.Writer, t *template.Template, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute %s: %w", t.Name(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}
