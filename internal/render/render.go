// Package render turns markdown into HTML with anchored headings and builds
// the table of contents from the headings met along the way.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/blogd/internal/metrics"
	"github.com/dgallion1/blogd/internal/toc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Result is the output of one render.
type Result struct {
	HTML     string        `json:"html"`
	Headings []toc.Heading `json:"-"`
	TOC      []*toc.Node   `json:"toc"`
}

// TOCHTML returns the wrapped table-of-contents markup.
func (r *Result) TOCHTML() string {
	return toc.List(r.TOC)
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	extensions []goldmark.Extender
	unsafeHTML bool
	recorder   metrics.Recorder
}

// WithExtensions replaces the default goldmark extensions (GFM).
func WithExtensions(exts ...goldmark.Extender) Option {
	return func(o *options) { o.extensions = exts }
}

// WithUnsafeHTML passes raw HTML in the markdown through to the output.
func WithUnsafeHTML() Option {
	return func(o *options) { o.unsafeHTML = true }
}

// WithRecorder reports render timings and outcomes to rec.
func WithRecorder(rec metrics.Recorder) Option {
	return func(o *options) { o.recorder = rec }
}

// Renderer converts markdown documents. It is safe for concurrent use; every
// call to Render gets its own heading buffer.
type Renderer struct {
	md       goldmark.Markdown
	recorder metrics.Recorder
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	o := options{
		extensions: []goldmark.Extender{extension.GFM},
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	var rendererOpts []renderer.Option
	if o.unsafeHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	exts := append([]goldmark.Extender{&headingAnchors{}}, o.extensions...)
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithRendererOptions(rendererOpts...),
		),
		recorder: o.recorder,
	}
}

// Render parses markdown, renders it to HTML and builds the table of contents.
// Empty input yields an empty result, not an error. Input that is not valid
// UTF-8 yields an *EncodingError.
func (r *Renderer) Render(markdown string) (*Result, error) {
	start := time.Now()
	res, err := r.render(markdown)
	switch {
	case err == nil:
		r.recorder.ObserveRender(time.Since(start), len(res.Headings), metrics.OutcomeOK)
	case errors.Is(err, ErrEncoding):
		r.recorder.ObserveRender(time.Since(start), 0, metrics.OutcomeEncodingError)
	default:
		r.recorder.ObserveRender(time.Since(start), 0, metrics.OutcomeError)
	}
	return res, err
}

func (r *Renderer) render(markdown string) (*Result, error) {
	src := []byte(markdown)
	if err := CheckUTF8("input", src); err != nil {
		return nil, err
	}

	doc := r.md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	w := newCaptureWriter(&buf)
	if err := r.md.Renderer().Render(w, src, doc); err != nil {
		return nil, fmt.Errorf("render: write html: %w", err)
	}

	out := buf.Bytes()
	if err := CheckUTF8("output", out); err != nil {
		return nil, err
	}

	// Traversal is complete; the buffer is read once and dropped with w.
	headings := w.headings
	if headings == nil {
		headings = []toc.Heading{}
	}
	return &Result{
		HTML:     string(out),
		Headings: headings,
		TOC:      toc.Build(headings),
	}, nil
}
