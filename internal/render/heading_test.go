package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func TestHeadingAnchors_WithoutCaptureWriter(t *testing.T) {
	// Converting through goldmark directly still anchors headings; nothing
	// is recorded because there is no capture buffer.
	md := goldmark.New(goldmark.WithExtensions(&headingAnchors{}))

	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte("# Hello World\n## Hello World"), &buf))

	assert.Equal(t, "<h1 id=\"hello-world\">Hello World</h1>\n<h2 id=\"hello-world\">Hello World</h2>\n", buf.String())
}

func TestCaptureWriter_Record(t *testing.T) {
	var buf bytes.Buffer
	w := newCaptureWriter(&buf)

	assert.Equal(t, "intro", w.record("Intro", 2))
	assert.Equal(t, "intro-1", w.record("Intro", 3))
	assert.Len(t, w.headings, 2)
	assert.Equal(t, 3, w.headings[1].Level)
}

func TestHeadingText_CollapsesWhitespace(t *testing.T) {
	res, err := New().Render("Multi\nline   heading\n===")
	require.NoError(t, err)

	require.Len(t, res.Headings, 1)
	assert.Equal(t, "Multi line heading", res.Headings[0].Text)
	assert.Equal(t, "multi-line-heading", res.Headings[0].Slug)
}

func TestHeadingText_LinkText(t *testing.T) {
	res, err := New().Render("## See [the docs](https://example.com)")
	require.NoError(t, err)

	require.Len(t, res.Headings, 1)
	assert.Equal(t, "See the docs", res.Headings[0].Text)
	assert.Contains(t, res.HTML, `<h2 id="see-the-docs">See <a href="https://example.com">the docs</a></h2>`)
}

func TestHeadingText_AutoLinks(t *testing.T) {
	tests := []struct {
		name     string
		md       string
		wantText string
		wantSlug string
	}{
		{"bare url", "# Visit https://go.dev", "Visit https://go.dev", "visit-https-go-dev"},
		{"angle autolink", "# See <https://go.dev>", "See https://go.dev", "see-https-go-dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New().Render(tt.md)
			require.NoError(t, err)

			require.Len(t, res.Headings, 1)
			assert.Equal(t, tt.wantText, res.Headings[0].Text)
			assert.Equal(t, tt.wantSlug, res.Headings[0].Slug)
			assert.Contains(t, res.HTML, `<h1 id="`+tt.wantSlug+`">`)
			assert.Contains(t, res.HTML, `<a href="https://go.dev">https://go.dev</a>`)
			assert.Equal(t, `<ul><li><a href="#`+tt.wantSlug+`">`+tt.wantText+`</a></li></ul>`, res.TOCHTML())
		})
	}
}
