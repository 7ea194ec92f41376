package importer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantTitle string
		wantDate  time.Time
		wantID    string
		wantBody  string
	}{
		{
			name:     "no front matter",
			in:       "# Hello\n",
			wantBody: "# Hello\n",
		},
		{
			name:      "title and date",
			in:        "---\ntitle: Hello there\ndate: 2024-03-01\n---\n# Body\n",
			wantTitle: "Hello there",
			wantDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantBody:  "# Body\n",
		},
		{
			name:     "empty block",
			in:       "---\n---\ntext",
			wantBody: "text",
		},
		{
			name:      "crlf",
			in:        "---\r\ntitle: Windows\r\n---\r\nbody\r\n",
			wantTitle: "Windows",
			wantBody:  "body\r\n",
		},
		{
			name:      "closed at end of file",
			in:        "---\ntitle: Only meta\n---",
			wantTitle: "Only meta",
			wantBody:  "",
		},
		{
			name:     "unknown keys ignored",
			in:       "---\ntags: [a, b]\nid: 6f1c0e1e-6d8b-4e34-9c0a-1a2b3c4d5e6f\n---\nx",
			wantID:   "6f1c0e1e-6d8b-4e34-9c0a-1a2b3c4d5e6f",
			wantBody: "x",
		},
		{
			name:     "thematic break later in file is not front matter",
			in:       "intro\n---\nmore",
			wantBody: "intro\n---\nmore",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := SplitFrontMatter([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, fm.Title)
			assert.True(t, tt.wantDate.Equal(fm.Date), "date %v", fm.Date)
			assert.Equal(t, tt.wantID, fm.ID)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestSplitFrontMatter_Errors(t *testing.T) {
	_, _, err := SplitFrontMatter([]byte("---\ntitle: never closed\n\n# Body"))
	assert.True(t, errors.Is(err, ErrUnclosedFrontMatter))

	_, _, err = SplitFrontMatter([]byte("---\ntitle: [unterminated\n---\n"))
	assert.Error(t, err)

	_, _, err = SplitFrontMatter([]byte("---\nid: not-a-uuid\n---\n"))
	assert.Error(t, err)
}
