package importer

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrUnclosedFrontMatter is returned when a file opens a front matter block
// but never closes it.
var ErrUnclosedFrontMatter = errors.New("front matter opened with --- but never closed")

// FrontMatter holds the fields the importer understands. Unknown keys are
// ignored.
type FrontMatter struct {
	Title string    `yaml:"title"`
	Date  time.Time `yaml:"date"`
	ID    string    `yaml:"id"`
}

// SplitFrontMatter separates a leading `---` delimited YAML block from the
// markdown body. Files without one return a zero FrontMatter and the full
// input as body.
func SplitFrontMatter(content []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter

	nl := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		nl = "\r\n"
	}
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return fm, content, nil
	}

	rest := content[len(open):]
	var raw, body []byte
	if bytes.HasPrefix(rest, open) {
		body = rest[len(open):]
	} else {
		closing := []byte(nl + "---" + nl)
		idx := bytes.Index(rest, closing)
		if idx < 0 {
			if !bytes.HasSuffix(rest, []byte(nl+"---")) {
				return fm, nil, ErrUnclosedFrontMatter
			}
			idx = len(rest) - len(nl) - 3
			raw, body = rest[:idx+len(nl)], nil
		} else {
			raw, body = rest[:idx+len(nl)], rest[idx+len(closing):]
		}
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		if err := yaml.Unmarshal(raw, &fm); err != nil {
			return fm, nil, fmt.Errorf("parse front matter: %w", err)
		}
	}
	if fm.ID != "" {
		if _, err := uuid.Parse(fm.ID); err != nil {
			return fm, nil, fmt.Errorf("front matter id %q: %w", fm.ID, err)
		}
	}
	return fm, body, nil
}
