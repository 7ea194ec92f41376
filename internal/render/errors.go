package render

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrEncoding is matched by every EncodingError.
var ErrEncoding = errors.New("render: invalid UTF-8")

// EncodingError reports text that is not valid UTF-8, either in the markdown
// handed to Render or in the HTML it produced. It is not retryable.
type EncodingError struct {
	Stage  string // "input" or "output"
	Offset int    // Byte offset of the first invalid sequence
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("render: invalid UTF-8 in %s at byte %d", e.Stage, e.Offset)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// CheckUTF8 returns an *EncodingError for the given stage when b is not valid
// UTF-8.
func CheckUTF8(stage string, b []byte) error {
	if off := invalidOffset(b); off >= 0 {
		return &EncodingError{Stage: stage, Offset: off}
	}
	return nil
}

// invalidOffset returns the byte offset of the first invalid UTF-8 sequence,
// or -1 when b is valid.
func invalidOffset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
