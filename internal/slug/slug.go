package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallback is returned when text contains nothing sluggable.
const fallback = "section"

// Make converts heading text into a lower-kebab ASCII identifier.
//
// Accented letters are folded to their base form ("Café" -> "cafe"). Any run
// of other characters becomes a single "-", and leading/trailing dashes are
// trimmed.
func Make(text string) string {
	folded, _, err := transform.String(foldChain(), text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))

	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}

	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

// foldChain is built per call; transform.Chain values keep internal state.
func foldChain() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Set hands out unique anchors within one document.
//
// The first request for a base slug returns it unchanged; later requests get
// "-1", "-2", ... appended, skipping anything already issued. A Set must not
// be shared between documents.
type Set struct {
	issued map[string]bool
	next   map[string]int
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{
		issued: make(map[string]bool),
		next:   make(map[string]int),
	}
}

// Unique returns an unused anchor derived from base.
func (s *Set) Unique(base string) string {
	if !s.issued[base] {
		s.issued[base] = true
		return base
	}
	for {
		s.next[base]++
		candidate := base + "-" + strconv.Itoa(s.next[base])
		if !s.issued[candidate] {
			s.issued[candidate] = true
			return candidate
		}
	}
}
