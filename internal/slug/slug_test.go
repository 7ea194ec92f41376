package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Title", "title"},
		{"Subtitle", "subtitle"},
		{"Hello, World!", "hello-world"},
		{"  leading and trailing  ", "leading-and-trailing"},
		{"multiple---dashes", "multiple-dashes"},
		{"Café au lait", "cafe-au-lait"},
		{"Ünïcödé", "unicode"},
		{"Step 2: Configure", "step-2-configure"},
		{"snake_case_name", "snake-case-name"},
		{"!!!", "section"},
		{"", "section"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMake_Deterministic(t *testing.T) {
	for range 5 {
		assert.Equal(t, "getting-started", Make("Getting Started"))
	}
}

func TestSet_Unique(t *testing.T) {
	s := NewSet()

	assert.Equal(t, "title", s.Unique("title"))
	assert.Equal(t, "title-1", s.Unique("title"))
	assert.Equal(t, "title-2", s.Unique("title"))
	assert.Equal(t, "other", s.Unique("other"))
	assert.Len(t, s.issued, 4)
}

func TestSet_UniqueSkipsIssuedSuffix(t *testing.T) {
	// A heading literally named "title-1" must not collide with the
	// disambiguated second "title".
	s := NewSet()

	assert.Equal(t, "title-1", s.Unique("title-1"))
	assert.Equal(t, "title", s.Unique("title"))
	assert.Equal(t, "title-2", s.Unique("title"))
}

func TestSet_IndependentPerDocument(t *testing.T) {
	a, b := NewSet(), NewSet()

	assert.Equal(t, "intro", a.Unique("intro"))
	assert.Equal(t, "intro", b.Unique("intro"))
}
