package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItems(t *testing.T) {
	forest := []*Node{
		{Title: "a", Anchor: "a"},
		{Title: "b", Anchor: "b", Children: []*Node{
			{Title: "c", Anchor: "c", Level: 1},
			{Title: "d", Anchor: "d", Level: 1},
		}},
	}

	assert.Equal(t,
		`<li><a href="#a">a</a></li><li><a href="#b">b</a><ul><li><a href="#c">c</a></li><li><a href="#d">d</a></li></ul></li>`,
		Items(forest))
}

func TestList(t *testing.T) {
	forest := Build([]Heading{
		{Text: "Title", Slug: "title", Level: 1},
		{Text: "Subtitle", Slug: "subtitle", Level: 2},
	})

	assert.Equal(t,
		`<ul><li><a href="#title">Title</a><ul><li><a href="#subtitle">Subtitle</a></li></ul></li></ul>`,
		List(forest))
	assert.Equal(t, "<ul>"+Items(forest)+"</ul>", List(forest))
}

func TestList_Empty(t *testing.T) {
	assert.Equal(t, "", List(nil))
	assert.Equal(t, "", Items(nil))
}

func TestItems_EscapesTitleAndAnchor(t *testing.T) {
	forest := []*Node{{Title: `Tom & "Jerry" <3`, Anchor: `x"y`}}

	assert.Equal(t,
		`<li><a href="#x&#34;y">Tom &amp; &#34;Jerry&#34; &lt;3</a></li>`,
		Items(forest))
}

func TestItems_DeepNesting(t *testing.T) {
	forest := Build([]Heading{
		{Text: "1", Slug: "1", Level: 1},
		{Text: "2", Slug: "2", Level: 2},
		{Text: "3", Slug: "3", Level: 3},
	})

	assert.Equal(t,
		`<li><a href="#1">1</a><ul><li><a href="#2">2</a><ul><li><a href="#3">3</a></li></ul></li></ul></li>`,
		Items(forest))
}
