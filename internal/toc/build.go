package toc

// Normalize shifts heading levels so the shallowest heading in the document
// is level 0. Order is preserved.
func Normalize(headings []Heading) []Heading {
	out := make([]Heading, len(headings))
	if len(headings) == 0 {
		return out
	}

	minLevel := headings[0].Level
	for _, h := range headings[1:] {
		if h.Level < minLevel {
			minLevel = h.Level
		}
	}

	for i, h := range headings {
		h.Level -= minLevel
		out[i] = h
	}
	return out
}

// Build nests headings into a forest of ToC nodes.
//
// A heading becomes a child of the most recently placed node on the rightmost
// spine of the last root whose level is strictly shallower. A heading that is
// not deeper than the last root starts a new root, however deep the previous
// section went.
func Build(headings []Heading) []*Node {
	forest := make([]*Node, 0)

	for _, h := range Normalize(headings) {
		node := &Node{Title: h.Text, Anchor: h.Slug, Level: h.Level}

		if len(forest) == 0 {
			forest = append(forest, node)
			continue
		}

		cursor := forest[len(forest)-1]
		if node.Level <= cursor.Level {
			forest = append(forest, node)
			continue
		}

		for len(cursor.Children) > 0 {
			last := cursor.Children[len(cursor.Children)-1]
			if last.Level >= node.Level {
				break
			}
			cursor = last
		}
		cursor.Children = append(cursor.Children, node)
	}

	return forest
}
