package toc

// Heading is one heading captured while rendering a document.
type Heading struct {
	Text  string // Plain heading text
	Slug  string // Anchor id emitted on the heading tag
	Level int    // Source depth, 1 for "#"
}

// Node is an entry in the table of contents.
type Node struct {
	Title    string  `json:"title"`
	Anchor   string  `json:"anchor"`
	Level    int     `json:"level"` // Normalized: the shallowest heading is 0
	Children []*Node `json:"children,omitempty"`
}

// Walk visits every node depth-first in document order. The depth passed to fn
// is the nesting depth in the forest, not the heading level.
func Walk(forest []*Node, fn func(n *Node, depth int)) {
	var visit func(nodes []*Node, depth int)
	visit = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			visit(n.Children, depth+1)
		}
	}
	visit(forest, 0)
}

// Count returns the number of nodes in the forest.
func Count(forest []*Node) int {
	total := 0
	Walk(forest, func(*Node, int) { total++ })
	return total
}

// Depth returns the number of nesting levels in the forest (0 when empty).
func Depth(forest []*Node) int {
	deepest := 0
	Walk(forest, func(_ *Node, depth int) {
		deepest = max(deepest, depth+1)
	})
	return deepest
}
