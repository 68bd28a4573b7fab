package scenario

// Category names one of the top-level scenario sections.
type Category string

const (
	Functionality    Category = "functionality"
	UserInteractions Category = "user_interactions"
	Assertions       Category = "assertions"
	EdgeCases        Category = "edge_cases"
)

// Categories returns the sections in processing order.
func Categories() []Category {
	return []Category{Functionality, UserInteractions, Assertions, EdgeCases}
}

// Document is a read-only view over a scenario root node. Any root shape is
// accepted; a root that is not a mapping simply has no sections.
type Document struct {
	root Node
}

// NewDocument wraps a decoded root node.
func NewDocument(root Node) Document {
	return Document{root: root}
}

// Root returns the underlying node.
func (d Document) Root() Node { return d.root }

// Section returns the raw node stored under c, if any.
func (d Document) Section(c Category) (Node, bool) {
	m, ok := d.root.(*Mapping)
	if !ok {
		return nil, false
	}
	return m.Get(string(c))
}

// Entries returns the items of section c. A sequence yields its elements, any
// other present value is a single entry, and an absent or null section is
// empty.
func (d Document) Entries(c Category) []Node {
	n, ok := d.Section(c)
	if !ok || n == nil {
		return nil
	}
	switch t := n.(type) {
	case Sequence:
		return t
	case Opaque:
		if t.Value == nil {
			return nil
		}
	}
	return []Node{n}
}
