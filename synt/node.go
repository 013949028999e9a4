// Package synt provides the post-processed syntax tree model shared by the
// matcher, class mapper, PCS changeset, merger and renderer.
package synt

// Revision tags one of the three sides of a merge.
type Revision string

const (
	Base  Revision = "base"
	Left  Revision = "left"
	Right Revision = "right"
)

// Node is a single syntax-tree node. Nodes are immutable after
// post-processing: the matcher, class mapper and PCS encoder only ever read
// a Node's fields and attach derived state in external tables, never on the
// Node itself, apart from the hash and subtree-size caches that Hash and
// Size memoize here (see DESIGN.md, "graph ownership of trees").
type Node struct {
	Type      string // grammar node type, e.g. "binary_expression"
	Field     string // grammar field label on this node within its parent, may be empty
	Start     int    // byte offset into Tree.Source
	End       int    // byte offset into Tree.Source, exclusive
	Children  []*Node

	// IsAtomic, IsCommutativeParent and IsExtraComment are stamped by the
	// parser driver from the language profile when it builds the tree; they
	// never change again.
	IsAtomic           bool
	IsCommutativeParent bool
	IsExtraComment     bool

	// FlattenedOps holds the operator token text between children of a
	// node produced by flattening (see flattenOperators in postprocess.go);
	// empty otherwise.
	FlattenedOps []string

	hash     []byte // memoized on first Hash() call
	subtrees int     // memoized subtree size, 0 means "not yet computed"
}

// Text returns this node's slice of the owning tree's source.
func (n *Node) Text(source []byte) []byte {
	return source[n.Start:n.End]
}

// EffectiveChildren returns the node's children for matching/PCS purposes:
// atomic nodes never expose children downstream even if the grammar parsed
// some (spec invariant: "atomic nodes have no children exposed to the
// matcher").
func (n *Node) EffectiveChildren() []*Node {
	if n.IsAtomic {
		return nil
	}
	return n.Children
}

// Size returns the memoized subtree size (node count including itself).
func (n *Node) Size() int {
	if n.subtrees != 0 {
		return n.subtrees
	}
	size := 1
	for _, c := range n.EffectiveChildren() {
		size += c.Size()
	}
	n.subtrees = size
	return size
}
