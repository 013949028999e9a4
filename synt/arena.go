package synt

// Arena is a bump allocator for Nodes belonging to one merge's three trees.
// Nodes never hold a back-pointer to their class identity; class membership
// lives entirely in an external table (see package classmap) so the Arena
// can be dropped as one unit once the merge completes, per the "graph
// ownership of trees" design note: Nodes form cycle-free trees, and giving
// them cross-tree back-pointers would turn that into a graph.
type Arena struct {
	nodes []*Node
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// New allocates and registers a Node in the arena.
func (a *Arena) New(n *Node) *Node {
	a.nodes = append(a.nodes, n)
	return n
}

// Len returns the number of nodes allocated so far.
func (a *Arena) Len() int {
	return len(a.nodes)
}
