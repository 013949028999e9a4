package classmap

import "smerge/synt"

// unionFind implements the disjoint-set structure backing Build, with each
// root tracking its current per-revision membership so a merge that would
// introduce a second node of the same revision can be rejected before it
// happens.
type unionFind struct {
	parent  map[*synt.Node]*synt.Node
	rank    map[*synt.Node]int
	members map[*synt.Node]map[synt.Revision]*synt.Node
	revOf   map[*synt.Node]synt.Revision
	order   []*synt.Node // insertion order, for deterministic class numbering
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent:  make(map[*synt.Node]*synt.Node),
		rank:    make(map[*synt.Node]int),
		members: make(map[*synt.Node]map[synt.Revision]*synt.Node),
		revOf:   make(map[*synt.Node]synt.Revision),
	}
}

func (u *unionFind) add(n *synt.Node, rev synt.Revision) {
	if _, ok := u.parent[n]; ok {
		return
	}
	u.parent[n] = n
	u.rank[n] = 0
	u.members[n] = map[synt.Revision]*synt.Node{rev: n}
	u.revOf[n] = rev
	u.order = append(u.order, n)
}

func (u *unionFind) find(n *synt.Node) *synt.Node {
	root := n
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[n] != root {
		next := u.parent[n]
		u.parent[n] = root
		n = next
	}
	return root
}

// unionIfConsistent merges the classes of u and v unless doing so would
// produce a class with two nodes of the same revision; returns whether the
// merge happened.
func (u *unionFind) unionIfConsistent(a, b *synt.Node) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return true
	}

	ma, mb := u.members[ra], u.members[rb]
	for rev, n := range mb {
		if existing, ok := ma[rev]; ok && existing != n {
			return false // would duplicate a revision within one class
		}
	}

	// union by rank
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
		ma, mb = mb, ma
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
	for rev, n := range mb {
		ma[rev] = n
	}
	delete(u.members, rb)
	return true
}

// finalize converts the disjoint sets into a Mapping with stable,
// deterministically-ordered class IDs.
func (u *unionFind) finalize() *Mapping {
	m := &Mapping{byNode: make(map[*synt.Node]*Class)}

	rootSeen := make(map[*synt.Node]*Class)
	for _, n := range u.order {
		root := u.find(n)
		class, ok := rootSeen[root]
		if !ok {
			class = &Class{ID: len(m.classes), Members: u.members[root]}
			rootSeen[root] = class
			m.classes = append(m.classes, class)
		}
		m.byNode[n] = class
	}
	return m
}
