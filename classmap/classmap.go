// Package classmap computes equivalence classes over the union of the
// three pairwise matchings (spec.md §4.3): the only long-lived identifier
// for a node used by the PCS changeset, merger and validators downstream.
package classmap

import (
	"smerge/match"
	"smerge/synt"
)

// Class is an equivalence class of matched nodes across revisions. At most
// one node per revision; the leader is the Base representative if present,
// else Left, else Right.
type Class struct {
	ID      int
	Members map[synt.Revision]*synt.Node
}

// Leader returns the class's canonical representative.
func (c *Class) Leader() *synt.Node {
	if n, ok := c.Members[synt.Base]; ok {
		return n
	}
	if n, ok := c.Members[synt.Left]; ok {
		return n
	}
	return c.Members[synt.Right]
}

// Mapping is the bidirectional index between classes and per-revision
// nodes.
type Mapping struct {
	classes  []*Class
	byNode   map[*synt.Node]*Class
}

// ClassOf returns the class a node (from any of the three trees) belongs
// to. Every node has a class, even if it matched nothing (a singleton).
func (m *Mapping) ClassOf(n *synt.Node) *Class {
	return m.byNode[n]
}

// Classes returns all classes, in creation order (stable across runs given
// the deterministic traversal order Build uses).
func (m *Mapping) Classes() []*Class {
	return m.classes
}

type edge struct {
	u, v     *synt.Node
	priority int // lower wins ties: 0 = Base-Left, 1 = Base-Right, 2 = Left-Right
}

// Build unions the three pairwise matchings into class identities. Edges
// are applied in priority order Base-Left > Base-Right > Left-Right; an
// edge that would place two nodes of the same revision into one class is
// skipped rather than applied, which is how the "split preferring
// Base-Left over Base-Right over Left-Right" rule in spec.md §4.3 is
// realized in practice: whichever edge got there first under priority
// ordering wins, and the conflicting edge from a lower-priority matching is
// simply not merged.
func Build(base, left, right *synt.Tree, mBL, mBR, mLR *match.Matching) *Mapping {
	uf := newUnionFind()

	register := func(root *synt.Node, rev synt.Revision) {
		synt.VisibleWalk(root, func(n *synt.Node) {
			uf.add(n, rev)
		})
	}
	register(base.Root, synt.Base)
	register(left.Root, synt.Left)
	register(right.Root, synt.Right)

	var edges []edge
	mBL.Pairs(func(u, v *synt.Node) { edges = append(edges, edge{u, v, 0}) })
	mBR.Pairs(func(u, v *synt.Node) { edges = append(edges, edge{u, v, 1}) })
	mLR.Pairs(func(u, v *synt.Node) { edges = append(edges, edge{u, v, 2}) })

	for p := 0; p <= 2; p++ {
		for _, e := range edges {
			if e.priority != p {
				continue
			}
			uf.unionIfConsistent(e.u, e.v)
		}
	}

	return uf.finalize()
}
