// Package pcs encodes each tree as a set of Parent-Child-Successor triples
// keyed on class leaders (spec.md §4.4), unions the three trees' triples
// into a changeset, and eliminates Base triples inconsistent with Left or
// Right.
package pcs

import (
	"smerge/classmap"
	"smerge/synt"
)

// Sentinel leaders, reserved per spec.md §3. These are ordinary *synt.Node
// values used purely for their pointer identity; they never belong to any
// real tree and are never hashed or walked.
var (
	ListBegin = &synt.Node{Type: "⊣"}
	ListEnd   = &synt.Node{Type: "⊢"}
	Root      = &synt.Node{Type: "⊥"}
)

// Triple is a (parent, predecessor, successor) record, all three
// references already resolved to their class leader, tagged with the
// revision whose tree produced it.
type Triple struct {
	Parent      *synt.Node
	Predecessor *synt.Node
	Successor   *synt.Node
	Revision    synt.Revision
}

// EncodeTree walks tree top-down and emits one triple per adjacent child
// pair per internal (visible) node, with ⊣/⊢ sentinels at the ends of each
// child list, plus the two virtual-root triples (⊥, ⊣, root) and
// (⊥, root, ⊢).
func EncodeTree(tree *synt.Tree, mapping *classmap.Mapping) []Triple {
	leaderOf := func(n *synt.Node) *synt.Node {
		if class := mapping.ClassOf(n); class != nil {
			return class.Leader()
		}
		return n
	}

	rootLeader := leaderOf(tree.Root)
	triples := []Triple{
		{Parent: Root, Predecessor: ListBegin, Successor: rootLeader, Revision: tree.Revision},
		{Parent: Root, Predecessor: rootLeader, Successor: ListEnd, Revision: tree.Revision},
	}

	var walk func(n *synt.Node)
	walk = func(n *synt.Node) {
		children := n.EffectiveChildren()
		if len(children) > 0 {
			parentLeader := leaderOf(n)
			prev := ListBegin
			for _, c := range children {
				childLeader := leaderOf(c)
				triples = append(triples, Triple{Parent: parentLeader, Predecessor: prev, Successor: childLeader, Revision: tree.Revision})
				prev = childLeader
			}
			triples = append(triples, Triple{Parent: parentLeader, Predecessor: prev, Successor: ListEnd, Revision: tree.Revision})
		}
		for _, c := range children {
			walk(c)
		}
	}
	walk(tree.Root)

	return triples
}
