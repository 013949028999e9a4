package match

import "smerge/synt"

// parentIndex1/parentIndex2 lazily build and cache a child->parent index
// for each tree, used only as a tie-break signal during matching (parent
// identity is never stored on Node itself, per the "graph ownership of
// trees" design note).
func (m *Matching) parentIndex1() map[*synt.Node]*synt.Node {
	if m.pidx1 == nil {
		m.pidx1 = buildParentIndex(m.t1.Root)
	}
	return m.pidx1
}

func (m *Matching) parentIndex2() map[*synt.Node]*synt.Node {
	if m.pidx2 == nil {
		m.pidx2 = buildParentIndex(m.t2.Root)
	}
	return m.pidx2
}

func buildParentIndex(root *synt.Node) map[*synt.Node]*synt.Node {
	idx := make(map[*synt.Node]*synt.Node)
	var walk func(n *synt.Node)
	walk = func(n *synt.Node) {
		for _, c := range n.EffectiveChildren() {
			idx[c] = n
			walk(c)
		}
	}
	walk(root)
	return idx
}
