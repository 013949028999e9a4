package match

import (
	"sort"

	"smerge/synt"
)

// height returns a node's subtree height: 1 for leaves, else
// 1 + max(child heights), restricted to the nodes the matcher can see
// (EffectiveChildren, so atomic nodes are always height 1).
func height(n *synt.Node) int {
	children := n.EffectiveChildren()
	if len(children) == 0 {
		return 1
	}
	max := 0
	for _, c := range children {
		if h := height(c); h > max {
			max = h
		}
	}
	return max + 1
}

// topDown implements spec.md §4.2 phase A: process nodes by decreasing
// height (largest isomorphic subtrees matched first), grouping same-height
// candidates by subtree hash and resolving each hash group either directly
// (both sides have a single occurrence) or via a deterministic bipartite
// pairing.
func topDown(m *Matching, t1, t2 *synt.Tree, opts Options) {
	minHeight := opts.MinHeight
	if minHeight <= 0 {
		minHeight = 1
	}

	nodes1 := collectByHeight(t1.Root, m.IsMatched1, minHeight)
	nodes2 := collectByHeight(t2.Root, m.IsMatched2, minHeight)

	heights := make([]int, 0)
	seen := map[int]bool{}
	for h := range nodes1 {
		if !seen[h] {
			seen[h] = true
			heights = append(heights, h)
		}
	}
	for h := range nodes2 {
		if !seen[h] {
			seen[h] = true
			heights = append(heights, h)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(heights)))

	for _, h := range heights {
		bucket1 := nodes1[h]
		bucket2 := nodes2[h]
		if len(bucket1) == 0 || len(bucket2) == 0 {
			continue
		}

		byHash1 := groupByHash(bucket1, t1.Source)
		byHash2 := groupByHash(bucket2, t2.Source)

		for key, group1 := range byHash1 {
			group2, ok := byHash2[key]
			if !ok {
				continue
			}
			resolveHashGroup(m, group1, group2)
		}
	}
}

func collectByHeight(root *synt.Node, isMatched func(*synt.Node) bool, minHeight int) map[int][]*synt.Node {
	out := make(map[int][]*synt.Node)
	var walk func(n *synt.Node)
	walk = func(n *synt.Node) {
		if n == nil {
			return
		}
		h := height(n)
		if h >= minHeight && !isMatched(n) {
			out[h] = append(out[h], n)
		}
		for _, c := range n.EffectiveChildren() {
			walk(c)
		}
	}
	walk(root)
	return out
}

func groupByHash(nodes []*synt.Node, source []byte) map[[32]byte][]*synt.Node {
	out := make(map[[32]byte][]*synt.Node)
	for _, n := range nodes {
		key := synt.HashKey(n.Hash(source))
		out[key] = append(out[key], n)
	}
	return out
}

// resolveHashGroup matches group1 (T1 nodes) against group2 (T2 nodes)
// sharing one subtree hash. If both sides are singletons, that pairing is
// unambiguous. Otherwise it's a deterministic bipartite assignment: prefer
// pairs whose parents are already matched, tie-break by earliest source
// position (spec.md §4.2 and §9 "tree-matcher greediness").
func resolveHashGroup(m *Matching, group1, group2 []*synt.Node) {
	if len(group1) == 1 && len(group2) == 1 {
		trySet(m, group1[0], group2[0])
		return
	}

	type cand struct {
		u, v         *synt.Node
		agrees       bool
		pos1, pos2   int
	}
	var cands []cand
	for _, u := range group1 {
		for _, v := range group2 {
			cands = append(cands, cand{
				u: u, v: v,
				agrees: parentsAgree(m, u, v),
				pos1:   u.Start, pos2: v.Start,
			})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].agrees != cands[j].agrees {
			return cands[i].agrees // agreeing pairs first
		}
		if cands[i].pos1 != cands[j].pos1 {
			return cands[i].pos1 < cands[j].pos1
		}
		return cands[i].pos2 < cands[j].pos2
	})

	for _, c := range cands {
		if m.IsMatched1(c.u) || m.IsMatched2(c.v) {
			continue
		}
		trySet(m, c.u, c.v)
	}
}

// parentsAgree reports whether u's parent is already matched to v's
// parent; used only as a tie-break signal, not tracked on Node (parent
// lookup goes through the Matching's lazily built parent index).
func parentsAgree(m *Matching, u, v *synt.Node) bool {
	pu, ok1 := m.parentIndex1()[u]
	pv, ok2 := m.parentIndex2()[v]
	if !ok1 || !ok2 {
		return false
	}
	matched, ok := m.Get1(pu)
	return ok && matched == pv
}

func trySet(m *Matching, u, v *synt.Node) {
	if m.IsMatched1(u) || m.IsMatched2(v) {
		return
	}
	m.set(u, v)
}
