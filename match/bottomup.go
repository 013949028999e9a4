package match

import (
	"sort"

	"smerge/synt"
)

// bottomUp implements spec.md §4.2 phase B: for unmatched internal node
// pairs whose parents are already matched (or both are roots), compute a
// descendant-overlap similarity and match greedily above threshold tau.
func bottomUp(m *Matching, t1, t2 *synt.Tree, opts Options) {
	desc1 := descendantSets(t1.Root)
	desc2 := descendantSets(t2.Root)

	cands1 := unmatchedInternal(t1.Root, m.IsMatched1)
	cands2 := unmatchedInternal(t2.Root, m.IsMatched2)

	type cand struct {
		u, v       *synt.Node
		similarity float64
	}
	var cands []cand

	for _, u := range cands1 {
		if !parentEligible1(m, t1, u) {
			continue
		}
		for _, v := range cands2 {
			if !parentEligible2(m, t2, v) {
				continue
			}
			sim := similarity(m, desc1[u], desc2[v])
			if sim >= opts.SimilarityThreshold {
				cands = append(cands, cand{u, v, sim})
			}
		}
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].similarity != cands[j].similarity {
			return cands[i].similarity > cands[j].similarity
		}
		si, sj := cands[i].u.Size(), cands[j].u.Size()
		if si != sj {
			return si < sj // smaller subtree size first
		}
		return cands[i].u.Start < cands[j].u.Start // earlier source position
	})

	for _, c := range cands {
		if m.IsMatched1(c.u) || m.IsMatched2(c.v) {
			continue
		}
		m.set(c.u, c.v)
	}
}

// parentEligible1/2 report whether u/v's parent is matched to the other
// side, or u/v is the tree root.
func parentEligible1(m *Matching, t *synt.Tree, u *synt.Node) bool {
	if u == t.Root {
		return true
	}
	p, ok := m.parentIndex1()[u]
	if !ok {
		return false
	}
	_, matched := m.Get1(p)
	return matched
}

func parentEligible2(m *Matching, t *synt.Tree, v *synt.Node) bool {
	if v == t.Root {
		return true
	}
	p, ok := m.parentIndex2()[v]
	if !ok {
		return false
	}
	_, matched := m.Get2(p)
	return matched
}

func unmatchedInternal(root *synt.Node, isMatched func(*synt.Node) bool) []*synt.Node {
	var out []*synt.Node
	synt.Walk(root, func(n *synt.Node) {
		if len(n.EffectiveChildren()) > 0 && !isMatched(n) {
			out = append(out, n)
		}
	})
	return out
}

// descendantSets maps every node to the set of its (effective) descendants,
// including itself, for overlap-ratio computation.
func descendantSets(root *synt.Node) map[*synt.Node]map[*synt.Node]bool {
	out := make(map[*synt.Node]map[*synt.Node]bool)
	var collect func(n *synt.Node) map[*synt.Node]bool
	collect = func(n *synt.Node) map[*synt.Node]bool {
		set := map[*synt.Node]bool{n: true}
		for _, c := range n.EffectiveChildren() {
			for d := range collect(c) {
				set[d] = true
			}
		}
		out[n] = set
		return set
	}
	collect(root)
	return out
}

// similarity computes |matched descendants of u that map into v's
// descendant set| / max(|descendants(u)|, |descendants(v)|).
func similarity(m *Matching, descU, descV map[*synt.Node]bool) float64 {
	common := 0
	for d := range descU {
		if partner, ok := m.Get1(d); ok && descV[partner] {
			common++
		}
	}
	max := len(descU)
	if len(descV) > max {
		max = len(descV)
	}
	if max == 0 {
		return 0
	}
	return float64(common) / float64(max)
}
