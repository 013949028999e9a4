package match

import "smerge/synt"

// tedRefine implements spec.md §4.2 phase C for Base-involving pairs only:
// within each already-matched container pair, align the still-unmatched
// children by edit distance and add zero-cost or near-zero-cost alignments
// as matches.
//
// Full Zhang-Shasha tree edit distance operates over entire subtrees; here
// it is restricted to the direct children of containers phase A/B already
// aligned (spec.md §5: "tree-edit distance is bounded to container pairs
// already aligned in Phase B"), which reduces to a sequence alignment
// problem over sibling lists. We solve that reduced problem with a
// Needleman-Wunsch style edit-distance DP, which is exact for the
// restricted case this phase covers.
func tedRefine(m *Matching, t1, t2 *synt.Tree) {
	var containers [][2]*synt.Node
	m.Pairs(func(u, v *synt.Node) {
		if len(u.EffectiveChildren()) > 0 && len(v.EffectiveChildren()) > 0 {
			containers = append(containers, [2]*synt.Node{u, v})
		}
	})

	for _, pair := range containers {
		alignContainer(m, pair[0], pair[1], t1.Source, t2.Source)
	}
}

func alignContainer(m *Matching, u, v *synt.Node, src1, src2 []byte) {
	left := unmatchedChildren(u, m.IsMatched1)
	right := unmatchedChildren(v, m.IsMatched2)
	if len(left) == 0 || len(right) == 0 {
		return
	}

	n, k := len(left), len(right)
	const insCost, delCost = 1, 1

	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, k+1)
	}
	for i := 0; i <= n; i++ {
		dp[i][0] = i * delCost
	}
	for j := 0; j <= k; j++ {
		dp[0][j] = j * insCost
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= k; j++ {
			sub := dp[i-1][j-1] + subCost(left[i-1], right[j-1], src1, src2)
			del := dp[i-1][j] + delCost
			ins := dp[i][j-1] + insCost
			best := sub
			if del < best {
				best = del
			}
			if ins < best {
				best = ins
			}
			dp[i][j] = best
		}
	}

	// Backtrack, matching pairs whose substitution cost is zero or near
	// zero (same node type): "near-zero-cost alignments" per spec.md.
	i, j := n, k
	for i > 0 && j > 0 {
		cost := subCost(left[i-1], right[j-1], src1, src2)
		if dp[i][j] == dp[i-1][j-1]+cost {
			if cost <= 1 {
				trySet(m, left[i-1], right[j-1])
			}
			i--
			j--
			continue
		}
		if dp[i][j] == dp[i-1][j]+delCost {
			i--
			continue
		}
		j--
	}
}

// subCost is 0 for identical subtree hashes, 1 for same node type
// (near-zero, still eligible to match), 2 otherwise (never matched).
func subCost(a, b *synt.Node, src1, src2 []byte) int {
	if synt.HashKey(a.Hash(src1)) == synt.HashKey(b.Hash(src2)) {
		return 0
	}
	if a.Type == b.Type {
		return 1
	}
	return 2
}

func unmatchedChildren(n *synt.Node, isMatched func(*synt.Node) bool) []*synt.Node {
	var out []*synt.Node
	for _, c := range n.EffectiveChildren() {
		if !isMatched(c) {
			out = append(out, c)
		}
	}
	return out
}
