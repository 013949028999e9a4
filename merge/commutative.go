package merge

import (
	"smerge/classmap"
	"smerge/langprofile"
	"smerge/synt"
)

// commutativeMerge implements the set-delta merge of spec.md §4.5 for a
// commutative parent's child list. It computes the merge twice — once
// folding Right's delta onto Left's order, once folding Left's delta onto
// Right's order — and requires both to agree, which is the "inverse
// traversal" consistency check the spec calls for.
func commutativeMerge(class *classmap.Class, mapping *classmap.Mapping, cp langprofile.CommutativeParent) ([]*synt.Node, bool) {
	baseNode, hasBase := class.Members[synt.Base]
	leftNode, hasLeft := class.Members[synt.Left]
	rightNode, hasRight := class.Members[synt.Right]
	if !hasLeft || !hasRight {
		return nil, false
	}

	var cb []*synt.Node
	if hasBase {
		cb = classLeaders(baseNode.EffectiveChildren(), mapping)
	}
	cl := classLeaders(leftNode.EffectiveChildren(), mapping)
	cr := classLeaders(rightNode.EffectiveChildren(), mapping)

	groups := groupsOf(cb, cl, cr, cp)

	var forward, inverse []*synt.Node
	for _, g := range groups {
		gcb, gcl, gcr := filterGroup(cb, cp, g), filterGroup(cl, cp, g), filterGroup(cr, cp, g)

		dL, aL := setDiff(gcb, gcl)
		dR, aR := setDiff(gcb, gcr)

		gForward := buildOrder(gcl, gcr, dR, aR)
		gInverse := buildOrder(gcr, gcl, dL, aL)

		forward = append(forward, gForward...)
		inverse = append(inverse, gInverse...)
	}

	if !sameSequence(forward, inverse) {
		return nil, false
	}
	return forward, true
}

// classLeaders maps raw nodes to their class leaders, for set comparisons
// that must be stable across revisions.
func classLeaders(nodes []*synt.Node, mapping *classmap.Mapping) []*synt.Node {
	out := make([]*synt.Node, len(nodes))
	for i, n := range nodes {
		if class := mapping.ClassOf(n); class != nil {
			out[i] = class.Leader()
		} else {
			out[i] = n
		}
	}
	return out
}

// groupsOf returns the distinct group names across all three sides, in
// first-appearance order (Left, then Right, then Base), with "" (no
// restriction, or ungrouped member) included if anything falls there.
func groupsOf(cb, cl, cr []*synt.Node, cp langprofile.CommutativeParent) []string {
	if len(cp.Groups) == 0 {
		return []string{""}
	}
	seen := make(map[string]bool)
	var order []string
	add := func(nodes []*synt.Node) {
		for _, n := range nodes {
			g := cp.GroupOf(n.Type)
			if !seen[g] {
				seen[g] = true
				order = append(order, g)
			}
		}
	}
	add(cl)
	add(cr)
	add(cb)
	return order
}

func filterGroup(nodes []*synt.Node, cp langprofile.CommutativeParent, group string) []*synt.Node {
	if len(cp.Groups) == 0 {
		return nodes
	}
	var out []*synt.Node
	for _, n := range nodes {
		if cp.GroupOf(n.Type) == group {
			out = append(out, n)
		}
	}
	return out
}

// setDiff computes classes(b) \ classes(x) and classes(x) \ classes(b),
// preserving x's order for the "added" set (spec.md §4.5's D_*/A_*).
func setDiff(b, x []*synt.Node) (deleted, added []*synt.Node) {
	bSet := toSet(b)
	xSet := toSet(x)
	for _, n := range b {
		if !xSet[n] {
			deleted = append(deleted, n)
		}
	}
	for _, n := range x {
		if !bSet[n] {
			added = append(added, n)
		}
	}
	return
}

func toSet(nodes []*synt.Node) map[*synt.Node]bool {
	s := make(map[*synt.Node]bool, len(nodes))
	for _, n := range nodes {
		s[n] = true
	}
	return s
}

// buildOrder iterates primary, drops anything in droppedFromOther, then
// appends addedFromOther (in otherAll's order) at the end. This mirrors
// mergiraf's commutatively_merge_lists, which chains the added elements
// onto the filtered primary list rather than splicing each one in next to
// a preceding neighbor: two independent end-of-list additions (spec.md §8
// scenario S1) must land as primary's items followed by both additions,
// not interleaved by nearest-neighbor position.
func buildOrder(primary, otherAll, droppedFromOther, addedFromOther []*synt.Node) []*synt.Node {
	dropSet := toSet(droppedFromOther)
	var result []*synt.Node
	for _, n := range primary {
		if !dropSet[n] {
			result = append(result, n)
		}
	}
	result = append(result, addedFromOther...)
	return result
}

func sameSequence(a, b []*synt.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
