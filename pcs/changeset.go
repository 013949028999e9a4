package pcs

import "smerge/synt"

// Changeset is the union of the three trees' PCS triples with Base-tagged
// triples inconsistent with Left or Right removed (spec.md §4.4). The
// surviving candidate set may still be internally inconsistent (e.g. two
// Left/Right triples disagreeing); resolving that is the merged-tree
// builder's job (package merge), not this package's.
type Changeset struct {
	Candidate []Triple

	bySuccessorKey map[key][]Triple // (parent, predecessor) -> triples
}

type key struct {
	parent, anchor *synt.Node
}

// Build unions the three trees' encodings and removes Base triples that
// conflict with a Left or Right triple under spec.md §4.4's three rules.
func Build(baseTriples, leftTriples, rightTriples []Triple) *Changeset {
	all := make([]Triple, 0, len(baseTriples)+len(leftTriples)+len(rightTriples))
	all = append(all, baseTriples...)
	all = append(all, leftTriples...)
	all = append(all, rightTriples...)

	var nonBase []Triple
	var baseOnly []Triple
	for _, t := range all {
		if t.Revision == synt.Base {
			baseOnly = append(baseOnly, t)
		} else {
			nonBase = append(nonBase, t)
		}
	}

	var survivingBase []Triple
	for _, b := range baseOnly {
		if !conflictsWithAny(b, nonBase) {
			survivingBase = append(survivingBase, b)
		}
	}

	candidate := dedupe(append(survivingBase, nonBase...))

	cs := &Changeset{Candidate: candidate, bySuccessorKey: make(map[key][]Triple)}
	for _, t := range candidate {
		k := key{t.Parent, t.Predecessor}
		cs.bySuccessorKey[k] = append(cs.bySuccessorKey[k], t)
	}
	return cs
}

// conflictsWithAny applies spec.md §4.4's three elimination rules:
//
//	(i)   same (parent, predecessor), different successor
//	(ii)  same (parent, successor), different predecessor
//	(iii) shares a predecessor/successor identity with another triple, but
//	      the parents differ
func conflictsWithAny(b Triple, others []Triple) bool {
	for _, o := range others {
		if b.Parent == o.Parent && b.Predecessor == o.Predecessor && b.Successor != o.Successor {
			return true
		}
		if b.Parent == o.Parent && b.Successor == o.Successor && b.Predecessor != o.Predecessor {
			return true
		}
		if b.Parent != o.Parent && sharesChildIdentity(b, o) {
			return true
		}
	}
	return false
}

// sharesChildIdentity reports whether a and b name the same child node as
// predecessor or successor. The ⊣/⊢ sentinels open and close every child
// list, so they are not an identity shared across parents.
func sharesChildIdentity(a, b Triple) bool {
	same := func(x, y *synt.Node) bool { return x == y && x != ListBegin && x != ListEnd }
	return same(a.Predecessor, b.Predecessor) || same(a.Predecessor, b.Successor) ||
		same(a.Successor, b.Predecessor) || same(a.Successor, b.Successor)
}

// dedupe collapses triples identical in (parent, predecessor, successor)
// regardless of which revision(s) produced them, preferring to keep a Base
// tag when one of the duplicates carried it (so downstream code can tell
// "this edge is unchanged since Base" from "this edge is new on both
// sides").
func dedupe(triples []Triple) []Triple {
	type valueKey struct{ parent, pred, succ *synt.Node }
	seen := make(map[valueKey]int) // value -> index in result
	var result []Triple
	for _, t := range triples {
		vk := valueKey{t.Parent, t.Predecessor, t.Successor}
		if idx, ok := seen[vk]; ok {
			if t.Revision == synt.Base {
				result[idx].Revision = synt.Base
			}
			continue
		}
		seen[vk] = len(result)
		result = append(result, t)
	}
	return result
}

// SuccessorsAfter returns every candidate triple whose (parent, predecessor)
// matches, i.e. every proposed next child after predecessor within parent's
// child list. More than one distinct successor here is an order conflict
// (spec.md §4.5).
func (cs *Changeset) SuccessorsAfter(parent, predecessor *synt.Node) []Triple {
	return cs.bySuccessorKey[key{parent, predecessor}]
}
