// Package match computes a partial one-to-one correspondence between two
// syntax trees, per spec.md §4.2: a deterministic top-down isomorphic pass,
// a bottom-up container pass, and (for Base-involving pairs only) a
// tree-edit-distance refinement within already-aligned containers.
package match

import "smerge/synt"

// Matching is a partial injective relation between nodes of two trees.
type Matching struct {
	t1, t2 *synt.Tree

	fwd map[*synt.Node]*synt.Node // T1 -> T2
	rev map[*synt.Node]*synt.Node // T2 -> T1

	pidx1, pidx2 map[*synt.Node]*synt.Node // lazy child->parent index, see parents.go
}

// NewMatching creates an empty matching between two trees, optionally
// pre-seeded (fast-mode seeding, spec.md §4.10: "all seeded pairs are
// treated as matched before Phase A").
func NewMatching(t1, t2 *synt.Tree, seed *Matching) *Matching {
	m := &Matching{
		t1:  t1,
		t2:  t2,
		fwd: make(map[*synt.Node]*synt.Node),
		rev: make(map[*synt.Node]*synt.Node),
	}
	if seed != nil {
		for u, v := range seed.fwd {
			m.set(u, v)
		}
	}
	return m
}

func (m *Matching) set(u, v *synt.Node) {
	m.fwd[u] = v
	m.rev[v] = u
}

// Add records a pre-matched pair. Exported so a caller can build a seed
// Matching (fast-mode, spec.md §4.10: "all seeded pairs are treated as
// matched before Phase A") to pass as Options.Seed.
func (m *Matching) Add(u, v *synt.Node) {
	m.set(u, v)
}

// Get1 returns the T2 node matched to u, if any.
func (m *Matching) Get1(u *synt.Node) (*synt.Node, bool) {
	v, ok := m.fwd[u]
	return v, ok
}

// Get2 returns the T1 node matched to v, if any.
func (m *Matching) Get2(v *synt.Node) (*synt.Node, bool) {
	u, ok := m.rev[v]
	return u, ok
}

// IsMatched1 reports whether u (from T1) already has a partner.
func (m *Matching) IsMatched1(u *synt.Node) bool {
	_, ok := m.fwd[u]
	return ok
}

// IsMatched2 reports whether v (from T2) already has a partner.
func (m *Matching) IsMatched2(v *synt.Node) bool {
	_, ok := m.rev[v]
	return ok
}

// Pairs calls fn for every matched pair.
func (m *Matching) Pairs(fn func(u, v *synt.Node)) {
	for u, v := range m.fwd {
		fn(u, v)
	}
}

// Len returns the number of matched pairs.
func (m *Matching) Len() int {
	return len(m.fwd)
}

// Options configures a matching run.
type Options struct {
	// MinHeight is the minimum subtree height phase A considers, default
	// 2 ("ignore subtrees below a configurable minimum") relaxed to 1 for
	// Base-involving pairs.
	MinHeight int
	// SimilarityThreshold (tau) is phase B's acceptance threshold,
	// default 0.5, 0.3 for Base-involving pairs.
	SimilarityThreshold float64
	// BaseInvolving marks this as a Base-Left or Base-Right pair: phase C
	// runs, and MinHeight/SimilarityThreshold default looser.
	BaseInvolving bool
	// Seed pre-matches these pairs before phase A (fast-mode, spec.md
	// §4.10).
	Seed *Matching
}

// DefaultOptions returns the design defaults from spec.md §4.2 for a pair
// not involving Base (Left-Right).
func DefaultOptions() Options {
	return Options{MinHeight: 2, SimilarityThreshold: 0.5}
}

// BaseOptions returns the relaxed defaults used for Base-Left or
// Base-Right pairs.
func BaseOptions() Options {
	return Options{MinHeight: 1, SimilarityThreshold: 0.3, BaseInvolving: true}
}

// Match computes the matching between t1 and t2 using the two- or
// three-phase procedure of spec.md §4.2.
func Match(t1, t2 *synt.Tree, opts Options) *Matching {
	m := NewMatching(t1, t2, opts.Seed)
	topDown(m, t1, t2, opts)
	bottomUp(m, t1, t2, opts)
	if opts.BaseInvolving {
		tedRefine(m, t1, t2)
	}
	return m
}
