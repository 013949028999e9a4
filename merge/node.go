// Package merge rebuilds a single merged syntax tree from the PCS candidate
// set (spec.md §4.5), resolving child-list order conflicts through the
// commutative-parent set-delta merge where the language profile allows it,
// and runs the delete/modify and signature-uniqueness validators (§4.6,
// §4.7) over the result.
package merge

import (
	"smerge/classmap"
	"smerge/synt"
)

// Kind is the closed set of merged-node shapes spec.md §3 describes.
type Kind int

const (
	// Exact means every revision containing this class has the same
	// subtree hash (node types and leaf text; whitespace between tokens is
	// not compared); the renderer reuses Repr's original source slice
	// untouched.
	Exact Kind = iota
	// Mixed means the node's children were rebuilt from the candidate
	// set without conflict, but not every present revision agrees on
	// the node's own text or child order.
	Mixed
	// Conflict carries the raw Base/Left/Right subtrees side by side for
	// textual rendering with conflict markers.
	Conflict
	// LineBasedMerge falls back to a diff3-style merge over this node's
	// source span in all revisions that have it.
	LineBasedMerge
	// CommutativeChildSeparator is a synthetic filler node carrying only
	// separator text (no source), which the renderer prints verbatim.
	// Build does not create nodes of this kind: between merged children
	// that were never adjacent in any revision the renderer puts a single
	// space.
	CommutativeChildSeparator
)

// Node is one node of the merged tree.
type Node struct {
	Kind Kind
	Type string // grammar node type, mirrors synt.Node.Type

	// Repr is a representative original node used for identity,
	// signature computation and (for Exact) verbatim rendering. Never
	// nil except for CommutativeChildSeparator.
	Repr *synt.Node
	// ReprRevision names which revision Repr came from, so the renderer
	// knows which tree's source bytes back it.
	ReprRevision synt.Revision

	// Class is this node's equivalence class, kept around so the
	// renderer can look up per-revision adjacency for whitespace
	// imitation (spec.md §4.8). Nil for CommutativeChildSeparator and
	// for a whole-tree LineBasedMerge fallback.
	Class *classmap.Class

	Children []*Node

	// Base, Left, Right hold the original per-revision nodes backing a
	// Conflict or LineBasedMerge node; a nil entry means that revision
	// doesn't have this node at all.
	Base, Left, Right *synt.Node

	// Separator is the literal text for a CommutativeChildSeparator
	// node; other kinds leave it empty.
	Separator string
}

// Leaf reports whether n has no children in the merged tree.
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}
