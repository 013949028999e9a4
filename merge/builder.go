package merge

import (
	"bytes"

	"smerge/classmap"
	"smerge/langprofile"
	"smerge/pcs"
	"smerge/synt"
)

// Report collects side information gathered while building the merged
// tree, consumed by the validators.
type Report struct {
	Deletions []DeletionCandidate
	// ClassIndex maps each class the builder visited to the merged node it
	// produced, so a validator that condemns a class (e.g. ForcedLineMerges)
	// can locate and rewrite that node after the fact.
	ClassIndex map[*classmap.Class]*Node
}

// Build rebuilds a single merged tree from the three post-processed trees
// and their class mapping (spec.md §4.5).
func Build(base, left, right *synt.Tree, mapping *classmap.Mapping, profile *langprofile.Profile) (*Node, *Report) {
	baseTriples := pcs.EncodeTree(base, mapping)
	leftTriples := pcs.EncodeTree(left, mapping)
	rightTriples := pcs.EncodeTree(right, mapping)
	cs := pcs.Build(baseTriples, leftTriples, rightTriples)

	b := &builder{
		cs: cs, mapping: mapping, profile: profile, base: base, left: left, right: right,
		classIndex: make(map[*classmap.Class]*Node),
	}

	var root *Node
	if rootLeader, ok := b.singleSuccessor(pcs.Root, pcs.ListBegin); ok {
		root = b.buildNode(rootLeader)
	} else {
		root = &Node{
			Kind:  LineBasedMerge,
			Type:  "",
			Repr:  base.Root,
			Base:  base.Root,
			Left:  left.Root,
			Right: right.Root,
		}
	}

	return root, &Report{Deletions: DeleterClasses(mapping), ClassIndex: b.classIndex}
}

type builder struct {
	cs                *pcs.Changeset
	mapping           *classmap.Mapping
	profile           *langprofile.Profile
	base, left, right *synt.Tree
	classIndex        map[*classmap.Class]*Node
}

// singleSuccessor returns the unique successor candidate triples agree on
// for (parent, predecessor), or ok=false on a clean miss (no candidate) or
// an order conflict (disagreeing candidates).
func (b *builder) singleSuccessor(parent, predecessor *synt.Node) (*synt.Node, bool) {
	succs := b.cs.SuccessorsAfter(parent, predecessor)
	if len(succs) == 0 {
		return nil, false
	}
	first := succs[0].Successor
	for _, t := range succs[1:] {
		if t.Successor != first {
			return nil, false
		}
	}
	return first, true
}

// walkChildren follows the candidate chain from ⊣ to ⊢ under parent,
// failing on an order conflict, a cycle, or a chain that never reaches ⊢.
func (b *builder) walkChildren(parent *synt.Node) (order []*synt.Node, ok bool) {
	visited := make(map[*synt.Node]bool)
	cur := pcs.ListBegin
	for {
		next, unique := b.singleSuccessor(parent, cur)
		if !unique {
			return nil, false
		}
		if next == pcs.ListEnd {
			return order, true
		}
		if visited[next] {
			return nil, false
		}
		visited[next] = true
		order = append(order, next)
		cur = next
	}
}

// buildNode resolves one class (identified by its leader) into a merged
// node, recursing into its children as needed.
func (b *builder) buildNode(leader *synt.Node) *Node {
	class := b.mapping.ClassOf(leader)
	baseN, hasBase := memberOf(class, synt.Base)
	leftN, hasLeft := memberOf(class, synt.Left)
	rightN, hasRight := memberOf(class, synt.Right)

	if sameAcrossPresent(baseN, hasBase, b.base, leftN, hasLeft, b.left, rightN, hasRight, b.right) {
		repr, rev := pickPresent(baseN, hasBase, leftN, hasLeft, rightN, hasRight)
		n := &Node{Kind: Exact, Type: repr.Type, Repr: repr, ReprRevision: rev, Class: class}
		b.index(class, n)
		return n
	}

	if leafEverywherePresent(baseN, hasBase, leftN, hasLeft, rightN, hasRight) {
		return b.lineBasedMerge(leader, baseN, hasBase, leftN, hasLeft, rightN, hasRight)
	}

	order, ok := b.walkChildren(leader)
	if !ok && b.profile != nil && b.profile.IsCommutative(leader.Type) {
		if merged, okc := commutativeMerge(class, b.mapping, b.profile.CommutativeParents[leader.Type]); okc {
			order, ok = merged, true
		}
	}
	if !ok {
		return b.lineBasedMerge(leader, baseN, hasBase, leftN, hasLeft, rightN, hasRight)
	}

	repr, rev := pickPresent(baseN, hasBase, leftN, hasLeft, rightN, hasRight)
	children := make([]*Node, len(order))
	for i, c := range order {
		children[i] = b.buildNode(c)
	}
	n := &Node{Kind: Mixed, Type: repr.Type, Repr: repr, ReprRevision: rev, Class: class, Children: children}
	b.index(class, n)
	return n
}

func (b *builder) index(class *classmap.Class, n *Node) {
	if class != nil {
		b.classIndex[class] = n
	}
}

func (b *builder) lineBasedMerge(leader, baseN *synt.Node, hasBase bool, leftN *synt.Node, hasLeft bool, rightN *synt.Node, hasRight bool) *Node {
	class := b.mapping.ClassOf(leader)
	repr, rev := pickPresent(baseN, hasBase, leftN, hasLeft, rightN, hasRight)
	n := &Node{Kind: LineBasedMerge, Type: repr.Type, Repr: repr, ReprRevision: rev, Class: class}
	if hasBase {
		n.Base = baseN
	}
	if hasLeft {
		n.Left = leftN
	}
	if hasRight {
		n.Right = rightN
	}
	b.index(class, n)
	return n
}

func memberOf(class *classmap.Class, rev synt.Revision) (*synt.Node, bool) {
	if class == nil {
		return nil, false
	}
	n, ok := class.Members[rev]
	return n, ok
}

func pickPresent(baseN *synt.Node, hasBase bool, leftN *synt.Node, hasLeft bool, rightN *synt.Node, hasRight bool) (*synt.Node, synt.Revision) {
	if hasBase {
		return baseN, synt.Base
	}
	if hasLeft {
		return leftN, synt.Left
	}
	return rightN, synt.Right
}

// sameAcrossPresent reports whether every revision that has this class
// agrees on its subtree hash (node types and leaf text; the whitespace
// between tokens is not compared).
func sameAcrossPresent(baseN *synt.Node, hasBase bool, baseTree *synt.Tree, leftN *synt.Node, hasLeft bool, leftTree *synt.Tree, rightN *synt.Node, hasRight bool, rightTree *synt.Tree) bool {
	var first []byte
	seen := false
	check := func(n *synt.Node, src []byte) bool {
		h := n.Hash(src)
		if !seen {
			first, seen = h, true
			return true
		}
		return bytes.Equal(h, first)
	}
	if hasBase && !check(baseN, baseTree.Source) {
		return false
	}
	if hasLeft && !check(leftN, leftTree.Source) {
		return false
	}
	if hasRight && !check(rightN, rightTree.Source) {
		return false
	}
	return seen
}

func leafEverywherePresent(baseN *synt.Node, hasBase bool, leftN *synt.Node, hasLeft bool, rightN *synt.Node, hasRight bool) bool {
	isLeaf := func(n *synt.Node) bool { return len(n.EffectiveChildren()) == 0 }
	if hasBase && !isLeaf(baseN) {
		return false
	}
	if hasLeft && !isLeaf(leftN) {
		return false
	}
	if hasRight && !isLeaf(rightN) {
		return false
	}
	return true
}
