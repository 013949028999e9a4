package merge

import (
	"bytes"

	"smerge/classmap"
	"smerge/langprofile"
	"smerge/synt"
)

// DeletionCandidate is a class present in Base and in exactly one of Left
// or Right: the missing side is the deleter, the present side the modifier
// (spec.md §4.6).
type DeletionCandidate struct {
	Class      *classmap.Class
	DeletedBy  synt.Revision
	ModifiedBy synt.Revision
}

// DeleterClasses scans every class for the delete/modify pattern.
func DeleterClasses(mapping *classmap.Mapping) []DeletionCandidate {
	var out []DeletionCandidate
	for _, class := range mapping.Classes() {
		if _, hasBase := class.Members[synt.Base]; !hasBase {
			continue
		}
		_, hasLeft := class.Members[synt.Left]
		_, hasRight := class.Members[synt.Right]
		if hasLeft == hasRight {
			continue // present on both, or deleted on both: not this case
		}
		if hasLeft {
			out = append(out, DeletionCandidate{Class: class, DeletedBy: synt.Right, ModifiedBy: synt.Left})
		} else {
			out = append(out, DeletionCandidate{Class: class, DeletedBy: synt.Left, ModifiedBy: synt.Right})
		}
	}
	return out
}

// SafeToAccept walks the modifier's subtree looking for descendants that
// were actually edited relative to Base (not merely carried over
// unchanged); if every such descendant's class still has a member on the
// deleter's side, the modifier's changes are moves of content that exists
// elsewhere and the deletion can proceed silently. Otherwise the change
// would be lost if the deletion stands, and the caller should force a
// line-based merge over the class's parent to surface it.
func (d DeletionCandidate) SafeToAccept(mapping *classmap.Mapping, modifierSource, baseSource []byte) bool {
	modifierNode, ok := d.Class.Members[d.ModifiedBy]
	if !ok {
		return true
	}

	safe := true
	synt.VisibleWalk(modifierNode, func(n *synt.Node) {
		if !safe {
			return
		}
		class := mapping.ClassOf(n)
		if class == nil {
			return
		}
		baseN, hasBase := class.Members[synt.Base]
		if !hasBase {
			return // n is new content under the modifier, not an edit of Base
		}
		if _, survivesInDeleter := class.Members[d.DeletedBy]; survivesInDeleter {
			return
		}
		// n exists in Base and in the modifier but nowhere in the
		// deleter: if it's unchanged, fine; if it was edited, the edit
		// would be silently lost by accepting the deletion. Each node is
		// hashed against its own revision's source bytes: n's offsets are
		// only valid within modifierSource, baseN's only within baseSource.
		if !bytes.Equal(n.Hash(modifierSource), baseN.Hash(baseSource)) {
			safe = false
		}
	})
	return safe
}

// ForcedLineMerges resolves every DeletionCandidate against SafeToAccept
// and returns the classes whose parent node must be surfaced as a
// LineBasedMerge rather than silently accepting the deletion.
func ForcedLineMerges(candidates []DeletionCandidate, mapping *classmap.Mapping, base, left, right *synt.Tree) []*classmap.Class {
	var forced []*classmap.Class
	for _, d := range candidates {
		src := left.Source
		if d.ModifiedBy == synt.Right {
			src = right.Source
		}
		if !d.SafeToAccept(mapping, src, base.Source) {
			forced = append(forced, d.Class)
		}
	}
	return forced
}

// ForceLineBasedMerge rewrites, in place, the merged node for each class
// ForcedLineMerges condemned: its Base/Left/Right subtrees (whichever are
// present) replace its Children, so the renderer falls back to a diff3
// merge over that node's full text instead of silently accepting the
// deletion that would otherwise drop an edit (spec.md §4.6).
func ForceLineBasedMerge(index map[*classmap.Class]*Node, classes []*classmap.Class) {
	for _, class := range classes {
		n, ok := index[class]
		if !ok {
			continue
		}
		n.Kind = LineBasedMerge
		n.Children = nil
		if base, ok := class.Members[synt.Base]; ok {
			n.Base = base
		}
		if left, ok := class.Members[synt.Left]; ok {
			n.Left = left
		}
		if right, ok := class.Members[synt.Right]; ok {
			n.Right = right
		}
	}
}

// ValidateSignatures walks the merged tree and, for every commutative
// parent, collapses children sharing an identical signature (spec.md
// §4.7) into a single Conflict node at the position of the first
// occurrence.
func ValidateSignatures(root *Node, profile *langprofile.Profile, sourceOf func(synt.Revision) []byte) {
	if root == nil {
		return
	}
	for _, c := range root.Children {
		ValidateSignatures(c, profile, sourceOf)
	}
	if profile == nil || !profile.IsCommutative(root.Type) {
		return
	}
	root.Children = collapseDuplicateSignatures(root.Children, profile, sourceOf)
}

func collapseDuplicateSignatures(children []*Node, profile *langprofile.Profile, sourceOf func(synt.Revision) []byte) []*Node {
	bySignature := make(map[string][]*Node)
	order := make([]string, 0, len(children))

	for _, child := range children {
		if child.Repr == nil {
			continue
		}
		path, ok := profile.SignatureDefs[child.Repr.Type]
		if !ok {
			continue
		}
		sig := signatureKey(child.Repr, path, sourceOf(child.ReprRevision))
		if _, seen := bySignature[sig]; !seen {
			order = append(order, sig)
		}
		bySignature[sig] = append(bySignature[sig], child)
	}

	duplicated := make(map[*Node]bool)
	collapsed := make(map[*Node]*Node) // first occurrence -> conflict replacement
	for _, sig := range order {
		group := bySignature[sig]
		if len(group) < 2 {
			continue
		}
		first := group[0]
		replacement := &Node{Kind: Conflict, Type: first.Type, Repr: first.Repr}
		collapsed[first] = replacement
		for _, n := range group {
			duplicated[n] = true
		}
	}

	if len(collapsed) == 0 {
		return children
	}
	result := make([]*Node, 0, len(children))
	for _, child := range children {
		if duplicated[child] {
			if replacement, isFirst := collapsed[child]; isFirst {
				result = append(result, replacement)
			}
			continue
		}
		result = append(result, child)
	}
	return result
}

// HasDuplicateSignatures reports whether any commutative parent in tree has
// two children sharing the same signature (spec.md §4.7), without building
// a merged tree first. Used by fastmerge's fast-path gate: a quick re-parse
// of the line-merged output must still pass this check before the fast path
// can return without running the full structural pipeline.
func HasDuplicateSignatures(tree *synt.Tree, profile *langprofile.Profile) bool {
	if tree == nil || profile == nil {
		return false
	}
	found := false
	synt.VisibleWalk(tree.Root, func(n *synt.Node) {
		if found || !profile.IsCommutative(n.Type) {
			return
		}
		seen := make(map[string]bool)
		for _, c := range n.EffectiveChildren() {
			path, ok := profile.SignatureDefs[c.Type]
			if !ok {
				continue
			}
			sig := signatureKey(c, path, tree.Source)
			if seen[sig] {
				found = true
				return
			}
			seen[sig] = true
		}
	})
	return found
}

// signatureKey gathers descendant text along path and joins it into a
// comparable string.
func signatureKey(n *synt.Node, path langprofile.SignaturePath, source []byte) string {
	var buf bytes.Buffer
	for _, step := range path {
		switch s := step.(type) {
		case langprofile.FieldStep:
			if field := findField(n, s.Name); field != nil {
				buf.Write(field.Text(source))
			}
			buf.WriteByte(0)
		case langprofile.ChildOfTypeStep:
			for _, c := range n.EffectiveChildren() {
				if c.Type == s.Type {
					buf.Write(c.Text(source))
					buf.WriteByte(',')
				}
			}
			buf.WriteByte(0)
		}
	}
	return buf.String()
}

func findField(n *synt.Node, field string) *synt.Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}
