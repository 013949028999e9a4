package merge

import (
	"testing"

	"smerge/synt"
)

// buildDeleteModifyTrees constructs a block with two children: an anchor
// leaf both sides keep unchanged (so the matcher can align the parent) and
// a second leaf that Base and Left share (possibly modified on Left) but
// Right omits entirely.
func buildDeleteModifyTrees(leftSecondText string, dropSecondOnRight bool) (base, left, right *synt.Tree) {
	arenaB, arenaL, arenaR := synt.NewArena(), synt.NewArena(), synt.NewArena()

	mk := func(arena *synt.Arena, secondText string, includeSecond bool) *synt.Node {
		anchor := arena.New(&synt.Node{Type: "identifier", Start: 0, End: 6})
		root := arena.New(&synt.Node{Type: "block"})
		root.Children = []*synt.Node{anchor}
		if includeSecond {
			second := arena.New(&synt.Node{Type: "identifier", Start: 7, End: 7 + len(secondText)})
			root.Children = append(root.Children, second)
		}
		return root
	}

	base = buildTree(arenaB, synt.Base, "anchor second", mk(arenaB, "second", true))
	left = buildTree(arenaL, synt.Left, "anchor "+leftSecondText, mk(arenaL, leftSecondText, true))
	right = buildTree(arenaR, synt.Right, "anchor", mk(arenaR, "", !dropSecondOnRight))
	return base, left, right
}

func findCandidateFor(candidates []DeletionCandidate, deletedBy synt.Revision) (DeletionCandidate, bool) {
	for _, c := range candidates {
		if c.DeletedBy == deletedBy {
			return c, true
		}
	}
	return DeletionCandidate{}, false
}

func TestDeleterClassesFindsOneSidedDeletion(t *testing.T) {
	base, left, right := buildDeleteModifyTrees("second", true)
	mapping := threeWayMapping(base, left, right)

	candidates := DeleterClasses(mapping)
	cand, ok := findCandidateFor(candidates, synt.Right)
	if !ok {
		t.Fatalf("expected a Right-deleted candidate, got %+v", candidates)
	}
	if cand.ModifiedBy != synt.Left {
		t.Errorf("expected ModifiedBy=Left, got %v", cand.ModifiedBy)
	}
}

func TestSafeToAcceptTrueWhenUnmodified(t *testing.T) {
	base, left, right := buildDeleteModifyTrees("second", true)
	mapping := threeWayMapping(base, left, right)

	cand, ok := findCandidateFor(DeleterClasses(mapping), synt.Right)
	if !ok {
		t.Fatal("expected a deletion candidate")
	}
	if !cand.SafeToAccept(mapping, left.Source, base.Source) {
		t.Error("expected the deletion to be safe when the modifier's content is unchanged from Base")
	}
}

func TestSafeToAcceptFalseWhenModifierEditedContent(t *testing.T) {
	base, left, right := buildDeleteModifyTrees("secondx", true)
	mapping := threeWayMapping(base, left, right)

	cand, ok := findCandidateFor(DeleterClasses(mapping), synt.Right)
	if !ok {
		t.Fatal("expected a deletion candidate")
	}
	if cand.SafeToAccept(mapping, left.Source, base.Source) {
		t.Error("expected the deletion to be unsafe: Left edited content that Right's deletion would silently drop")
	}
}

func TestForceLineBasedMergeRewritesCondemnedNode(t *testing.T) {
	base, left, right := buildDeleteModifyTrees("secondx", true)
	mapping := threeWayMapping(base, left, right)

	merged, report := Build(base, left, right, mapping, nil)
	forced := ForcedLineMerges(report.Deletions, mapping, base, left, right)
	if len(forced) == 0 {
		t.Fatal("expected at least one forced line-based merge class")
	}

	ForceLineBasedMerge(report.ClassIndex, forced)

	node, ok := report.ClassIndex[forced[0]]
	if !ok {
		t.Fatal("expected the condemned class to have an indexed node")
	}
	if node.Kind != LineBasedMerge {
		t.Errorf("expected the condemned node to become LineBasedMerge, got %v", node.Kind)
	}
	_ = merged
}
