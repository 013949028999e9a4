package merge

import (
	"testing"

	"smerge/classmap"
	"smerge/langprofile"
	"smerge/match"
	"smerge/synt"
)

func TestBuildOrderAppendsAddedElementsAtEnd(t *testing.T) {
	a, b, c, d := &synt.Node{Type: "a"}, &synt.Node{Type: "b"}, &synt.Node{Type: "c"}, &synt.Node{Type: "d"}

	primary := []*synt.Node{a, b, c}     // Left's own order
	otherAll := []*synt.Node{a, b, d}    // Right's own order
	dropped := []*synt.Node{}            // nothing dropped by Right
	added := []*synt.Node{d}             // d is new on Right

	got := buildOrder(primary, otherAll, dropped, added)
	want := []*synt.Node{a, b, c, d}
	if !sameSequence(got, want) {
		t.Fatalf("got %v, want %v", typesOf(got), typesOf(want))
	}
}

// TestBuildOrderIndependentEndAdditions mirrors spec.md §8 scenario S1:
// Base [A,B], Left adds C -> [A,B,C], Right adds D -> [A,B,D]. Both
// additions are independent end-of-list appends, so the merged order must
// be [A,B,C,D], not an interleaving based on nearest-neighbor position.
func TestBuildOrderIndependentEndAdditions(t *testing.T) {
	a, b, c, d := &synt.Node{Type: "a"}, &synt.Node{Type: "b"}, &synt.Node{Type: "c"}, &synt.Node{Type: "d"}

	cl := []*synt.Node{a, b, c} // Left's list
	cr := []*synt.Node{a, b, d} // Right's list
	dR := []*synt.Node{}        // Right dropped nothing
	aR := []*synt.Node{d}       // Right added d

	got := buildOrder(cl, cr, dR, aR)
	want := []*synt.Node{a, b, c, d}
	if !sameSequence(got, want) {
		t.Fatalf("got %v, want %v", typesOf(got), typesOf(want))
	}
}

func TestBuildOrderDropsElementsRemovedByOther(t *testing.T) {
	a, b, c := &synt.Node{Type: "a"}, &synt.Node{Type: "b"}, &synt.Node{Type: "c"}

	primary := []*synt.Node{a, b, c}
	otherAll := []*synt.Node{a, c} // Right dropped b
	dropped := []*synt.Node{b}

	got := buildOrder(primary, otherAll, dropped, nil)
	want := []*synt.Node{a, c}
	if !sameSequence(got, want) {
		t.Fatalf("got %v, want %v", typesOf(got), typesOf(want))
	}
}

func typesOf(nodes []*synt.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Type
	}
	return out
}

func TestCommutativeMergeAgreesOnSimpleAddition(t *testing.T) {
	arenaB, arenaL, arenaR := synt.NewArena(), synt.NewArena(), synt.NewArena()

	newLeaf := func(arena *synt.Arena, ty string) *synt.Node {
		return arena.New(&synt.Node{Type: ty})
	}

	// Base: {x, y}. Left: {x, y, z} (appended z). Right: {x, y} (unchanged).
	baseStruct := arenaB.New(&synt.Node{Type: "struct"})
	baseStruct.Children = []*synt.Node{newLeaf(arenaB, "x"), newLeaf(arenaB, "y")}

	leftStruct := arenaL.New(&synt.Node{Type: "struct"})
	leftStruct.Children = []*synt.Node{newLeaf(arenaL, "x"), newLeaf(arenaL, "y"), newLeaf(arenaL, "z")}

	rightStruct := arenaR.New(&synt.Node{Type: "struct"})
	rightStruct.Children = []*synt.Node{newLeaf(arenaR, "x"), newLeaf(arenaR, "y")}

	baseTree := synt.NewTree(baseStruct, synt.Base, []byte(""), "\n", arenaB)
	leftTree := synt.NewTree(leftStruct, synt.Left, []byte(""), "\n", arenaL)
	rightTree := synt.NewTree(rightStruct, synt.Right, []byte(""), "\n", arenaR)

	mBL := match.Match(baseTree, leftTree, match.BaseOptions())
	mBR := match.Match(baseTree, rightTree, match.BaseOptions())
	mLR := match.Match(leftTree, rightTree, match.DefaultOptions())
	mapping := classmap.Build(baseTree, leftTree, rightTree, mBL, mBR, mLR)

	class := mapping.ClassOf(baseStruct)
	if class == nil {
		t.Fatal("expected struct node to have a class")
	}

	order, ok := commutativeMerge(class, mapping, langprofile.CommutativeParent{})
	if !ok {
		t.Fatal("expected consistent commutative merge")
	}
	if len(order) != 3 {
		t.Fatalf("got %d children, want 3 (x, y, z)", len(order))
	}
	gotTypes := typesOf(order)
	wantTypes := []string{"x", "y", "z"}
	for i := range wantTypes {
		if gotTypes[i] != wantTypes[i] {
			t.Errorf("order[%d] = %s, want %s (full order %v)", i, gotTypes[i], wantTypes[i], gotTypes)
		}
	}
}
