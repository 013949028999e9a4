package render

import (
	"testing"

	"smerge/classmap"
	"smerge/match"
	"smerge/merge"
	"smerge/synt"
)

func TestRenderExactReusesSource(t *testing.T) {
	arenaB, arenaL, arenaR := synt.NewArena(), synt.NewArena(), synt.NewArena()
	leaf := func(arena *synt.Arena) *synt.Node {
		return arena.New(&synt.Node{Type: "identifier", Start: 0, End: 5})
	}
	base := synt.NewTree(leaf(arenaB), synt.Base, []byte("hello"), "\n", arenaB)
	left := synt.NewTree(leaf(arenaL), synt.Left, []byte("hello"), "\n", arenaL)
	right := synt.NewTree(leaf(arenaR), synt.Right, []byte("hello"), "\n", arenaR)

	mBL := match.Match(base, left, match.BaseOptions())
	mBR := match.Match(base, right, match.BaseOptions())
	mLR := match.Match(left, right, match.DefaultOptions())
	mapping := classmap.Build(base, left, right, mBL, mBR, mLR)

	root, _ := merge.Build(base, left, right, mapping, nil)
	out := Render(root, base, left, right, Options{})

	if string(out) != "hello" {
		t.Errorf("got %q, want %q", out, "hello")
	}
}

func TestRenderLineBasedMergeEmitsMarkersOnDivergence(t *testing.T) {
	arenaB, arenaL, arenaR := synt.NewArena(), synt.NewArena(), synt.NewArena()
	leaf := func(arena *synt.Arena, end int) *synt.Node {
		return arena.New(&synt.Node{Type: "identifier", Start: 0, End: end})
	}
	base := synt.NewTree(leaf(arenaB, 1), synt.Base, []byte("x"), "\n", arenaB)
	left := synt.NewTree(leaf(arenaL, 1), synt.Left, []byte("y"), "\n", arenaL)
	right := synt.NewTree(leaf(arenaR, 1), synt.Right, []byte("z"), "\n", arenaR)

	mBL := match.Match(base, left, match.BaseOptions())
	mBR := match.Match(base, right, match.BaseOptions())
	mLR := match.Match(left, right, match.DefaultOptions())
	mapping := classmap.Build(base, left, right, mBL, mBR, mLR)

	root, _ := merge.Build(base, left, right, mapping, nil)
	out := Render(root, base, left, right, Options{})

	got := string(out)
	if !contains(got, "<<<<<<< LEFT") || !contains(got, ">>>>>>> RIGHT") {
		t.Errorf("expected conflict markers in output, got %q", got)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
