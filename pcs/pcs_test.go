package pcs

import (
	"testing"

	"smerge/classmap"
	"smerge/synt"
)

func chain(arena *synt.Arena, rev synt.Revision, types ...string) *synt.Tree {
	root := arena.New(&synt.Node{Type: "block"})
	for _, ty := range types {
		root.Children = append(root.Children, arena.New(&synt.Node{Type: ty}))
	}
	return synt.NewTree(root, rev, []byte(""), "\n", arena)
}

// emptyMapping has no registered classes, so EncodeTree falls back to
// treating every node as its own leader.
func emptyMapping() *classmap.Mapping { return &classmap.Mapping{} }

func TestEncodeTreeEmitsSentinelsAndAdjacentPairs(t *testing.T) {
	arena := synt.NewArena()
	tree := chain(arena, synt.Base, "a", "b", "c")

	triples := EncodeTree(tree, emptyMapping())

	if len(triples) != 2+4 { // virtual root pair + 4 adjacent pairs (⊣a, ab, bc, c⊢)
		t.Fatalf("got %d triples, want 6: %+v", len(triples), triples)
	}
	if triples[0].Predecessor != ListBegin || triples[0].Parent != Root {
		t.Errorf("first triple should be (⊥, ⊣, root), got %+v", triples[0])
	}
	last := triples[len(triples)-1]
	if last.Successor != ListEnd {
		t.Errorf("expected a final triple ending in ⊢ somewhere, got %+v", last)
	}
}

func TestBuildUnionKeepsNonConflictingBaseTriples(t *testing.T) {
	arenaB := synt.NewArena()
	arenaL := synt.NewArena()
	baseTree := chain(arenaB, synt.Base, "a", "b")
	leftTree := chain(arenaL, synt.Left, "a", "b")

	baseTriples := EncodeTree(baseTree, emptyMapping())
	leftTriples := EncodeTree(leftTree, emptyMapping())

	cs := Build(baseTriples, leftTriples, nil)

	// Every triple's (parent, predecessor, successor) identity is per-tree
	// (no shared classmap here), so nothing actually collapses. The two
	// roots are different nodes under the shared virtual root, so Base's
	// (⊥, ⊣, root) and (⊥, root, ⊢) conflict with Left's under rules (i)
	// and (ii); Base's three triples inside its own root share no node with
	// any Left triple and survive. Build must also cope with an empty right
	// side.
	want := len(baseTriples) - 2 + len(leftTriples)
	if len(cs.Candidate) != want {
		t.Fatalf("got %d candidates, want %d", len(cs.Candidate), want)
	}
}

func TestBuildEliminatesConflictingBaseTriple(t *testing.T) {
	arena := synt.NewArena()
	parent := arena.New(&synt.Node{Type: "block"})
	pred := arena.New(&synt.Node{Type: "a"})
	succBase := arena.New(&synt.Node{Type: "b"})
	succLeft := arena.New(&synt.Node{Type: "c"})

	baseTriples := []Triple{{Parent: parent, Predecessor: pred, Successor: succBase, Revision: synt.Base}}
	leftTriples := []Triple{{Parent: parent, Predecessor: pred, Successor: succLeft, Revision: synt.Left}}

	cs := Build(baseTriples, leftTriples, nil)

	for _, tr := range cs.Candidate {
		if tr.Revision == synt.Base {
			t.Fatalf("Base triple with same (parent,predecessor) but different successor should have been eliminated, found %+v", tr)
		}
	}
	if len(cs.Candidate) != 1 {
		t.Fatalf("got %d candidates, want 1 (the surviving Left triple)", len(cs.Candidate))
	}
}

func TestSuccessorsAfterReportsOrderConflict(t *testing.T) {
	arena := synt.NewArena()
	parent := arena.New(&synt.Node{Type: "block"})
	pred := arena.New(&synt.Node{Type: "a"})
	succLeft := arena.New(&synt.Node{Type: "l"})
	succRight := arena.New(&synt.Node{Type: "r"})

	leftTriples := []Triple{{Parent: parent, Predecessor: pred, Successor: succLeft, Revision: synt.Left}}
	rightTriples := []Triple{{Parent: parent, Predecessor: pred, Successor: succRight, Revision: synt.Right}}

	cs := Build(nil, leftTriples, rightTriples)

	got := cs.SuccessorsAfter(parent, pred)
	if len(got) != 2 {
		t.Fatalf("got %d successors after pred, want 2 (an order conflict): %+v", len(got), got)
	}
}
