package synt

import (
	"testing"

	"smerge/langprofile"
)

func TestHashIsomorphicSubtreesEqual(t *testing.T) {
	arena := NewArena()
	source := []byte("a+b a+b")

	leafA1 := arena.New(&Node{Type: "identifier", Start: 0, End: 1})
	leafB1 := arena.New(&Node{Type: "identifier", Start: 2, End: 3})
	n1 := arena.New(&Node{Type: "binary_expression", Start: 0, End: 3, Children: []*Node{leafA1, leafB1}})

	leafA2 := arena.New(&Node{Type: "identifier", Start: 4, End: 5})
	leafB2 := arena.New(&Node{Type: "identifier", Start: 6, End: 7})
	n2 := arena.New(&Node{Type: "binary_expression", Start: 4, End: 7, Children: []*Node{leafA2, leafB2}})

	h1 := HashKey(n1.Hash(source))
	h2 := HashKey(n2.Hash(source))
	if h1 != h2 {
		t.Errorf("isomorphic subtrees hashed differently: %x vs %x", h1, h2)
	}
}

func TestSplitMultilineLeaves(t *testing.T) {
	arena := NewArena()
	source := []byte("`a\nb\nc`")
	leaf := arena.New(&Node{Type: "template_string", Start: 0, End: len(source)})

	out := splitMultilineLeaves(leaf, source, arena)
	if len(out.Children) != 3 {
		t.Fatalf("got %d line children, want 3", len(out.Children))
	}
	if string(out.Children[0].Text(source)) != "`a\n" {
		t.Errorf("first line = %q", out.Children[0].Text(source))
	}
	if string(out.Children[2].Text(source)) != "c`" {
		t.Errorf("last line = %q", out.Children[2].Text(source))
	}
}

func TestAttachCommentsToFollowingSibling(t *testing.T) {
	comment := &Node{Type: "comment", Start: 0, End: 5}
	call := &Node{Type: "call_expression", Start: 6, End: 11}
	program := &Node{Type: "program", Start: 0, End: 11, Children: []*Node{comment, call}}

	profile := &langprofile.Profile{ExtraCommentTypes: map[string]bool{"comment": true}}
	out := attachComments(program, profile)

	if len(out.Children) != 1 {
		t.Fatalf("got %d top-level children, want 1 (comment should be absorbed)", len(out.Children))
	}
	if len(out.Children[0].Children) != 1 || out.Children[0].Children[0].Type != "comment" {
		t.Errorf("comment was not attached to the following sibling")
	}
}
