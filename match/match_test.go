package match

import (
	"testing"

	"smerge/synt"
)

// buildSimpleTree builds "{ a(); b(); c(); }"-shaped trees for matching
// tests without going through a real grammar.
func buildSimpleTree(rev synt.Revision, calls []string) *synt.Tree {
	arena := synt.NewArena()
	source := ""
	var children []*synt.Node
	for _, c := range calls {
		text := c + "();"
		start := len(source)
		source += text + "\n"
		end := start + len(text)
		children = append(children, arena.New(&synt.Node{Type: "call_statement", Start: start, End: end}))
	}
	root := arena.New(&synt.Node{Type: "block", Start: 0, End: len(source), Children: children})
	return synt.NewTree(root, rev, []byte(source), "\n", arena)
}

func TestTopDownMatchesIdenticalCalls(t *testing.T) {
	base := buildSimpleTree(synt.Base, []string{"A", "B", "C"})
	left := buildSimpleTree(synt.Left, []string{"A", "B", "C"})

	m := Match(base, left, BaseOptions())

	if m.Len() < 3 {
		t.Fatalf("expected at least 3 matched pairs (root + 3 calls... or more), got %d", m.Len())
	}
	for i, c := range base.Root.Children {
		v, ok := m.Get1(c)
		if !ok {
			t.Fatalf("call %d (%s) unmatched", i, c.Type)
		}
		if string(v.Text(left.Source)) != string(c.Text(base.Source)) {
			t.Errorf("call %d matched to different text: %q vs %q", i, v.Text(left.Source), c.Text(base.Source))
		}
	}
}

func TestTopDownDisambiguatesDuplicateHashesByPosition(t *testing.T) {
	base := buildSimpleTree(synt.Base, []string{"A", "A"})
	left := buildSimpleTree(synt.Left, []string{"A", "A"})

	m := Match(base, left, BaseOptions())

	got0, ok0 := m.Get1(base.Root.Children[0])
	got1, ok1 := m.Get1(base.Root.Children[1])
	if !ok0 || !ok1 {
		t.Fatalf("expected both duplicate calls matched")
	}
	if got0 == got1 {
		t.Fatalf("duplicate calls matched to the same node: matching is not injective")
	}
	if got0 != left.Root.Children[0] || got1 != left.Root.Children[1] {
		t.Errorf("duplicate calls not matched by earliest-position tie-break")
	}
}
