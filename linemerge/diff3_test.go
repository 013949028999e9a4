package linemerge

import (
	"strings"
	"testing"
)

func lines(s string) []string { return SplitLines(s) }

func TestMergeNonOverlappingChangesAutoMerge(t *testing.T) {
	base := lines("a\nb\nc\n")
	left := lines("a\nB\nc\n")  // left changes line 2
	right := lines("a\nb\nC\n") // right changes line 3

	r := Merge(base, left, right)
	if r.Conflicts != 0 {
		t.Fatalf("expected no conflicts, got %d", r.Conflicts)
	}
	got := strings.Join(r.Lines, "\n")
	want := "a\nB\nC"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMergeIdenticalChangesCollapse(t *testing.T) {
	base := lines("a\nb\nc\n")
	left := lines("a\nX\nc\n")
	right := lines("a\nX\nc\n")

	r := Merge(base, left, right)
	if r.Conflicts != 0 {
		t.Fatalf("expected no conflicts when both sides agree, got %d", r.Conflicts)
	}
	got := strings.Join(r.Lines, "\n")
	if got != "a\nX\nc" {
		t.Errorf("got %q", got)
	}
}

func TestMergeOverlappingDifferentChangesConflict(t *testing.T) {
	base := lines("a\nb\nc\n")
	left := lines("a\nX\nc\n")
	right := lines("a\nY\nc\n")

	r := Merge(base, left, right)
	if r.Conflicts != 1 {
		t.Fatalf("expected exactly one conflict, got %d", r.Conflicts)
	}
	got := strings.Join(r.Lines, "\n")
	if !strings.Contains(got, MarkerLeft) || !strings.Contains(got, MarkerBase) ||
		!strings.Contains(got, MarkerSeparator) || !strings.Contains(got, MarkerRight) {
		t.Errorf("expected all four conflict markers in output, got %q", got)
	}
	if !strings.Contains(got, "X") || !strings.Contains(got, "Y") {
		t.Errorf("expected both sides' content present in conflict, got %q", got)
	}
}
