package engine

import (
	"testing"

	"smerge/langprofile"
)

func TestMerge3WayNoConflictLeftChanged(t *testing.T) {
	base := []byte(`{"a": 1}`)
	left := []byte(`{"a": 2}`)
	right := []byte(`{"a": 1}`)

	result, err := Merge3Way("file.json", base, left, right, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode() != 0 {
		t.Errorf("expected clean merge, got %d conflicts", result.Stats.Conflicts)
	}
}

func TestMerge3WayDivergentReportsConflict(t *testing.T) {
	base := []byte(`{"a": 1}`)
	left := []byte(`{"a": 2}`)
	right := []byte(`{"a": 3}`)

	result, err := Merge3Way("file.json", base, left, right, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode() != 1 {
		t.Errorf("expected a conflicting merge, got exit code %d", result.ExitCode())
	}
}

func TestMerge3WayDisabledSkipsStructuralPipeline(t *testing.T) {
	base := []byte("a\nb\n")
	left := []byte("a\nleft\n")
	right := []byte("a\nb\n")

	result, err := Merge3Way("file.json", base, left, right, Options{Disable: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Stats.UsedFastPath {
		t.Error("expected SMERGE_DISABLE to take the line-only path")
	}
}

// TestMerge3WayLangOverrideDrivesUnrecognizedExtension covers the
// --lang-override CLI path: for a file extension the registry doesn't
// recognize, the profile supplied via Options.LangOverride is the one
// reported in Stats.Language, and the clean one-sided edit exits 0. The
// json profile has no parser driver, so this merge stays on the line-merge
// fast path.
func TestMerge3WayLangOverrideDrivesUnrecognizedExtension(t *testing.T) {
	base := []byte(`{"a": 1}`)
	left := []byte(`{"a": 2}`)
	right := []byte(`{"a": 1}`)

	result, err := Merge3Way("file.weirdext", base, left, right, Options{LangOverride: langprofile.Registry["json"]})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Stats.Language != "json" {
		t.Errorf("Stats.Language = %q, want json", result.Stats.Language)
	}
	if result.ExitCode() != 0 {
		t.Errorf("expected a clean merge, got %d conflicts", result.Stats.Conflicts)
	}
}
