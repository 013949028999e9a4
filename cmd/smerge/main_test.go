package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootCommand(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}
	if rootCmd.Use != "smerge" {
		t.Errorf("expected Use 'smerge', got %q", rootCmd.Use)
	}
}

func TestMergeCommandConfiguration(t *testing.T) {
	if mergeCmd == nil {
		t.Fatal("mergeCmd should not be nil")
	}
	if mergeCmd.RunE == nil {
		t.Error("RunE should not be nil")
	}
	for _, name := range []string{"output", "compact", "verbose", "debug-dump-dir", "lang-override"} {
		if mergeCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected a %q flag on merge", name)
		}
	}
}

func TestReviewCommandHasListAndShow(t *testing.T) {
	if reviewCmd == nil {
		t.Fatal("reviewCmd should not be nil")
	}
	if !reviewCmd.HasSubCommands() {
		t.Fatal("review should have subcommands")
	}
	found := map[string]bool{}
	for _, c := range reviewCmd.Commands() {
		found[c.Name()] = true
	}
	if !found["list"] || !found["show"] {
		t.Errorf("expected list and show subcommands, got %v", found)
	}
}

func TestDisableRequested(t *testing.T) {
	os.Unsetenv("SMERGE_DISABLE")
	if disableRequested() {
		t.Error("expected false when SMERGE_DISABLE is unset")
	}

	os.Setenv("SMERGE_DISABLE", "true")
	defer os.Unsetenv("SMERGE_DISABLE")
	if !disableRequested() {
		t.Error("expected true when SMERGE_DISABLE=true")
	}

	os.Setenv("SMERGE_DISABLE", "not-a-bool")
	if disableRequested() {
		t.Error("expected false when SMERGE_DISABLE is not parseable as a bool")
	}
}

func TestWriteDebugDumpsProducesThreeDotFiles(t *testing.T) {
	dir := t.TempDir()
	base := []byte("package p\n\nfunc f() int {\n\treturn 1\n}\n")
	left := []byte("package p\n\nfunc f() int {\n\treturn 2\n}\n")
	right := []byte("package p\n\nfunc f() int {\n\treturn 1\n}\n\nfunc g() {}\n")

	if err := writeDebugDumps(dir, "example.go", base, left, right); err != nil {
		t.Fatalf("writeDebugDumps: %v", err)
	}
	for _, name := range []string{"base-left.dot", "base-right.dot", "left-right.dot"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}
