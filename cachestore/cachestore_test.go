package cachestore

import (
	"os"
	"testing"
)

func TestPutAndGetRoundTrips(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cachestore-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	store, err := Open(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	id, err := store.Put("a.json", []byte("base"), []byte("left"), []byte("right"), []byte("merged"), 1, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("expected a non-empty id")
	}

	rec, err := store.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if rec.FileName != "a.json" || string(rec.Output) != "merged" || rec.Conflicts != 1 {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestGetByPrefix(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cachestore-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	store, err := Open(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	id, err := store.Put("a.json", []byte("b"), []byte("l"), []byte("r"), []byte("o"), 0, 1000)
	if err != nil {
		t.Fatal(err)
	}

	rec, err := store.Get(id[:4])
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != id {
		t.Errorf("got id %s, want %s", rec.ID, id)
	}
}

func TestGetUnknownIDFails(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cachestore-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	store, err := Open(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.Get("deadbeef"); err == nil {
		t.Error("expected an error for an unknown id")
	}
}
