package cacheblob

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressDecompressRoundTrips(t *testing.T) {
	original := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 50))

	compressed, err := Compress(original)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Errorf("expected compressed size to beat %d bytes of repeated text, got %d", len(original), len(compressed))
	}

	out, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, original) {
		t.Error("decompressed output does not match original input")
	}
}

func TestCompressEmptyInput(t *testing.T) {
	compressed, err := Compress(nil)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty round trip, got %d bytes", len(out))
	}
}

func TestSizeReportFormatsBothSides(t *testing.T) {
	report := SizeReport(2048, 512)
	if !strings.Contains(report, "->") {
		t.Errorf("expected a before -> after report, got %q", report)
	}
}
