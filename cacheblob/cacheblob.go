// Package cacheblob gzip-compresses the merge inputs/outputs cachestore
// persists, using klauspost/compress's drop-in gzip implementation (faster
// than the standard library's at the compression levels this package uses),
// and formats sizes with dustin/go-humanize for diagnostic output.
package cacheblob

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
)

// Compress gzip-compresses b at the default compression level.
func Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		w.Close()
		return nil, fmt.Errorf("compressing blob: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(b []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing blob: %w", err)
	}
	return out, nil
}

// SizeReport formats a human-readable before/after size summary for
// "--verbose" cache diagnostics.
func SizeReport(raw, compressed int) string {
	return fmt.Sprintf("%s -> %s", humanize.Bytes(uint64(raw)), humanize.Bytes(uint64(compressed)))
}
