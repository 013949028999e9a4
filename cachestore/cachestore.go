// Package cachestore persists merge inputs and outputs under a short random
// id, backing the "review" operation (spec.md §6): a human can later look up
// a past merge by id to inspect exactly what was merged and what came out,
// without re-running the merge. Grounded on the teacher's
// ivcs/internal/cache.FileCache SQLite pattern, repurposed from per-file
// digest caching to whole-merge storage.
package cachestore

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"smerge/cacheblob"
)

// newShortID generates a random hex id, grounded on the teacher's
// review.Open UUID-style id generation but shortened since review ids are
// typed by hand at the CLI.
func newShortID() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Store is a SQLite-backed directory of recorded merges.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS merges (
	id         TEXT PRIMARY KEY,
	file_name  TEXT NOT NULL,
	base       BLOB NOT NULL,
	left       BLOB NOT NULL,
	right      BLOB NOT NULL,
	output     BLOB NOT NULL,
	conflicts  INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
`

// DefaultDir returns <UserCacheDir>/smerge/reviews, creating it if absent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache dir: %w", err)
	}
	dir := filepath.Join(base, "smerge", "reviews")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating review cache dir: %w", err)
	}
	return dir, nil
}

// Open opens or creates the review store at <dir>/reviews.db.
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, "reviews.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening review store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying review store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record is one stored merge, keyed by a short random id.
type Record struct {
	ID        string
	FileName  string
	Base      []byte
	Left      []byte
	Right     []byte
	Output    []byte
	Conflicts int
	CreatedAt int64
}

// Put compresses base/left/right/output with gzip and stores them under a
// newly generated short hex id, returning that id.
func (s *Store) Put(fileName string, base, left, right, output []byte, conflicts int, now int64) (string, error) {
	id, err := newShortID()
	if err != nil {
		return "", fmt.Errorf("generating review id: %w", err)
	}

	baseC, err := cacheblob.Compress(base)
	if err != nil {
		return "", err
	}
	leftC, err := cacheblob.Compress(left)
	if err != nil {
		return "", err
	}
	rightC, err := cacheblob.Compress(right)
	if err != nil {
		return "", err
	}
	outC, err := cacheblob.Compress(output)
	if err != nil {
		return "", err
	}

	_, err = s.db.Exec(
		`INSERT INTO merges (id, file_name, base, left, right, output, conflicts, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, fileName, baseC, leftC, rightC, outC, conflicts, now,
	)
	if err != nil {
		return "", fmt.Errorf("storing review %s: %w", id, err)
	}
	return id, nil
}

// Get looks up a record by its short id or a unique hex prefix of it.
func (s *Store) Get(idOrPrefix string) (*Record, error) {
	rows, err := s.db.Query(
		`SELECT id, file_name, base, left, right, output, conflicts, created_at
		 FROM merges WHERE id = ? OR id LIKE ?`,
		idOrPrefix, idOrPrefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("querying review %s: %w", idOrPrefix, err)
	}
	defer rows.Close()

	var matches []*Record
	for rows.Next() {
		r := &Record{}
		var baseC, leftC, rightC, outC []byte
		if err := rows.Scan(&r.ID, &r.FileName, &baseC, &leftC, &rightC, &outC, &r.Conflicts, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning review row: %w", err)
		}
		if r.Base, err = cacheblob.Decompress(baseC); err != nil {
			return nil, err
		}
		if r.Left, err = cacheblob.Decompress(leftC); err != nil {
			return nil, err
		}
		if r.Right, err = cacheblob.Decompress(rightC); err != nil {
			return nil, err
		}
		if r.Output, err = cacheblob.Decompress(outC); err != nil {
			return nil, err
		}
		matches = append(matches, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("review not found: %s", idOrPrefix)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous review id prefix: %s (matches %d reviews)", idOrPrefix, len(matches))
	}
	return matches[0], nil
}

// List returns every stored record's id, file name, conflict count and
// timestamp without decompressing the blobs, for a quick "review list".
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(`SELECT id, file_name, conflicts, created_at FROM merges ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.FileName, &r.Conflicts, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning review row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
