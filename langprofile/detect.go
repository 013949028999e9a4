package langprofile

import "github.com/bmatcuk/doublestar/v4"

// doublestarMatch matches a file-name pattern (possibly a glob) against a
// base name. Plain literal names (the common case, e.g. "go.mod") match
// via doublestar's exact-match fallback just as cheaply as strings.EqualFold
// would, but this lets FileNames entries also carry glob patterns like
// "*.gyp" without a second code path.
func doublestarMatch(pattern, name string) (bool, error) {
	return doublestar.Match(pattern, name)
}
