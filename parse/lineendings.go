package parse

import "bytes"

// NormalizeLineEndings rewrites source to use a single line feed and
// reports the predominant original terminator ("\r\n", "\r" or "\n") so
// the renderer can restore it (spec.md §4.1, testable property 5).
func NormalizeLineEndings(source []byte) (normalized []byte, terminator string) {
	crlf := bytes.Count(source, []byte("\r\n"))
	lf := bytes.Count(source, []byte("\n")) - crlf
	cr := bytes.Count(source, []byte("\r")) - crlf

	switch {
	case crlf >= lf && crlf >= cr && crlf > 0:
		terminator = "\r\n"
	case cr > lf:
		terminator = "\r"
	default:
		terminator = "\n"
	}

	normalized = bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))
	normalized = bytes.ReplaceAll(normalized, []byte("\r"), []byte("\n"))
	return normalized, terminator
}

// RestoreLineEndings converts normalized (LF-only) text back to the given
// terminator style.
func RestoreLineEndings(normalized []byte, terminator string) []byte {
	if terminator == "\n" || terminator == "" {
		return normalized
	}
	return bytes.ReplaceAll(normalized, []byte("\n"), []byte(terminator))
}
