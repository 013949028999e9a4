// Package linemerge implements the classic diff3-style line-based merge
// used both as the structural merger's fallback target (spec.md §4.5,
// §4.6) and by the fast-mode coordinator (§4.10).
package linemerge

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Conflict marker text, spec.md §4.8: exactly seven marker characters
// followed by a label, each on its own line.
const (
	MarkerLeft      = "<<<<<<< LEFT"
	MarkerBase      = "||||||| BASE"
	MarkerSeparator = "======="
	MarkerRight     = ">>>>>>> RIGHT"
)

// Hunk describes one region of the merged output that needed a real
// three-way decision (as opposed to a line neither side touched).
type Hunk struct {
	OutputLine int // 1-based line where this hunk begins in Result.Lines
	Conflict   bool
	Base, Left, Right []string
}

// Result is the outcome of a three-way line merge.
type Result struct {
	Lines     []string
	Hunks     []Hunk
	Conflicts int
}

// Merge runs a diff3-style merge of base/left/right, each split into
// lines. Regions only one side touched are taken automatically; regions
// both sides touched identically collapse to that one change; regions
// both sides touched differently become a conflict hunk carrying all
// three texts.
func Merge(base, left, right []string) *Result {
	leftEdits := editRegions(base, left)
	rightEdits := editRegions(base, right)

	r := &Result{}
	basePos, li, ri := 0, 0, 0

	flushBase := func(upTo int) {
		r.Lines = append(r.Lines, base[basePos:upTo]...)
		basePos = upTo
	}

	for li < len(leftEdits) || ri < len(rightEdits) {
		var le, re *editRegion
		if li < len(leftEdits) {
			le = &leftEdits[li]
		}
		if ri < len(rightEdits) {
			re = &rightEdits[ri]
		}

		switch {
		case le != nil && re != nil && entirelyBefore(le, re):
			flushBase(le.baseStart)
			r.Lines = append(r.Lines, left[le.sideStart:le.sideEnd]...)
			basePos = le.baseEnd
			li++

		case le != nil && re != nil && entirelyBefore(re, le):
			flushBase(re.baseStart)
			r.Lines = append(r.Lines, right[re.sideStart:re.sideEnd]...)
			basePos = re.baseEnd
			ri++

		case le != nil && re != nil:
			start, end := minInt(le.baseStart, re.baseStart), maxInt(le.baseEnd, re.baseEnd)
			for {
				expanded := false
				for li < len(leftEdits) && leftEdits[li].baseStart <= end {
					if leftEdits[li].baseEnd > end {
						end, expanded = leftEdits[li].baseEnd, true
					}
					li++
				}
				for ri < len(rightEdits) && rightEdits[ri].baseStart <= end {
					if rightEdits[ri].baseEnd > end {
						end, expanded = rightEdits[ri].baseEnd, true
					}
					ri++
				}
				if !expanded {
					break
				}
			}

			leftSide := reconstructSide(base, left, leftEdits[:li], start, end)
			rightSide := reconstructSide(base, right, rightEdits[:ri], start, end)

			flushBase(start)
			if linesEqual(leftSide, rightSide) {
				r.Lines = append(r.Lines, leftSide...)
			} else {
				r.Hunks = append(r.Hunks, Hunk{
					OutputLine: len(r.Lines) + 1,
					Conflict:   true,
					Base:       append([]string{}, base[start:end]...),
					Left:       leftSide,
					Right:      rightSide,
				})
				r.Conflicts++
				r.Lines = append(r.Lines, MarkerLeft)
				r.Lines = append(r.Lines, leftSide...)
				r.Lines = append(r.Lines, MarkerBase)
				r.Lines = append(r.Lines, base[start:end]...)
				r.Lines = append(r.Lines, MarkerSeparator)
				r.Lines = append(r.Lines, rightSide...)
				r.Lines = append(r.Lines, MarkerRight)
			}
			basePos = end

		case le != nil:
			flushBase(le.baseStart)
			r.Lines = append(r.Lines, left[le.sideStart:le.sideEnd]...)
			basePos = le.baseEnd
			li++

		case re != nil:
			flushBase(re.baseStart)
			r.Lines = append(r.Lines, right[re.sideStart:re.sideEnd]...)
			basePos = re.baseEnd
			ri++
		}
	}

	flushBase(len(base))
	return r
}

// editRegion covers base lines [baseStart, baseEnd) replaced by
// side[sideStart:sideEnd).
type editRegion struct {
	baseStart, baseEnd int
	sideStart, sideEnd int
}

func editRegions(base, side []string) []editRegion {
	baseText := strings.Join(base, "\n")
	sideText := strings.Join(side, "\n")
	if baseText == sideText {
		return nil
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToRunes(baseText, sideText)
	diffs := dmp.DiffMainRunes(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var regions []editRegion
	basePos, sidePos := 0, 0
	i := 0
	for i < len(diffs) {
		if diffs[i].Type == diffmatchpatch.DiffEqual {
			n := countLines(diffs[i].Text)
			basePos += n
			sidePos += n
			i++
			continue
		}

		regionBaseStart, regionSideStart := basePos, sidePos
		for i < len(diffs) && diffs[i].Type != diffmatchpatch.DiffEqual {
			switch diffs[i].Type {
			case diffmatchpatch.DiffDelete:
				basePos += countLines(diffs[i].Text)
			case diffmatchpatch.DiffInsert:
				sidePos += countLines(diffs[i].Text)
			}
			i++
		}
		regions = append(regions, editRegion{regionBaseStart, basePos, regionSideStart, sidePos})
	}
	return regions
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if text[len(text)-1] != '\n' {
		n++
	}
	return n
}

// entirelyBefore reports whether a ends strictly before b starts. A
// zero-width insertion (baseStart == baseEnd) at the same point as
// another edit counts as overlapping, not "before".
func entirelyBefore(a, b *editRegion) bool {
	if a.baseEnd < b.baseStart {
		return true
	}
	if a.baseEnd == b.baseStart {
		return a.baseStart < a.baseEnd
	}
	return false
}

// reconstructSide rebuilds a side's lines over base range [start, end),
// applying any of that side's edits (up to edits' current cascade limit)
// that fall within it.
func reconstructSide(base, side []string, edits []editRegion, start, end int) []string {
	var result []string
	pos := start
	for _, e := range edits {
		if e.baseEnd < start || (e.baseStart == e.baseEnd && e.baseStart < start) {
			continue
		}
		if e.baseStart > end {
			break
		}
		editStart := maxInt(e.baseStart, start)
		if pos < editStart {
			result = append(result, base[pos:editStart]...)
		}
		result = append(result, side[e.sideStart:e.sideEnd]...)
		if e.baseEnd > pos {
			pos = e.baseEnd
		}
	}
	if pos < end {
		result = append(result, base[pos:end]...)
	}
	return result
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Span is a line range pair that is known to be byte-identical between
// base and side: base[BaseStart:BaseEnd] == side[SideStart:SideEnd]
// line-by-line, in order. Used to seed matching in unconflicted regions
// (spec.md §4.10).
type Span struct {
	BaseStart, BaseEnd int
	SideStart, SideEnd int
}

// EqualSpans returns every maximal run of lines base and side agree on
// verbatim, i.e. the complement of editRegions.
func EqualSpans(base, side []string) []Span {
	edits := editRegions(base, side)
	var spans []Span
	basePos, sidePos := 0, 0
	for _, e := range edits {
		if e.baseStart > basePos {
			spans = append(spans, Span{basePos, e.baseStart, sidePos, sidePos + (e.baseStart - basePos)})
		}
		basePos, sidePos = e.baseEnd, e.sideEnd
	}
	if basePos < len(base) {
		spans = append(spans, Span{basePos, len(base), sidePos, sidePos + (len(base) - basePos)})
	}
	return spans
}

// SplitLines splits text into lines with the trailing terminator removed,
// mirroring parse.NormalizeLineEndings' already-normalized "\n" input.
func SplitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
