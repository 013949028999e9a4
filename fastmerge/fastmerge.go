// Package fastmerge implements the fast-mode coordinator (spec.md §4.10):
// try a plain line-based merge first, and only fall back to the full
// structural pipeline (parse, match, classmap, merge, render) when the
// line merge leaves conflicts, seeding the structural matcher from the
// regions the line merge already proved identical.
package fastmerge

import (
	"bytes"

	"smerge/classmap"
	"smerge/langprofile"
	"smerge/linemerge"
	"smerge/match"
	"smerge/merge"
	"smerge/parse"
	"smerge/render"
	"smerge/synt"
)

// Result is the outcome of a coordinated merge.
type Result struct {
	Output    []byte
	Conflicts int
	// UsedFastPath is true when Output is the line-based merge's result
	// (conflicts included, if any) and the structural pipeline never ran.
	UsedFastPath bool
}

// Merge runs the fast path first and falls back to the structural merge
// on any line-level conflict, detecting the language profile from
// fileName.
func Merge(fileName string, base, left, right []byte, opts render.Options) (*Result, error) {
	return merge3Way(fileName, base, left, right, nil, opts)
}

// MergeWithProfile is Merge with the language profile supplied directly
// (e.g. from langprofile.ApplyOverride) instead of detected from fileName.
func MergeWithProfile(fileName string, base, left, right []byte, profile *langprofile.Profile, opts render.Options) (*Result, error) {
	return merge3Way(fileName, base, left, right, profile, opts)
}

func merge3Way(fileName string, base, left, right []byte, overrideProfile *langprofile.Profile, opts render.Options) (*Result, error) {
	parseFile := func(source []byte, rev synt.Revision) (*parse.Result, error) {
		if overrideProfile != nil {
			return parse.ParseFileWithProfile(fileName, source, rev, overrideProfile)
		}
		return parse.ParseFile(fileName, source, rev)
	}

	baseNorm, terminator := parse.NormalizeLineEndings(base)
	leftNorm, leftTerm := parse.NormalizeLineEndings(left)
	rightNorm, _ := parse.NormalizeLineEndings(right)
	if leftTerm != "" {
		terminator = leftTerm
	}

	baseLines := linemerge.SplitLines(string(baseNorm))
	leftLines := linemerge.SplitLines(string(leftNorm))
	rightLines := linemerge.SplitLines(string(rightNorm))

	lineResult := linemerge.Merge(baseLines, leftLines, rightLines)
	if lineResult.Conflicts == 0 {
		joined := joinLines(lineResult.Lines, terminator, trailingNewline(baseNorm, leftNorm, rightNorm))
		// spec.md §4.10 step 2: a clean diff3 merge is only eligible for the
		// fast path if a quick re-parse of the joined output also passes the
		// signature-uniqueness check (§4.7) — two independent, non-conflicting
		// insertions can still collide on the same signature (e.g. two
		// distinct lines each adding an object key named "n").
		profile := overrideProfile
		if profile == nil {
			profile, _ = langprofile.Detect(fileName)
		}
		if profile != nil {
			if reparsed, err := parseFile(joined, synt.Left); err == nil {
				if !merge.HasDuplicateSignatures(reparsed.Tree, profile) {
					return &Result{Output: joined, Conflicts: 0, UsedFastPath: true}, nil
				}
			} else {
				return &Result{Output: joined, Conflicts: 0, UsedFastPath: true}, nil
			}
		} else {
			return &Result{Output: joined, Conflicts: 0, UsedFastPath: true}, nil
		}
	}

	lineFallback := func() *Result {
		return &Result{
			Output:       joinLines(lineResult.Lines, terminator, trailingNewline(baseNorm, leftNorm, rightNorm)),
			Conflicts:    lineResult.Conflicts,
			UsedFastPath: true,
		}
	}

	// A parse error or an unrecognized language both mean the structural
	// pipeline cannot run at all for this file; the line-based merge
	// already computed above (conflicts and all) is the whole result
	// (spec.md §7: "Parse error...abort structured path; emit line-based
	// merge output"; "Unknown language → emit line-based merge").
	baseParsed, err := parseFile(base, synt.Base)
	if err != nil {
		return lineFallback(), nil
	}
	leftParsed, err := parseFile(left, synt.Left)
	if err != nil {
		return lineFallback(), nil
	}
	rightParsed, err := parseFile(right, synt.Right)
	if err != nil {
		return lineFallback(), nil
	}

	seedBL := seedFromEqualSpans(baseParsed.Tree, leftParsed.Tree, baseLines, leftLines)
	seedBR := seedFromEqualSpans(baseParsed.Tree, rightParsed.Tree, baseLines, rightLines)

	mBL := match.Match(baseParsed.Tree, leftParsed.Tree, withSeed(match.BaseOptions(), seedBL))
	mBR := match.Match(baseParsed.Tree, rightParsed.Tree, withSeed(match.BaseOptions(), seedBR))
	mLR := match.Match(leftParsed.Tree, rightParsed.Tree, match.DefaultOptions())

	mapping := classmap.Build(baseParsed.Tree, leftParsed.Tree, rightParsed.Tree, mBL, mBR, mLR)

	profile := overrideProfile
	if profile == nil {
		profile = baseParsed.Profile
	}
	if profile == nil {
		profile = leftParsed.Profile
	}

	mergedTree, report := merge.Build(baseParsed.Tree, leftParsed.Tree, rightParsed.Tree, mapping, profile)
	forcedConflicts := merge.ForcedLineMerges(report.Deletions, mapping, baseParsed.Tree, leftParsed.Tree, rightParsed.Tree)
	merge.ForceLineBasedMerge(report.ClassIndex, forcedConflicts)

	if profile != nil {
		sources := map[synt.Revision][]byte{
			synt.Base:  baseParsed.Tree.Source,
			synt.Left:  leftParsed.Tree.Source,
			synt.Right: rightParsed.Tree.Source,
		}
		merge.ValidateSignatures(mergedTree, profile, func(rev synt.Revision) []byte { return sources[rev] })
	}

	out := render.Render(mergedTree, baseParsed.Tree, leftParsed.Tree, rightParsed.Tree, opts)
	return &Result{Output: out, Conflicts: countConflicts(mergedTree), UsedFastPath: false}, nil
}

// LineOnlyMerge runs only the diff3-style line merge, with no structural
// fallback at all. Used by the SMERGE_DISABLE escape hatch (spec.md §6).
func LineOnlyMerge(base, left, right []byte) (*Result, error) {
	baseNorm, terminator := parse.NormalizeLineEndings(base)
	leftNorm, leftTerm := parse.NormalizeLineEndings(left)
	rightNorm, _ := parse.NormalizeLineEndings(right)
	if leftTerm != "" {
		terminator = leftTerm
	}

	lineResult := linemerge.Merge(
		linemerge.SplitLines(string(baseNorm)),
		linemerge.SplitLines(string(leftNorm)),
		linemerge.SplitLines(string(rightNorm)),
	)
	return &Result{
		Output:       joinLines(lineResult.Lines, terminator, trailingNewline(baseNorm, leftNorm, rightNorm)),
		Conflicts:    lineResult.Conflicts,
		UsedFastPath: true,
	}, nil
}

func withSeed(opts match.Options, seed *match.Matching) match.Options {
	opts.Seed = seed
	return opts
}

// seedFromEqualSpans matches leaves of t1/t2 that fall within a line range
// the line merge already proved byte-identical between base and side.
func seedFromEqualSpans(t1, t2 *synt.Tree, baseLines, sideLines []string) *match.Matching {
	seed := match.NewMatching(t1, t2, nil)
	for _, span := range linemerge.EqualSpans(baseLines, sideLines) {
		leaves1 := leavesInLineRange(t1, span.BaseStart, span.BaseEnd)
		leaves2 := leavesInLineRange(t2, span.SideStart, span.SideEnd)
		n := len(leaves1)
		if len(leaves2) < n {
			n = len(leaves2)
		}
		for i := 0; i < n; i++ {
			seed.Add(leaves1[i], leaves2[i])
		}
	}
	return seed
}

// leavesInLineRange returns the tree's leaves (in source order) whose
// whole byte span lies within the 0-based line range [startLine, endLine).
func leavesInLineRange(tree *synt.Tree, startLine, endLine int) []*synt.Node {
	startByte, endByte := lineRangeToBytes(tree.Source, startLine, endLine)
	var out []*synt.Node
	synt.VisibleWalk(tree.Root, func(n *synt.Node) {
		if len(n.EffectiveChildren()) == 0 && n.Start >= startByte && n.End <= endByte {
			out = append(out, n)
		}
	})
	return out
}

func lineRangeToBytes(source []byte, startLine, endLine int) (int, int) {
	line := 0
	startByte, endByte := len(source), len(source)
	found := false
	for i := 0; i <= len(source); i++ {
		if line == startLine && !found {
			startByte = i
			found = true
		}
		if line == endLine {
			endByte = i
			break
		}
		if i < len(source) && source[i] == '\n' {
			line++
		}
	}
	return startByte, endByte
}

func joinLines(lines []string, terminator string, trailing bool) []byte {
	joined := ""
	for i, l := range lines {
		if i > 0 {
			joined += "\n"
		}
		joined += l
	}
	if trailing && len(lines) > 0 {
		joined += "\n"
	}
	return parse.RestoreLineEndings([]byte(joined), terminator)
}

// trailingNewline three-way merges whether the text ends in a line feed:
// a side that changed it relative to Base wins, Left checked first.
func trailingNewline(base, left, right []byte) bool {
	b := bytes.HasSuffix(base, []byte("\n"))
	if l := bytes.HasSuffix(left, []byte("\n")); l != b {
		return l
	}
	return bytes.HasSuffix(right, []byte("\n"))
}

func countConflicts(n *merge.Node) int {
	if n == nil {
		return 0
	}
	count := 0
	if n.Kind == merge.Conflict || n.Kind == merge.LineBasedMerge {
		count++
	}
	for _, c := range n.Children {
		count += countConflicts(c)
	}
	return count
}
