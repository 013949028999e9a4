// Package render serializes a merged tree (package merge) back to text in
// two passes (spec.md §4.8): a tree walk collects an ordered sequence of
// plain-text and conflict sections, then a layout pass turns those sections
// into the requested marker style — line-aligned (expand every conflict to
// whole lines) or compact (markers at the conflict's exact granularity,
// splitting surrounding text onto adjacent lines) — mirroring mergiraf's
// MergedText::render split between section collection and layout.
package render

import (
	"regexp"
	"strings"

	"smerge/linemerge"
	"smerge/merge"
	"smerge/parse"
	"smerge/synt"
)

// Options configures conflict-marker granularity.
type Options struct {
	// Compact emits markers at the exact granularity of the conflict.
	// The default (false) expands every conflict to whole lines.
	Compact bool
}

// Render serializes root to text and restores the predominant line
// terminator of the revision trees it was built from.
func Render(root *merge.Node, base, left, right *synt.Tree, opts Options) []byte {
	sources := map[synt.Revision][]byte{
		synt.Base:  base.Source,
		synt.Left:  left.Source,
		synt.Right: right.Source,
	}

	r := &renderer{sources: sources}
	var sections []section
	r.collect(&sections, root)

	var out string
	if opts.Compact {
		out = renderCompactSections(sections)
	} else {
		out = renderFullLineSections(sections)
	}

	terminator := left.Terminator
	if terminator == "" {
		terminator = base.Terminator
	}
	return parse.RestoreLineEndings([]byte(out), terminator)
}

type renderer struct {
	sources map[synt.Revision][]byte
}

func (r *renderer) source(rev synt.Revision) []byte { return r.sources[rev] }

// section is one chunk of the rendered output, in tree-walk order: either
// plain merged text, or a three-way conflict whose marker placement is
// decided later by the layout pass (spec.md §4.8). Splitting collection
// from layout this way lets the same conflict be expanded to whole lines
// or kept compact without the tree walk needing to know which mode is
// active.
type section struct {
	isConflict         bool
	text               string
	base, left, right string
}

func (r *renderer) collect(sections *[]section, n *merge.Node) {
	switch n.Kind {
	case merge.Exact:
		appendMerged(sections, string(n.Repr.Text(r.source(n.ReprRevision))))

	case merge.Mixed:
		r.mixed(sections, n)

	case merge.CommutativeChildSeparator:
		appendMerged(sections, n.Separator)

	case merge.Conflict:
		r.collectConflict(sections, n.Base, n.Left, n.Right)

	case merge.LineBasedMerge:
		appendMerged(sections, r.lineBasedMergeText(n))
	}
}

// mixed renders a node whose children were cleanly rebuilt, imitating
// whitespace between adjacent children from whichever single revision
// actually had them adjacent, and falling back to a single space
// otherwise. Re-indenting a moved block to its new position's indentation
// level is not attempted; this is a known simplification (see DESIGN.md).
func (r *renderer) mixed(sections *[]section, n *merge.Node) {
	for i, child := range n.Children {
		if i > 0 {
			appendMerged(sections, r.gapBetween(n, n.Children[i-1], child))
		}
		r.collect(sections, child)
	}
}

// gapBetween returns the literal text that separated a and b in some
// revision where both are present as adjacent children of parent, or a
// single space if no such revision exists.
func (r *renderer) gapBetween(parent, a, b *merge.Node) string {
	for _, rev := range []synt.Revision{a.ReprRevision, synt.Base, synt.Left, synt.Right} {
		if rev == "" || parent.Class == nil || a.Class == nil || b.Class == nil {
			continue
		}
		pN, pok := parent.Class.Members[rev]
		aN, aok := a.Class.Members[rev]
		bN, bok := b.Class.Members[rev]
		if !pok || !aok || !bok {
			continue
		}
		kids := pN.EffectiveChildren()
		for i := 0; i+1 < len(kids); i++ {
			if kids[i] == aN && kids[i+1] == bN && aN.End <= bN.Start {
				return string(r.source(rev)[aN.End:bN.Start])
			}
		}
	}
	return " "
}

func (r *renderer) collectConflict(sections *[]section, base, left, right *synt.Node) {
	baseText, leftText, rightText := "", "", ""
	if base != nil {
		baseText = string(base.Text(r.source(synt.Base)))
	}
	if left != nil {
		leftText = string(left.Text(r.source(synt.Left)))
	}
	if right != nil {
		rightText = string(right.Text(r.source(synt.Right)))
	}
	pushConflict(sections, baseText, leftText, rightText)
}

// lineBasedMergeText renders a LineBasedMerge node's diff3 fallback as a
// single opaque text blob, already at line granularity; the compact/
// line-aligned distinction is not applied inside it (see DESIGN.md).
func (r *renderer) lineBasedMergeText(n *merge.Node) string {
	baseText, leftText, rightText := "", "", ""
	if n.Base != nil {
		baseText = string(n.Base.Text(r.source(synt.Base)))
	}
	if n.Left != nil {
		leftText = string(n.Left.Text(r.source(synt.Left)))
	}
	if n.Right != nil {
		rightText = string(n.Right.Text(r.source(synt.Right)))
	}

	if baseText == "" && n.Base == nil {
		// One side created this node from nothing: there's nothing to
		// diff3 against, so render it as a straight two-way conflict if
		// Left and Right disagree, or the single side's text if only one
		// has it.
		switch {
		case leftText != "" && rightText != "" && leftText != rightText:
			var sb strings.Builder
			writeConflictBlock(&sb, "", leftText, rightText)
			return sb.String()
		case leftText != "":
			return leftText
		default:
			return rightText
		}
	}

	result := linemerge.Merge(linemerge.SplitLines(baseText), linemerge.SplitLines(leftText), linemerge.SplitLines(rightText))
	return strings.Join(result.Lines, "\n")
}

func appendMerged(sections *[]section, text string) {
	*sections = append(*sections, section{text: text})
}

// pushConflict mirrors mergiraf's push_conflict: if Left and Right actually
// agree with each other, it isn't a conflict at all, even if both diverge
// from Base.
func pushConflict(sections *[]section, base, left, right string) {
	if left == right {
		appendMerged(sections, left)
		return
	}
	*sections = append(*sections, section{isConflict: true, base: base, left: left, right: right})
}

// renderFullLineSections expands every conflict so its markers land on
// whole lines: any partial line already written before the conflict is
// pulled back into the conflict's own text, and anything after it is
// gathered until the next newline, ported from mergiraf's
// MergedText::render_full_lines.
func renderFullLineSections(sections []section) string {
	var output strings.Builder
	var baseBuf, leftBuf, rightBuf strings.Builder
	gathering := false

	flush := func() {
		writeConflictBlock(&output, baseBuf.String(), leftBuf.String(), rightBuf.String())
		baseBuf.Reset()
		leftBuf.Reset()
		rightBuf.Reset()
	}

	for _, s := range sections {
		if !s.isConflict {
			contents := s.text
			if gathering {
				if idx := strings.IndexByte(contents, '\n'); idx >= 0 {
					toAppend := contents[:idx+1]
					leftBuf.WriteString(toAppend)
					baseBuf.WriteString(toAppend)
					rightBuf.WriteString(toAppend)
					flush()
					output.WriteString(contents[idx+1:])
					gathering = false
				} else {
					leftBuf.WriteString(contents)
					baseBuf.WriteString(contents)
					rightBuf.WriteString(contents)
				}
			} else {
				output.WriteString(contents)
			}
			continue
		}

		if !gathering {
			out := output.String()
			if out != "" && !strings.HasSuffix(out, "\n") {
				idx := strings.LastIndexByte(out, '\n')
				truncated, lastLine := "", out
				if idx >= 0 {
					truncated, lastLine = out[:idx+1], out[idx+1:]
				}
				output.Reset()
				output.WriteString(truncated)
				baseBuf.WriteString(lastLine)
				leftBuf.WriteString(lastLine)
				rightBuf.WriteString(lastLine)
			}
		}

		baseBuf.WriteString(s.base)
		leftBuf.WriteString(s.left)
		rightBuf.WriteString(s.right)

		if endsWithNewlineOrBlank(baseBuf.String()) && endsWithNewlineOrBlank(leftBuf.String()) && endsWithNewlineOrBlank(rightBuf.String()) {
			flush()
			gathering = false
		} else {
			gathering = true
		}
	}
	if gathering {
		flush()
	}
	return output.String()
}

func endsWithNewlineOrBlank(s string) bool {
	return s == "" || strings.HasSuffix(s, "\n") || strings.TrimSpace(s) == ""
}

var (
	trailingWhitespaceRe    = regexp.MustCompile(`[\t ]+$`)
	leadingWhitespaceLineRe = regexp.MustCompile(`^[\t ]*\n`)
)

// renderCompactSections keeps every conflict at its exact granularity: the
// markers still occupy their own lines, so trailing whitespace already
// written right before a conflict is pulled into the conflict's text
// instead of expanding the conflict out to the start of the line, and a
// conflict's trailing newline (if any) is stripped from the next merged
// chunk so it isn't doubled. Ported from mergiraf's
// MergedText::render_compact.
func renderCompactSections(sections []section) string {
	var output strings.Builder
	lastWasConflict := false

	for _, s := range sections {
		if !s.isConflict {
			if lastWasConflict {
				output.WriteString(leadingWhitespaceLineRe.ReplaceAllString(s.text, ""))
			} else {
				output.WriteString(s.text)
			}
			lastWasConflict = false
			continue
		}

		base, left, right := s.base, s.left, s.right
		if loc := trailingWhitespaceRe.FindStringIndex(output.String()); loc != nil {
			out := output.String()
			whitespace := out[loc[0]:]
			output.Reset()
			output.WriteString(out[:loc[0]])
			if base != "" {
				base = whitespace + base
			}
			if left != "" {
				left = whitespace + left
			}
			if right != "" {
				right = whitespace + right
			}
		}
		writeConflictBlock(&output, base, left, right)
		lastWasConflict = true
	}
	return output.String()
}

// writeConflictBlock emits the four diff3 marker lines, each on its own
// line, skipping blank content but never the marker itself.
func writeConflictBlock(sb *strings.Builder, base, left, right string) {
	maybeNewline(sb)
	sb.WriteString(linemerge.MarkerLeft)
	sb.WriteByte('\n')
	if strings.TrimSpace(left) != "" {
		sb.WriteString(left)
	}
	maybeNewline(sb)
	sb.WriteString(linemerge.MarkerBase)
	sb.WriteByte('\n')
	if strings.TrimSpace(base) != "" {
		sb.WriteString(base)
	}
	maybeNewline(sb)
	sb.WriteString(linemerge.MarkerSeparator)
	sb.WriteByte('\n')
	if strings.TrimSpace(right) != "" {
		sb.WriteString(right)
	}
	maybeNewline(sb)
	sb.WriteString(linemerge.MarkerRight)
	sb.WriteByte('\n')
}

func maybeNewline(sb *strings.Builder) {
	s := sb.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		sb.WriteByte('\n')
	}
}
