package synt

import (
	"bytes"

	"smerge/langprofile"
)

// PostProcess runs the three post-processing passes spec.md §3 requires, in
// order: line-splitting of multi-line leaves, comment attachment, then
// operator flattening. The passes rewrite Children slices of the input tree
// in place, and the returned root is the input root.
func PostProcess(root *Node, source []byte, profile *langprofile.Profile, arena *Arena) *Node {
	root = splitMultilineLeaves(root, source, arena)
	root = attachComments(root, profile)
	root = flattenOperators(root, profile, source)
	return root
}

// splitMultilineLeaves splits any leaf whose span crosses a line boundary
// into one synthetic child per line, so the matcher (which operates on
// whole nodes) can still align individual changed lines within e.g. a
// multi-line string or comment.
func splitMultilineLeaves(n *Node, source []byte, arena *Arena) *Node {
	if n == nil {
		return nil
	}

	if len(n.Children) == 0 {
		text := source[n.Start:n.End]
		if !bytes.Contains(text, []byte("\n")) {
			return n
		}
		lines := splitLinesKeepOffsets(n.Start, text)
		if len(lines) <= 1 {
			return n
		}
		children := make([]*Node, 0, len(lines))
		for _, l := range lines {
			child := arena.New(&Node{Type: n.Type + "_line", Start: l.start, End: l.end})
			children = append(children, child)
		}
		n.Children = children
		return n
	}

	for i, c := range n.Children {
		n.Children[i] = splitMultilineLeaves(c, source, arena)
	}
	return n
}

type lineSpan struct{ start, end int }

// splitLinesKeepOffsets splits text into line spans (including the
// newline in each span except possibly the last) with absolute byte
// offsets relative to baseOffset.
func splitLinesKeepOffsets(baseOffset int, text []byte) []lineSpan {
	var spans []lineSpan
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			spans = append(spans, lineSpan{baseOffset + start, baseOffset + i + 1})
			start = i + 1
		}
	}
	if start < len(text) {
		spans = append(spans, lineSpan{baseOffset + start, baseOffset + len(text)})
	}
	return spans
}

// attachComments moves each comment node (one of the grammar's own extras,
// or any type listed as an extra comment type in the profile) to be a
// leading child of the syntactic element it annotates: the next
// non-comment sibling. A trailing run of comments with no following
// sibling stays attached to the parent.
func attachComments(n *Node, profile *langprofile.Profile) *Node {
	if n == nil || len(n.Children) == 0 {
		return n
	}

	for _, c := range n.Children {
		attachComments(c, profile)
	}

	var rebuilt []*Node
	var pendingComments []*Node
	for _, c := range n.Children {
		if isCommentType(c.Type, profile) {
			pendingComments = append(pendingComments, c)
			continue
		}
		if len(pendingComments) > 0 {
			c.Children = append(append([]*Node{}, pendingComments...), c.Children...)
			pendingComments = nil
		}
		rebuilt = append(rebuilt, c)
	}
	// Trailing comments with nothing left to attach to stay as siblings.
	rebuilt = append(rebuilt, pendingComments...)
	n.Children = rebuilt
	return n
}

func isCommentType(nodeType string, profile *langprofile.Profile) bool {
	if nodeType == "comment" || nodeType == "line_comment" || nodeType == "block_comment" {
		return true
	}
	return profile != nil && profile.IsExtraComment(nodeType)
}

// flattenOperators turns right- or left-associative chains of the same
// binary-operator node type into one n-ary node, preserving child order
// and recording the operator token text between each pair of operands so
// the renderer can re-emit it (see Node.FlattenedOps).
func flattenOperators(n *Node, profile *langprofile.Profile, source []byte) *Node {
	if n == nil {
		return nil
	}
	for i, c := range n.Children {
		n.Children[i] = flattenOperators(c, profile, source)
	}

	if profile == nil || !profile.IsFlattened(n.Type) {
		return n
	}

	operands, ops := collectChain(n, n.Type, source)
	if len(operands) <= 2 {
		return n
	}

	n.Children = operands
	n.FlattenedOps = ops
	return n
}

// collectChain walks a left- or right-leaning chain of nodes sharing
// chainType, returning the leaf operands in source order and the operator
// token text found between each adjacent pair.
func collectChain(n *Node, chainType string, source []byte) ([]*Node, []string) {
	var operands []*Node
	var ops []string

	var operatorTokens []*Node
	for _, c := range n.Children {
		if c.Field == "left" || c.Field == "right" {
			continue
		}
		operatorTokens = append(operatorTokens, c)
	}

	var left, right *Node
	for _, c := range n.Children {
		switch c.Field {
		case "left":
			left = c
		case "right":
			right = c
		}
	}
	if left == nil || right == nil {
		return []*Node{n}, nil
	}

	if left.Type == chainType {
		subOperands, subOps := collectChain(left, chainType, source)
		operands = append(operands, subOperands...)
		ops = append(ops, subOps...)
	} else {
		operands = append(operands, left)
	}

	opText := ""
	if len(operatorTokens) > 0 {
		opText = string(operatorTokens[0].Text(source))
	}
	ops = append(ops, opText)

	if right.Type == chainType {
		subOperands, subOps := collectChain(right, chainType, source)
		operands = append(operands, subOperands...)
		ops = append(ops, subOps...)
	} else {
		operands = append(operands, right)
	}

	return operands, ops
}
