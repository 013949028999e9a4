package match

import (
	"fmt"
	"io"

	"smerge/synt"
)

// WriteDOT renders a matching as a Graphviz DOT graph: one edge per matched
// pair, plus unmatched nodes from each side as unconnected nodes, per
// spec.md §6 "Debug dumps" (three such files are written per merge: one per
// pair of revisions).
func WriteDOT(w io.Writer, label string, m *Matching) error {
	if _, err := fmt.Fprintf(w, "graph %q {\n", label); err != nil {
		return err
	}

	id := make(map[*synt.Node]int)
	next := 0
	nodeID := func(n *synt.Node) int {
		if existing, ok := id[n]; ok {
			return existing
		}
		id[n] = next
		next++
		return id[n]
	}

	var err error
	m.Pairs(func(u, v *synt.Node) {
		if err != nil {
			return
		}
		_, werr := fmt.Fprintf(w, "  \"t1_%d\" [label=%q];\n  \"t2_%d\" [label=%q];\n  \"t1_%d\" -- \"t2_%d\";\n",
			nodeID(u), u.Type, nodeID(v), v.Type, nodeID(u), nodeID(v))
		if werr != nil {
			err = werr
		}
	})
	if err != nil {
		return err
	}

	writeUnmatched(w, "t1_unmatched", m.t1.Root, m.IsMatched1, id, &next)
	writeUnmatched(w, "t2_unmatched", m.t2.Root, m.IsMatched2, id, &next)

	_, err = fmt.Fprintln(w, "}")
	return err
}

func writeUnmatched(w io.Writer, prefix string, root *synt.Node, isMatched func(*synt.Node) bool, id map[*synt.Node]int, next *int) {
	synt.Walk(root, func(n *synt.Node) {
		if isMatched(n) {
			return
		}
		if _, ok := id[n]; !ok {
			id[n] = *next
			*next++
		}
		fmt.Fprintf(w, "  \"%s_%d\" [label=%q, style=dashed];\n", prefix, id[n], n.Type)
	})
}
