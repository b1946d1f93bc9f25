// Package export renders a Graph's accepted edges as Graphviz DOT or
// Mermaid for the --export-graph flag.
package export

import (
	"fmt"
	"sort"
	"strings"
)

// Edge is a single accepted ordering constraint, named by truename for
// display (the graph itself only knows canonical names).
type Edge struct {
	From string
	To   string
}

// DOT renders edges as a Graphviz digraph.
func DOT(edges []Edge) string {
	var b strings.Builder
	b.WriteString("digraph loadorder {\n")
	b.WriteString("  rankdir=LR;\n")
	for _, e := range sortedEdges(edges) {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String()
}

// Mermaid renders edges as a Mermaid flowchart.
func Mermaid(edges []Edge) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, e := range sortedEdges(edges) {
		fmt.Fprintf(&b, "  %s --> %s\n", mermaidID(e.From), mermaidID(e.To))
	}
	return b.String()
}

// sortedEdges returns edges in a deterministic order (by from, then
// to) so repeated exports of the same graph diff cleanly.
func sortedEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// mermaidID strips characters Mermaid node IDs can't contain.
func mermaidID(name string) string {
	r := strings.NewReplacer(".", "_", "-", "_", " ", "_")
	return r.Replace(name)
}
