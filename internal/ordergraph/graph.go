// Package ordergraph implements the constraint graph described in
// spec.md §4.3/§4.4: ordering edges with online cycle rejection, plus
// nearstart/nearend affinity lists. Names are interned to integer
// indices (spec.md §9 DESIGN NOTES) so the per-edge reachability DFS
// never hashes a string; "children" adjacency is stored as an
// order-preserving slice-of-slices rather than a set, since insertion
// order into each child list drives the topological sort's tie-break
// discipline.
package ordergraph

import (
	"github.com/go-logr/logr"

	"github.com/mlox-tools/mlox/internal/diagnostics"
)

// Graph is a directed graph of ordering constraints over canonical
// plugin names. It is acyclic by construction: AddEdge rejects any
// edge that would close a cycle (spec.md §4.3 invariants).
type Graph struct {
	index map[string]int // cname -> node id
	names []string       // node id -> cname

	children [][]int // children[id] = ordered, distinct successor ids
	indeg    []int   // indeg[id] = number of incoming edges

	nearStart []int // node ids pulled toward the start, in rule order
	nearEnd   []int // node ids pulled toward the end, in rule order

	debug logr.Logger
	msg   *diagnostics.Sink
}

// New creates an empty Graph. msg receives user-visible cycle
// warnings (rule-file edges); debug receives everything else.
func New(msg *diagnostics.Sink, debug logr.Logger) *Graph {
	return &Graph{
		index: make(map[string]int),
		debug: debug,
		msg:   msg,
	}
}

// EnsureNode interns cname if it hasn't been seen, giving it an empty
// child list and zero indegree, and returns its node id. Mirrors
// mlox.py's "self.graph.nodes.setdefault(p, [])".
func (g *Graph) EnsureNode(cname string) int {
	if id, ok := g.index[cname]; ok {
		return id
	}
	id := len(g.names)
	g.index[cname] = id
	g.names = append(g.names, cname)
	g.children = append(g.children, nil)
	g.indeg = append(g.indeg, 0)
	return id
}

// HasNode reports whether cname has been interned.
func (g *Graph) HasNode(cname string) bool {
	_, ok := g.index[cname]
	return ok
}

// NodeCount returns the number of distinct plugins known to the graph.
func (g *Graph) NodeCount() int {
	return len(g.names)
}

// AddEdge adds an edge meaning "from loads strictly before to". origin
// is a "file:line" location for edges coming from a rule file, or ""
// for a pseudo-edge synthesized from the current load order (spec.md
// §4.3 "Pseudo-edge"). It reports whether the edge was accepted: a
// cycle rejects the edge; origin == "" logs the rejection at debug
// level (expected, ignored) while a non-empty origin also appends a
// user-visible warning to msg.
func (g *Graph) AddEdge(origin, from, to string) bool {
	fromID := g.EnsureNode(from)
	toID := g.EnsureNode(to)

	if g.canReach(toID, fromID) {
		err := diagnostics.CycleRejected(origin, from, to)
		if origin == "" {
			g.debug.V(1).Info("pseudo-edge dropped on cycle", "from", from, "to", to)
		} else {
			g.msg.Add("Warning: %s: %s", origin, err.Error())
		}
		return false
	}

	for _, c := range g.children[fromID] {
		if c == toID {
			g.debug.V(1).Info("duplicate edge", "origin", origin, "from", from, "to", to)
			return true
		}
	}

	g.children[fromID] = append(g.children[fromID], toID)
	g.indeg[toID]++
	g.debug.V(1).Info("adding edge", "from", from, "to", to)
	return true
}

// CanReach reports whether from can reach to by following children
// edges. Names that have never been interned can't reach anything.
func (g *Graph) CanReach(from, to string) bool {
	fromID, ok := g.index[from]
	if !ok {
		return false
	}
	toID, ok := g.index[to]
	if !ok {
		return false
	}
	return g.canReach(fromID, toID)
}

// canReach is an iterative DFS over children, O(V+E) per call. The
// corpus this graph models is a near-total order over a few thousand
// plugins, so worst-case O(V+E) per edge insertion is accepted rather
// than maintaining incremental transitive closure (spec.md §4.3, §9).
func (g *Graph) canReach(start, target int) bool {
	if start == target {
		return true
	}
	seen := make([]bool, len(g.names))
	stack := []int{start}
	seen[start] = true
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range g.children[n] {
			if c == target {
				return true
			}
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}
	return false
}

// AddNearStart marks cname as pulled toward the start of the load
// order and ensures it is a node in the graph.
func (g *Graph) AddNearStart(cname string) {
	id := g.EnsureNode(cname)
	g.nearStart = append(g.nearStart, id)
}

// AddNearEnd marks cname as pulled toward the end of the load order
// and ensures it is a node in the graph.
func (g *Graph) AddNearEnd(cname string) {
	id := g.EnsureNode(cname)
	g.nearEnd = append(g.nearEnd, id)
}

// ReverseNearEnd reverses the nearend list once. Called after each
// rule file is fully consumed (spec.md §4.2): the on-file order reads
// top-to-bottom as "increasing preference for end", so it must be
// flipped before use as a preference order in Sort's remove_roots pass.
func (g *Graph) ReverseNearEnd() {
	for i, j := 0, len(g.nearEnd)-1; i < j; i, j = i+1, j-1 {
		g.nearEnd[i], g.nearEnd[j] = g.nearEnd[j], g.nearEnd[i]
	}
}

// IsNearStart reports whether cname was marked with AddNearStart.
func (g *Graph) IsNearStart(cname string) bool {
	id, ok := g.index[cname]
	if !ok {
		return false
	}
	for _, n := range g.nearStart {
		if n == id {
			return true
		}
	}
	return false
}

// IsNearEnd reports whether cname was marked with AddNearEnd.
func (g *Graph) IsNearEnd(cname string) bool {
	id, ok := g.index[cname]
	if !ok {
		return false
	}
	for _, n := range g.nearEnd {
		if n == id {
			return true
		}
	}
	return false
}

// Successors returns the truenames-free (canonical) children of cname,
// in insertion order, or nil if cname is unknown or has no children.
// Used by --explain to walk the transitive successor tree.
func (g *Graph) Successors(cname string) []string {
	id, ok := g.index[cname]
	if !ok {
		return nil
	}
	out := make([]string, len(g.children[id]))
	for i, c := range g.children[id] {
		out[i] = g.names[c]
	}
	return out
}

// Names returns every interned canonical name, in insertion order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Edge is a single accepted ordering constraint, by canonical name.
type Edge struct {
	From string
	To   string
}

// Edges returns every accepted edge currently in the graph, in node
// insertion order, then child insertion order within each node.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for from, children := range g.children {
		for _, to := range children {
			out = append(out, Edge{From: g.names[from], To: g.names[to]})
		}
	}
	return out
}
