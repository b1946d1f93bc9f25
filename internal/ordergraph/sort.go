package ordergraph

import "github.com/mlox-tools/mlox/internal/diagnostics"

// Sort runs the affinity-aware topological sort of spec.md §4.5 and
// returns the full ordered superset of every plugin the graph knows
// about (not yet intersected with the active set or split by master/
// plugin kind — that's internal/driver's job, since it needs the
// active set and file extensions this package doesn't know about).
//
// Algorithm, mirroring mlox.py's pluggraph.topo_sort exactly:
//  1. roots = nodes with indegree 0, in insertion order.
//  2. Pull out nodes that can reach a nearstart entry (in nearstart's
//     own order) into top_roots.
//  3. From what's left, pull out nodes that can reach a nearend entry
//     into bottom_roots. A root reachable from both bands is claimed
//     by nearstart, since step 2 runs first (spec.md §9 open question).
//  4. Whatever remains is middle_roots.
//  5. worklist = top_roots ++ middle_roots ++ bottom_roots, reversed
//     once and treated as a stack: pop, emit, decrement children's
//     indegree, push any that reach zero, and retire the popped node.
//  6. Leftover nodes with nonzero indegree after the stack empties is
//     an invariant violation — cycles are rejected at insertion time,
//     so this should never happen.
func (g *Graph) Sort() ([]string, error) {
	roots := make([]int, 0)
	for id := range g.children {
		if g.indeg[id] == 0 {
			roots = append(roots, id)
		}
	}

	topRoots, roots := g.removeRoots(roots, g.nearStart)
	bottomRoots, roots := g.removeRoots(roots, g.nearEnd)
	middleRoots := roots

	worklist := make([]int, 0, len(topRoots)+len(middleRoots)+len(bottomRoots))
	worklist = append(worklist, topRoots...)
	worklist = append(worklist, middleRoots...)
	worklist = append(worklist, bottomRoots...)

	// Reverse once, then treat as a stack (pop from the end), which is
	// the same as processing worklist front-to-back in order — but
	// matching mlox.py's literal reverse+pop-from-end shape keeps this
	// grounded rather than "simplified" into something that merely
	// happens to produce the same output today.
	stack := make([]int, len(worklist))
	for i, id := range worklist {
		stack[len(worklist)-1-i] = id
	}

	indeg := make([]int, len(g.indeg))
	copy(indeg, g.indeg)
	retired := make([]bool, len(g.names))

	sorted := make([]string, 0, len(g.names))
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sorted = append(sorted, g.names[n])
		retired[n] = true
		for _, c := range g.children[n] {
			indeg[c]--
			if indeg[c] == 0 {
				stack = append(stack, c)
			}
		}
		g.children[n] = nil
	}

	for id := range g.names {
		if !retired[id] && indeg[id] != 0 {
			return nil, diagnostics.InvariantViolation("topological sort left nodes with nonzero indegree")
		}
	}

	return sorted, nil
}

// removeRoots pulls nodes that can reach any member of affinity (in
// affinity's own order) out of roots, preserving the order they were
// removed in. It mirrors mlox.py's remove_roots: for each affinity
// target, drain the current root list front-to-back, keeping what
// doesn't reach it for the next target.
func (g *Graph) removeRoots(roots []int, affinity []int) (removed, leftover []int) {
	leftover = roots
	for _, target := range affinity {
		var keep []int
		for _, r := range leftover {
			if g.canReach(r, target) {
				removed = append(removed, r)
			} else {
				keep = append(keep, r)
			}
		}
		leftover = keep
	}
	return removed, leftover
}
