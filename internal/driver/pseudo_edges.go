package driver

import "github.com/mlox-tools/mlox/internal/ordergraph"

// addCurrentOrder injects the current on-disk load order into graph as
// pseudo-edges (origin ""), so a plugin with no rules at all still
// keeps roughly its existing position. Grounded on mlox.py's
// loadorder.add_current_order: for each plugin (after the first),
// connect it from the nearest preceding plugin that isn't
// near-start/near-end and whose edge doesn't close a cycle, walking
// backward and retrying on failure. The walk runs all the way down to
// the first active plugin (index 0).
func addCurrentOrder(graph *ordergraph.Graph, active []string) {
	if len(active) < 2 {
		return
	}
	graph.EnsureNode(active[0])

	for currI := 1; currI < len(active); currI++ {
		curr := active[currI]
		graph.EnsureNode(curr)

		if graph.IsNearStart(curr) || graph.IsNearEnd(curr) {
			continue
		}
		for i := currI - 1; i >= 0; i-- {
			candidate := active[i]
			if graph.IsNearStart(candidate) || graph.IsNearEnd(candidate) {
				continue
			}
			if graph.AddEdge("", candidate, curr) {
				break
			}
		}
	}
}
