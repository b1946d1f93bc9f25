package ordergraph

import (
	"reflect"
	"testing"
)

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestSort_RespectsEdges(t *testing.T) {
	g, _ := newTestGraph()
	g.AddEdge("r:1", "a.esp", "b.esp")
	g.AddEdge("r:2", "b.esp", "c.esp")
	g.AddEdge("r:3", "a.esp", "c.esp")

	order, err := g.Sort()
	if err != nil {
		t.Fatalf("Sort returned error: %v", err)
	}
	if indexOf(order, "a.esp") >= indexOf(order, "b.esp") {
		t.Error("a.esp must precede b.esp")
	}
	if indexOf(order, "b.esp") >= indexOf(order, "c.esp") {
		t.Error("b.esp must precede c.esp")
	}
}

func TestSort_NoEdgesPreservesInsertionOrder(t *testing.T) {
	g, _ := newTestGraph()
	g.EnsureNode("z.esp")
	g.EnsureNode("a.esp")
	g.EnsureNode("m.esp")

	order, err := g.Sort()
	if err != nil {
		t.Fatalf("Sort returned error: %v", err)
	}
	want := []string{"z.esp", "a.esp", "m.esp"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("expected insertion-order tie-break %v, got %v", want, order)
	}
}

func TestSort_NearEndPullsToBottom(t *testing.T) {
	// Scenario S4: active = [a.esp, z.esp, b.esp], rule [NEAREND] z.esp
	g, _ := newTestGraph()
	g.EnsureNode("a.esp")
	g.EnsureNode("z.esp")
	g.EnsureNode("b.esp")
	g.AddNearEnd("z.esp")
	g.ReverseNearEnd()

	order, err := g.Sort()
	if err != nil {
		t.Fatalf("Sort returned error: %v", err)
	}
	if order[len(order)-1] != "z.esp" {
		t.Errorf("expected z.esp last, got %v", order)
	}
}

func TestSort_NearStartPullsToTop(t *testing.T) {
	g, _ := newTestGraph()
	g.EnsureNode("a.esp")
	g.EnsureNode("z.esp")
	g.AddNearStart("z.esp")

	order, err := g.Sort()
	if err != nil {
		t.Fatalf("Sort returned error: %v", err)
	}
	if order[0] != "z.esp" {
		t.Errorf("expected z.esp first, got %v", order)
	}
}

func TestSort_AffinityMonotonicity(t *testing.T) {
	// Property 7: if nearstart contains z, and root r can reach z, r
	// appears no later than a root unrelated to either affinity band.
	g, _ := newTestGraph()
	g.AddEdge("r:1", "r1.esp", "z.esp") // r1 is a root, can reach z
	g.EnsureNode("unrelated.esp")       // root, unrelated to any affinity
	g.AddNearStart("z.esp")

	order, err := g.Sort()
	if err != nil {
		t.Fatalf("Sort returned error: %v", err)
	}
	if indexOf(order, "r1.esp") >= indexOf(order, "unrelated.esp") {
		t.Errorf("expected r1.esp (reaches nearstart) before unrelated.esp, got %v", order)
	}
}

func TestSort_RootReachingBothBandsPrefersNearStart(t *testing.T) {
	// Open question from spec.md §9: a root reaching both nearstart and
	// nearend is claimed by nearstart, since top_roots is extracted first.
	g, _ := newTestGraph()
	g.AddEdge("r:1", "root.esp", "start-target.esp")
	g.AddEdge("r:2", "root.esp", "end-target.esp")
	g.AddNearStart("start-target.esp")
	g.AddNearEnd("end-target.esp")

	order, err := g.Sort()
	if err != nil {
		t.Fatalf("Sort returned error: %v", err)
	}
	if order[0] != "root.esp" {
		t.Errorf("expected root.esp pulled to the top band, got %v", order)
	}
}

func TestSort_CycleFreeInvariant(t *testing.T) {
	// Property 2: after any sequence of AddEdge calls (including
	// rejected ones), a sort completes with no leftover nodes.
	g, _ := newTestGraph()
	g.AddEdge("r:1", "a.esp", "b.esp")
	g.AddEdge("r:2", "b.esp", "c.esp")
	g.AddEdge("r:3", "c.esp", "a.esp") // rejected: would close a cycle

	order, err := g.Sort()
	if err != nil {
		t.Fatalf("Sort returned error: %v", err)
	}
	if len(order) != 3 {
		t.Errorf("expected all 3 nodes in output, got %v", order)
	}
}
