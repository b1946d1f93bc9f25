package ordergraph

import (
	"testing"

	"github.com/go-logr/logr"

	"github.com/mlox-tools/mlox/internal/diagnostics"
)

func newTestGraph() (*Graph, *diagnostics.Sink) {
	msg := diagnostics.NewSink()
	return New(msg, logr.Discard()), msg
}

func TestEdges_ReturnsAcceptedEdgesOnly(t *testing.T) {
	g, _ := newTestGraph()
	g.AddEdge("rules.txt:1", "a.esp", "b.esp")
	g.AddEdge("rules.txt:2", "b.esp", "a.esp") // rejected, would close a cycle

	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("expected exactly one accepted edge, got %v", edges)
	}
	if edges[0] != (Edge{From: "a.esp", To: "b.esp"}) {
		t.Errorf("expected a.esp -> b.esp, got %v", edges[0])
	}
}

func TestAddEdge_Basic(t *testing.T) {
	g, _ := newTestGraph()

	if !g.AddEdge("rules.txt:1", "a.esp", "b.esp") {
		t.Fatal("expected edge to be accepted")
	}
	if !g.CanReach("a.esp", "b.esp") {
		t.Error("expected a.esp to reach b.esp")
	}
	if g.CanReach("b.esp", "a.esp") {
		t.Error("did not expect b.esp to reach a.esp")
	}
}

func TestAddEdge_Idempotent(t *testing.T) {
	g, _ := newTestGraph()

	g.AddEdge("r:1", "a.esp", "b.esp")
	g.AddEdge("r:2", "a.esp", "b.esp")

	if got := g.Successors("a.esp"); len(got) != 1 {
		t.Errorf("expected exactly one child after duplicate insert, got %v", got)
	}
}

func TestAddEdge_RejectsCycle(t *testing.T) {
	g, msg := newTestGraph()

	g.AddEdge("r:1", "a.esp", "b.esp")
	if g.AddEdge("r:2", "b.esp", "a.esp") {
		t.Fatal("expected the second edge to be rejected as a cycle")
	}
	if g.CanReach("b.esp", "a.esp") {
		t.Error("graph should be unchanged after a rejected edge")
	}
	if len(msg.Lines()) == 0 {
		t.Error("expected a user-visible cycle warning for a named-origin edge")
	}
}

func TestAddEdge_PseudoEdgeCycleIsSilent(t *testing.T) {
	g, msg := newTestGraph()

	g.AddEdge("r:1", "a.esp", "b.esp")
	if g.AddEdge("", "b.esp", "a.esp") {
		t.Fatal("expected the pseudo-edge to be rejected")
	}
	if len(msg.Lines()) != 0 {
		t.Errorf("expected no user-visible message for a pseudo-edge cycle, got %v", msg.Lines())
	}
}

func TestAddEdge_SequenceEquivalence(t *testing.T) {
	// Property 4: add(p,q) then add(q,p) leaves the graph equal to its
	// state after only the first insertion.
	g1, _ := newTestGraph()
	g1.AddEdge("r:1", "p.esp", "q.esp")
	g1.AddEdge("r:2", "q.esp", "p.esp")

	g2, _ := newTestGraph()
	g2.AddEdge("r:1", "p.esp", "q.esp")

	if got, want := g1.Successors("p.esp"), g2.Successors("p.esp"); len(got) != len(want) || got[0] != want[0] {
		t.Errorf("graphs diverged: %v vs %v", got, want)
	}
}

func TestEnsureNode_IsIdempotent(t *testing.T) {
	g, _ := newTestGraph()
	id1 := g.EnsureNode("a.esp")
	id2 := g.EnsureNode("a.esp")
	if id1 != id2 {
		t.Errorf("expected the same node id, got %d and %d", id1, id2)
	}
	if g.NodeCount() != 1 {
		t.Errorf("expected 1 node, got %d", g.NodeCount())
	}
}

func TestNearStartNearEnd_MarksNode(t *testing.T) {
	g, _ := newTestGraph()
	g.AddNearStart("start.esp")
	g.AddNearEnd("end.esp")

	if !g.IsNearStart("start.esp") {
		t.Error("expected start.esp to be marked nearstart")
	}
	if !g.IsNearEnd("end.esp") {
		t.Error("expected end.esp to be marked nearend")
	}
	if g.IsNearEnd("start.esp") || g.IsNearStart("end.esp") {
		t.Error("affinity marks should not cross-contaminate")
	}
	if !g.HasNode("start.esp") || !g.HasNode("end.esp") {
		t.Error("affinity calls should create nodes even with no edges")
	}
}

func TestReverseNearEnd(t *testing.T) {
	g, _ := newTestGraph()
	g.AddNearEnd("a.esp")
	g.AddNearEnd("b.esp")
	g.AddNearEnd("c.esp")
	g.ReverseNearEnd()

	want := []string{"c.esp", "b.esp", "a.esp"}
	for i, w := range want {
		if g.nearEnd[i] != g.index[w] {
			t.Errorf("position %d: expected %s", i, w)
		}
	}
}
