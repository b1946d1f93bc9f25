package activeset

import "testing"

func TestNew_DeduplicatesKeepingFirstPosition(t *testing.T) {
	s := New([]string{"a.esp", "b.esp", "a.esp"})
	if s.Len() != 2 {
		t.Fatalf("expected 2 distinct names, got %d", s.Len())
	}
	if s.Index("a.esp") != 0 {
		t.Errorf("expected a.esp to keep its first position, got %d", s.Index("a.esp"))
	}
}

func TestContains(t *testing.T) {
	s := New([]string{"a.esp"})
	if !s.Contains("a.esp") {
		t.Error("expected a.esp to be active")
	}
	if s.Contains("b.esp") {
		t.Error("did not expect b.esp to be active")
	}
}

func TestNames_ReturnsACopy(t *testing.T) {
	s := New([]string{"a.esp", "b.esp"})
	names := s.Names()
	names[0] = "mutated"
	if s.Names()[0] != "a.esp" {
		t.Error("Names should return a defensive copy")
	}
}

func TestIndex_UnknownIsNegativeOne(t *testing.T) {
	s := New([]string{"a.esp"})
	if s.Index("z.esp") != -1 {
		t.Error("expected -1 for an inactive name")
	}
}
