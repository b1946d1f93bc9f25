// Package activeset holds the set of canonical plugin names currently
// active in the game's data directory (spec.md §3 "Active set"). It is
// deliberately tiny and dependency-free: both internal/ruleparser and
// internal/driver need to ask "is this plugin active" and "what's
// active, in order" without importing each other.
package activeset

// Set is a read-only, ordered collection of canonical plugin names.
// Order matters: it is the mtime-sorted current load order the driver
// discovered (spec.md §6 "Active-plugin source"), and Names and Index
// report names and positions in that order.
type Set struct {
	names []string
	index map[string]int
}

// New builds a Set from cnames, in the given order. Duplicates keep
// their first occurrence's position.
func New(cnames []string) *Set {
	s := &Set{index: make(map[string]int, len(cnames))}
	for _, n := range cnames {
		if _, ok := s.index[n]; ok {
			continue
		}
		s.index[n] = len(s.names)
		s.names = append(s.names, n)
	}
	return s
}

// Contains reports whether cname is active.
func (s *Set) Contains(cname string) bool {
	_, ok := s.index[cname]
	return ok
}

// Names returns every active canonical name, in load order.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of active plugins.
func (s *Set) Len() int {
	return len(s.names)
}

// Index returns cname's position in the current load order, or -1 if
// it is not active.
func (s *Set) Index(cname string) int {
	if i, ok := s.index[cname]; ok {
		return i
	}
	return -1
}
