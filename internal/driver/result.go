package driver

import (
	"errors"

	"github.com/mlox-tools/mlox/internal/canon"
	"github.com/mlox-tools/mlox/internal/ordergraph/export"
)

// ErrAlreadySorted is returned by Result.Commit when the computed
// order equals the input order (spec.md §7): there is nothing to
// write, and Commit refuses rather than rewriting identical mtimes.
var ErrAlreadySorted = errors.New("computed order already sorted; nothing to commit")

// MoveEntry describes one plugin that moved to an earlier position
// between the original (input) order and the computed order, for the
// move-highlight diff mlox's GUI shows (spec.md §4.6 step 7: only
// up-moves are highlighted, not plugins merely shifted later because
// something ahead of them moved up).
type MoveEntry struct {
	Truename  string
	FromIndex int // 1-based position in the original order
	ToIndex   int // 1-based position in the computed order
}

// Result is the outcome of one Driver.Run: the original order, the
// computed order, any diagnostics collected along the way, and
// (if requested) the explained plugin's transitive successors.
type Result struct {
	writer OrderWriter

	Original      []string      // truenames, input order
	Computed      []string      // truenames, final load order
	Moved         []MoveEntry
	Messages      []string
	Explain       []string      // populated only when Driver.WithExplain was used
	Edges         []export.Edge // the accepted constraint graph, by truename, for --export-graph
	AlreadySorted bool          // Computed equals Original; Commit refuses
}

// Commit persists Computed via the OrderWriter the Driver was built
// with. Calling it twice re-commits the same order. It refuses with
// ErrAlreadySorted when the computed order equals the input order.
func (r *Result) Commit() error {
	if r.AlreadySorted {
		return ErrAlreadySorted
	}
	return r.writer.Commit(r.Computed)
}

func computeMoves(originalCnames, computedCnames []string, reg *canon.Registry) []MoveEntry {
	fromIndex := make(map[string]int, len(originalCnames))
	for i, cname := range originalCnames {
		fromIndex[cname] = i + 1
	}

	var moved []MoveEntry
	for i, cname := range computedCnames {
		toIndex := i + 1
		from, ok := fromIndex[cname]
		if !ok || from <= toIndex {
			continue
		}
		moved = append(moved, MoveEntry{
			Truename:  reg.MustTrueName(cname),
			FromIndex: from,
			ToIndex:   toIndex,
		})
	}
	return moved
}
