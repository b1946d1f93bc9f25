package gamedir

import (
	"os"
	"time"
)

// Morrowind- and Oblivion-era baseline mtimes, used as the first
// timestamp in a rewritten load order: mlox.py's update_mod_times uses
// the literal release-era mtime of each game's own master file as a
// floor, so a freshly computed order never predates the game itself.
const (
	MtimeFirstMorrowind = 1026943162 // Morrowind.esm
	MtimeFirstOblivion  = 1165600070 // Oblivion.esm

	// sanityFloor guards against a system clock reading earlier than
	// this; mlox.py hardcodes the same kind of floor (a fixed date
	// well after either game shipped).
	sanityFloor = 1228683562 // 2008-12-07
)

// OrderWriter rewrites plugin file modification times so that the
// file system's natural mtime order matches a computed load order,
// strictly monotonically increasing (spec.md §6 "Load-order writer").
// Grounded in mlox.py's update_mod_times.
type OrderWriter struct {
	dir        *CaselessDir
	mtimeFirst int64
	now        func() time.Time
}

// NewOrderWriter builds an OrderWriter over dir, anchored at
// mtimeFirst (one of the MtimeFirst* constants, or any caller-chosen
// baseline).
func NewOrderWriter(dir *CaselessDir, mtimeFirst int64) *OrderWriter {
	return &OrderWriter{dir: dir, mtimeFirst: mtimeFirst, now: time.Now}
}

// Commit rewrites the mtimes of order's plugins (truenames, already in
// the desired final sequence) so they load in that order. A single-
// element order is a no-op: there's nothing to space out.
func (w *OrderWriter) Commit(order []string) error {
	if len(order) < 2 {
		return nil
	}

	last := w.now().Unix()
	if last < sanityFloor {
		last = sanityFloor
	}
	increment := (last - w.mtimeFirst) / int64(len(order))

	mtime := w.mtimeFirst
	for _, name := range order {
		path, ok := w.dir.FindPath(name)
		if !ok {
			mtime += increment
			continue
		}
		t := time.Unix(mtime, 0)
		if err := os.Chtimes(path, t, t); err != nil {
			return err
		}
		mtime += increment
	}
	return nil
}
