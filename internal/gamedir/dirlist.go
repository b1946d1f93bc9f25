// Package gamedir supplies real, file-system-backed implementations of
// the three collaborators spec.md §6 leaves abstract: an active-plugin
// source, a plugin file description reader, and a load-order mtime
// writer. None of this is imported by internal/ruleparser or
// internal/ordergraph — internal/driver wires these in through plain
// interfaces, so the core stays collaborator-agnostic and testable
// with fakes.
//
// Grounded directly in mlox.py (original_source): caseless_dirlist,
// get_active_plugins/get_data_files, plugin_description, and
// update_mod_times.
package gamedir

import (
	"os"
	"path/filepath"
	"strings"
)

// CaselessDir lists a single directory's entries once at construction
// and resolves names against it case-insensitively, mirroring
// mlox.py's caseless_dirlist: "a plugin-directory listing is
// snapshotted once at startup; subsequent renames on disk are not
// observed" (spec.md §5).
type CaselessDir struct {
	path    string
	byLower map[string]string // lowercase name -> actual on-disk name
}

// NewCaselessDir snapshots path's entries.
func NewCaselessDir(path string) (*CaselessDir, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	d := &CaselessDir{path: path, byLower: make(map[string]string, len(entries))}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		d.byLower[strings.ToLower(e.Name())] = e.Name()
	}
	return d, nil
}

// Path returns the directory this lister was built from.
func (d *CaselessDir) Path() string {
	return d.path
}

// FindPath resolves name case-insensitively to its real on-disk
// spelling and returns the full path, or ok=false if it isn't present.
func (d *CaselessDir) FindPath(name string) (path string, ok bool) {
	actual, ok := d.byLower[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return filepath.Join(d.path, actual), true
}

// Files returns every plain file's on-disk (truename) spelling, in no
// particular order (map iteration order, which varies between calls).
func (d *CaselessDir) Files() []string {
	out := make([]string, 0, len(d.byLower))
	for _, actual := range d.byLower {
		out = append(out, actual)
	}
	return out
}

// isMaster/isPlugin classify by extension (spec.md §3 "Plugin kind").
func isMaster(name string) bool { return strings.HasSuffix(strings.ToLower(name), ".esm") }
func isPlugin(name string) bool { return strings.HasSuffix(strings.ToLower(name), ".esp") }
