package gamedir

import (
	"os"
	"sort"

	"github.com/mlox-tools/mlox/internal/canon"
)

// ActiveSource discovers the active plugin list by scanning a
// directory, mtime-sorting separately within masters and plugins, and
// canonicalizing each discovered truename. It is the in-scope,
// directory-scan-based active source spec.md §6 leaves as an external
// collaborator contract: it corresponds to mlox.py's get_data_files
// (used for the -a/--all flag), not get_active_plugins (which parses
// Morrowind.ini — an INI-like file read explicitly out of scope per
// spec.md §1).
type ActiveSource struct {
	dir *CaselessDir
}

// NewActiveSource builds an ActiveSource over dir.
func NewActiveSource(dir *CaselessDir) *ActiveSource {
	return &ActiveSource{dir: dir}
}

// Load canonicalizes every master and plugin file in the directory
// (masters sorted by mtime, then plugins sorted by mtime) and returns
// their canonical names in that order — the directory enumeration
// that seeds truenames before any rule file is parsed (spec.md §3).
func (s *ActiveSource) Load(reg *canon.Registry) ([]string, error) {
	var masters, plugins []string
	for _, f := range s.dir.Files() {
		switch {
		case isMaster(f):
			masters = append(masters, f)
		case isPlugin(f):
			plugins = append(plugins, f)
		}
	}

	masters, err := s.sortByModTime(masters)
	if err != nil {
		return nil, err
	}
	plugins, err = s.sortByModTime(plugins)
	if err != nil {
		return nil, err
	}

	cnames := make([]string, 0, len(masters)+len(plugins))
	for _, f := range masters {
		cnames = append(cnames, reg.Canonical(f))
	}
	for _, f := range plugins {
		cnames = append(cnames, reg.Canonical(f))
	}
	return cnames, nil
}

// sortByModTime orders files, oldest first, mirroring mlox.py's
// sort_by_date.
func (s *ActiveSource) sortByModTime(files []string) ([]string, error) {
	type dated struct {
		name  string
		mtime int64
	}
	entries := make([]dated, 0, len(files))
	for _, f := range files {
		path, ok := s.dir.FindPath(f)
		if !ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, dated{name: f, mtime: info.ModTime().UnixNano()})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].mtime < entries[j].mtime })

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out, nil
}
