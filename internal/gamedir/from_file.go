package gamedir

import (
	"bufio"
	"os"
	"regexp"

	"github.com/mlox-tools/mlox/internal/canon"
)

// reSloppyPlugin matches a plugin name out of lines in the assorted
// formats other tools emit a load order list in: Morrowind.ini's
// "GameFile0=", Wrye Mash's "*000*", or a bare numbered listing,
// mirroring mlox.py's re_sloppy_plugin exactly.
var reSloppyPlugin = regexp.MustCompile(`(?i)^(?:[_*]\d{3}[_*]\s+|GameFile\d+=|\d{1,3} {1,2}|Plugin\d+\s*=\s*)?(.+\.es[mp])\b`)

// FromFileSource reads a load order from an arbitrary text file
// instead of the game installation, for the -f/--fromfile CLI flag
// (spec.md §6). Grounded in mlox.py's read_from_file.
type FromFileSource struct {
	path string
}

// NewFromFileSource builds a FromFileSource reading from path.
func NewFromFileSource(path string) *FromFileSource {
	return &FromFileSource{path: path}
}

// Load canonicalizes every plugin-looking line in the file, in order.
func (s *FromFileSource) Load(reg *canon.Registry) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cnames []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := reSloppyPlugin.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		cnames = append(cnames, reg.Canonical(m[1]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cnames, nil
}
