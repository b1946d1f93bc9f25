package ruleparser

import (
	"sort"

	"github.com/gobwas/glob"

	"github.com/mlox-tools/mlox/internal/activeset"
)

// hasWildcard reports whether a canonical plugin token contains glob
// metacharacters (spec.md §4.2 "Wildcard expansion").
func hasWildcard(cname string) bool {
	return rePluginMeta.MatchString(cname)
}

// expandWildcard compiles pattern (already lowercased by canonicalization,
// so it composes directly as a glob pattern) and returns every active
// plugin it matches, sorted lexicographically: property 9 requires the
// *first lexicographic* match become the current token, with the rest
// pushed back for the caller to consume as subsequent tokens.
func expandWildcard(pattern string, active *activeset.Set) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, err
	}
	var matches []string
	for _, n := range active.Names() {
		if g.Match(n) {
			matches = append(matches, n)
		}
	}
	sort.Strings(matches)
	return matches, nil
}
