package driver

import (
	"strings"

	"github.com/samber/lo"

	"github.com/mlox-tools/mlox/internal/activeset"
)

// intersectAndSplit reduces sorted (the graph's full topological
// order, a superset that may include plugins only ever mentioned in a
// rule, never installed) down to the plugins that are actually active,
// then splits that sequence into masters-first/plugins-second while
// preserving each group's relative order (spec.md §4.5 and §3 "Plugin
// kind").
func intersectAndSplit(sorted []string, active *activeset.Set) []string {
	present := lo.Filter(sorted, func(cname string, _ int) bool {
		return active.Contains(cname)
	})
	masters := lo.Filter(present, func(cname string, _ int) bool {
		return isMaster(cname)
	})
	plugins := lo.Filter(present, func(cname string, _ int) bool {
		return isPlugin(cname)
	})
	return append(masters, plugins...)
}

func isMaster(cname string) bool { return strings.HasSuffix(cname, ".esm") }
func isPlugin(cname string) bool { return strings.HasSuffix(cname, ".esp") }
