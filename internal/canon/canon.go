// Package canon implements caseless plugin name identity: every plugin
// is keyed by the lowercase form of its filename (the canonical name,
// or "cname"), while the first original-case spelling ever seen is kept
// around for display and filesystem lookups (the "truename").
package canon

import (
	"strings"

	"github.com/samber/oops"
)

// Registry maps canonical (lowercased) plugin names to their truename,
// the first original-case spelling observed for that name.
type Registry struct {
	truenames map[string]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{truenames: make(map[string]string)}
}

// Canonical inserts name under its lowercase key if this is the first
// time it has been seen, and returns that key. Subsequent calls with a
// differently-cased spelling of the same name return the same key and
// do not change the remembered truename.
func (r *Registry) Canonical(name string) string {
	cname := strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, name)
	if _, ok := r.truenames[cname]; !ok {
		r.truenames[cname] = name
	}
	return cname
}

// TrueName returns the first original-case spelling ever canonicalized
// under cname. Looking up a key that was never produced by Canonical is
// a programmer error, not a parse error.
func (r *Registry) TrueName(cname string) (string, error) {
	name, ok := r.truenames[cname]
	if !ok {
		return "", oops.Code("unknown_name").With("cname", cname).
			Errorf("true_name: %q was never canonicalized", cname)
	}
	return name, nil
}

// MustTrueName is TrueName for callers that have already established
// cname came from a prior Canonical call (e.g. iterating the graph's
// own node set) and treat a miss as an invariant violation.
func (r *Registry) MustTrueName(cname string) string {
	name, err := r.TrueName(cname)
	if err != nil {
		panic(err)
	}
	return name
}

// Known reports whether cname has ever been canonicalized.
func (r *Registry) Known(cname string) bool {
	_, ok := r.truenames[cname]
	return ok
}
