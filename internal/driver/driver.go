// Package driver composes the name canonicalizer, rule parser,
// constraint graph, and topological sorter into the end-to-end
// load-order computation of spec.md §4.6: acquire the active plugin
// list, parse the user and base rule files, inject the current order
// as pseudo-edges, sort, intersect with what's actually installed, and
// report the diff against the input order.
package driver

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/mlox-tools/mlox/internal/activeset"
	"github.com/mlox-tools/mlox/internal/canon"
	"github.com/mlox-tools/mlox/internal/diagnostics"
	"github.com/mlox-tools/mlox/internal/ordergraph"
	"github.com/mlox-tools/mlox/internal/ordergraph/export"
	"github.com/mlox-tools/mlox/internal/ruleparser"
)

// ActiveSource acquires the active plugin list (spec.md §6
// "Active-plugin source"), canonicalizing each discovered name against
// reg as it goes so truenames reflect real on-disk spellings.
type ActiveSource interface {
	Load(reg *canon.Registry) ([]string, error)
}

// OrderWriter commits a computed load order to disk (spec.md §6
// "Load-order writer"). order is truenames, in final sequence.
type OrderWriter interface {
	Commit(order []string) error
}

// Driver orchestrates one end-to-end load-order run. Its
// collaborators are supplied by the caller (internal/gamedir's real
// implementations in production, fakes in tests), keeping the driver
// itself filesystem-agnostic.
type Driver struct {
	active ActiveSource
	desc   ruleparser.DescriptionReader
	writer OrderWriter

	userRulePath string
	baseRulePath string

	quiet      bool
	debug      logr.Logger
	parseDebug logr.Logger
	explain    string
}

// New builds a Driver. userRulePath and baseRulePath are the rule
// files to parse; a missing user rule file is tolerated, a missing
// base rule file is fatal (spec.md §4.6 steps 3-4).
func New(active ActiveSource, desc ruleparser.DescriptionReader, writer OrderWriter, userRulePath, baseRulePath string) *Driver {
	return &Driver{
		active:       active,
		desc:         desc,
		writer:       writer,
		userRulePath: userRulePath,
		baseRulePath: baseRulePath,
		debug:        logr.Discard(),
		parseDebug:   logr.Discard(),
	}
}

// WithQuiet suppresses NOTE diagnostics (-q/--quiet).
func (d *Driver) WithQuiet(quiet bool) *Driver {
	d.quiet = quiet
	return d
}

// WithDebug sets the channel AddEdge/Sort debug traces go to
// (-d/--debug).
func (d *Driver) WithDebug(l logr.Logger) *Driver {
	d.debug = l
	return d
}

// WithParseDebug sets the channel the rule parser's trace goes to
// (-p/--parsedebug).
func (d *Driver) WithParseDebug(l logr.Logger) *Driver {
	d.parseDebug = l
	return d
}

// WithExplain requests that Run also populate Result.Explain with
// name's transitive successors (-e/--explain NAME).
func (d *Driver) WithExplain(name string) *Driver {
	d.explain = name
	return d
}

// Run executes one full load-order computation and returns its
// Result. It does not write anything to disk; call Commit on the
// returned Result to do that.
func (d *Driver) Run() (*Result, error) {
	reg := canon.New()
	msg := diagnostics.NewSink()

	cnames, err := d.active.Load(reg)
	if err != nil {
		return nil, fmt.Errorf("acquiring active plugin list: %w", err)
	}
	if len(cnames) == 0 {
		return nil, diagnostics.MissingActiveSource("no active plugins found")
	}
	active := activeset.New(cnames)

	graph := ordergraph.New(msg, d.debug)
	parser := ruleparser.New(active, reg, graph, d.desc, msg, d.parseDebug, d.quiet)

	if !parser.ReadRules(d.userRulePath) {
		msg.Add("user rule file not found: %s", d.userRulePath)
	}
	if !parser.ReadRules(d.baseRulePath) {
		return nil, diagnostics.MissingRuleFile(d.baseRulePath, nil)
	}

	addCurrentOrder(graph, cnames)

	// Sort retires every node's edges, so read the graph before it runs.
	edges := graph.Edges()
	var explained []string
	if d.explain != "" {
		seen := map[string]bool{}
		for queue := graph.Successors(reg.Canonical(d.explain)); len(queue) > 0; queue = queue[1:] {
			if c := queue[0]; !seen[c] {
				seen[c] = true
				explained = append(explained, c)
				queue = append(queue, graph.Successors(c)...)
			}
		}
	}

	sorted, err := graph.Sort()
	if err != nil {
		return nil, err
	}

	final := intersectAndSplit(sorted, active)

	alreadySorted := sameOrder(cnames, final)
	if alreadySorted {
		msg.Add("already sorted")
	}

	result := &Result{
		writer:        d.writer,
		Original:      truenamesOf(reg, cnames),
		Computed:      truenamesOf(reg, final),
		Messages:      msg.Lines(),
		Edges:         truenameEdges(reg, edges),
		AlreadySorted: alreadySorted,
	}
	result.Moved = computeMoves(cnames, final, reg)

	if d.explain != "" {
		result.Explain = truenamesOf(reg, explained)
	}

	return result, nil
}

// sameOrder reports whether a and b contain the same names in the
// same order (spec.md §7: "if the computed order equals the input
// order, the tool reports 'already sorted' and refuses to commit").
func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, name := range a {
		if b[i] != name {
			return false
		}
	}
	return true
}

func truenamesOf(reg *canon.Registry, cnames []string) []string {
	out := make([]string, len(cnames))
	for i, c := range cnames {
		out[i] = reg.MustTrueName(c)
	}
	return out
}

func truenameEdges(reg *canon.Registry, edges []ordergraph.Edge) []export.Edge {
	out := make([]export.Edge, len(edges))
	for i, e := range edges {
		out[i] = export.Edge{From: reg.MustTrueName(e.From), To: reg.MustTrueName(e.To)}
	}
	return out
}
