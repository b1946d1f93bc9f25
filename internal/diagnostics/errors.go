// Package diagnostics holds the process-wide-for-one-run pieces that
// mlox.py bundled into module-level globals (Msg/Stats/Old/New/Dbg/
// ParseDbg loggers and ad hoc error strings): ordered message buffers,
// leveled debug channels, and the error kinds of spec.md §7. They are
// reshaped here as explicit values threaded through the parser,
// evaluator, and driver rather than package-level state.
package diagnostics

import (
	"github.com/samber/oops"
)

// Error kind codes, used as the oops "code" field so callers can
// distinguish kinds with errors.As / oops.AsOops without a bespoke
// error type per kind.
const (
	CodeRuleParseError      = "rule_parse_error"
	CodeCycleRejected       = "cycle_rejected"
	CodeMissingRuleFile     = "missing_rule_file"
	CodeMissingActiveSource = "missing_active_source"
	CodeInvariantViolation  = "invariant_violation"
)

// RuleParseError reports a malformed rule, reported with file:line and
// a short reason. This error is recorded, not fatal: the parser drops
// the rest of the offending line and carries on with the next one. The
// rule in progress is not abandoned: an ORDER-style rule keeps reading
// entries, and a predicate rule is evaluated with the expressions parsed
// before the error.
func RuleParseError(file string, line int, reason string) error {
	return oops.
		Code(CodeRuleParseError).
		With("file", file).
		With("line", line).
		Errorf("%s:%d: %s", file, line, reason)
}

// CycleRejected reports an ordering edge that would close a cycle.
// Callers decide whether this is user-visible (a rule-file edge) or
// silently dropped (a pseudo-edge from the current load order) — see
// internal/ordergraph.Graph.AddEdge.
func CycleRejected(origin, from, to string) error {
	return oops.
		Code(CodeCycleRejected).
		With("from", from).
		With("to", to).
		With("origin", origin).
		Errorf("cycle detected, not adding: %q -> %q", from, to)
}

// MissingRuleFile reports that the base rule file could not be
// opened. Fatal to the run.
func MissingRuleFile(path string, cause error) error {
	b := oops.
		Code(CodeMissingRuleFile).
		With("path", path)
	if cause == nil {
		return b.Errorf("unable to open base rule file %q", path)
	}
	return b.Wrapf(cause, "unable to open base rule file %q", path)
}

// MissingActiveSource reports that no active plugin list could be
// found and no file fallback was supplied. Fatal to the run.
func MissingActiveSource(reason string) error {
	return oops.
		Code(CodeMissingActiveSource).
		Errorf("no active plugin list available: %s", reason)
}

// InvariantViolation reports a bug: a sort left nodes over, or a
// truename was requested for an un-canonicalized key. The run aborts.
func InvariantViolation(what string) error {
	return oops.
		Code(CodeInvariantViolation).
		Errorf("invariant violation: %s", what)
}

// Code returns the oops code attached to err, or "" if err was not
// produced by one of the constructors above.
func Code(err error) string {
	if oerr, ok := oops.AsOops(err); ok {
		return oerr.Code()
	}
	return ""
}
