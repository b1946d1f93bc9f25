// Package ruleparser implements the rule language lexer, recursive-
// descent parser, and inline expression evaluator of spec.md §4.2/§4.4:
// ORDER/NEARSTART/NEAREND build constraint-graph edges as they're read,
// while CONFLICT/NOTE/PATCH/REQUIRES build and evaluate boolean
// expression trees against the active set and plugin descriptions.
//
// Evaluation is embedded in parsing rather than deferred: the language
// has no variables and no forward references, so there is nothing to
// gain from building a tree first and walking it later. Every node
// knows its own truth value the moment it's recognized (mirrors
// mlox.py's rule_parser, whose parse_expression returns (bool, tree)
// pairs directly).
package ruleparser

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-logr/logr"

	"github.com/mlox-tools/mlox/internal/activeset"
	"github.com/mlox-tools/mlox/internal/canon"
	"github.com/mlox-tools/mlox/internal/diagnostics"
	"github.com/mlox-tools/mlox/internal/ordergraph"
)

// DescriptionReader fetches a plugin's in-file description field for
// DESC predicates (spec.md §6 "Plugin file description reader"); it is
// a collaborator the driver supplies, since reading the bytes is an
// I/O concern the rule language itself doesn't own.
type DescriptionReader interface {
	Description(cname string) (string, error)
}

// Parser reads one or more rule files into a shared constraint Graph,
// accumulating user-visible diagnostics in msg as it goes. A Parser is
// not safe for concurrent use; create one per load-order run.
type Parser struct {
	active *activeset.Set
	canon  *canon.Registry
	graph  *ordergraph.Graph
	desc   DescriptionReader
	msg    *diagnostics.Sink
	dbg    logr.Logger

	quiet bool

	file    string
	lineNum int
	buffer  string
	scanner *bufio.Scanner
	closer  func() error
}

// New builds a Parser. quiet suppresses NOTE predicates that evaluate
// true, matching the -q/--quiet CLI flag's contract (spec.md §6).
func New(active *activeset.Set, reg *canon.Registry, graph *ordergraph.Graph, desc DescriptionReader, msg *diagnostics.Sink, dbg logr.Logger, quiet bool) *Parser {
	return &Parser{
		active: active,
		canon:  reg,
		graph:  graph,
		desc:   desc,
		msg:    msg,
		dbg:    dbg,
		quiet:  quiet,
	}
}

// ReadRules parses one rule file in full, folding every accepted
// ordering constraint into the shared Graph and every predicate
// message into msg. It returns false if the file could not be opened
// at all; the caller (internal/driver) decides whether a missing file
// is fatal (the base rule file) or tolerated (the user rule file).
func (p *Parser) ReadRules(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}

	p.file = path
	p.lineNum = 0
	p.buffer = ""
	p.scanner = scannerFor(bufio.NewReader(f))
	p.closer = f.Close
	defer func() {
		p.closer()
		p.closer = nil
	}()

	nRules := 0
	for {
		if p.buffer == "" {
			if !p.readLine() {
				break
			}
		}

		m := reRuleHeader.FindStringSubmatchIndex(p.buffer)
		if m == nil {
			p.parseError(fmt.Sprintf("expected start of rule: %s", p.buffer))
			p.buffer = ""
			continue
		}
		nRules++
		keyword := strings.ToUpper(p.buffer[m[2]:m[3]])
		inline := strings.TrimSpace(p.buffer[m[4]:m[5]])
		trailing := strings.TrimSpace(p.buffer[m[6]:m[7]])
		p.buffer = ""

		switch keyword {
		case "ORDER", "NEARSTART", "NEAREND":
			p.parseOrdering(keyword)
		case "CONFLICT", "NOTE", "PATCH", "REQUIRES":
			p.parsePredicate(keyword, inline, trailing)
		}
	}

	p.graph.ReverseNearEnd()
	p.dbg.V(1).Info("finished rule file", "path", path, "rules", nRules)
	return true
}

func (p *Parser) where() string {
	return fmt.Sprintf("%s:%d", p.file, p.lineNum)
}

func (p *Parser) parseError(reason string) {
	err := diagnostics.RuleParseError(p.file, p.lineNum, reason)
	p.msg.Add("Warning: %s", err.Error())
}

// parsePluginName consumes one plugin filename token from the head of
// p.buffer, canonicalizes it, and expands it if it carries glob
// metacharacters. ok is false when the buffer doesn't start with a
// recognizable plugin token at all (a parse error, already recorded).
func (p *Parser) parsePluginName() (cname string, exists bool, ok bool) {
	buf := strings.TrimLeft(p.buffer, " \t")
	m := rePlugin.FindStringSubmatchIndex(buf)
	if m == nil {
		p.parseError(fmt.Sprintf("expected plugin name: %s", buf))
		p.buffer = ""
		return "", false, false
	}
	name := buf[m[2]:m[3]]
	rest := strings.TrimLeft(buf[m[5]:], " \t")

	cname = p.canon.Canonical(name)
	if hasWildcard(cname) {
		matches, err := expandWildcard(cname, p.active)
		if err != nil {
			p.parseError(fmt.Sprintf("invalid wildcard %q: %v", cname, err))
			p.buffer = rest
			return "", false, false
		}
		if len(matches) > 0 {
			cname = matches[0]
			if len(matches) > 1 {
				rest = strings.Join(matches[1:], " ") + " " + rest
			}
		}
	}
	p.buffer = rest
	return cname, p.active.Contains(cname), true
}

// parseOrdering handles ORDER/NEARSTART/NEAREND bodies: one plugin
// token at a time, reading further lines only once the current buffer
// (including any wildcard-expanded remainder) is exhausted, until the
// next rule header or end of file. This lets a wildcarded ORDER entry
// that expands to several plugins chain them as consecutive edges
// (spec.md §9 "Wildcard expansion side effect"), rather than losing
// the pushed-back remainder to the next readLine the way a literal,
// unconditional per-line read would.
func (p *Parser) parseOrdering(rule string) {
	prev := ""
	nOrder := 0

	for {
		if p.buffer == "" {
			if !p.readLine() {
				break
			}
		}
		if reRuleHeader.MatchString(p.buffer) {
			break
		}

		cname, _, ok := p.parsePluginName()
		if !ok {
			continue
		}
		nOrder++

		switch rule {
		case "ORDER":
			if prev != "" {
				p.graph.AddEdge(p.where(), prev, cname)
			}
			prev = cname
		case "NEARSTART":
			p.graph.AddNearStart(cname)
		case "NEAREND":
			p.graph.AddNearEnd(cname)
		}
	}

	if rule == "ORDER" {
		switch nOrder {
		case 0:
			p.msg.Add("Warning: %s: [ORDER] rule has no plugin entries", p.file)
		case 1:
			p.msg.Add("Warning: %s: [ORDER] rule skipped, only one plugin listed: %s", p.file, prev)
		}
	}
}

// parsePredicate handles CONFLICT/NOTE/PATCH/REQUIRES bodies. inline
// is the text between the keyword and the closing bracket (used as the
// message when present); trailing is the text after the bracket on the
// same line (used as the start of the expression list when present).
func (p *Parser) parsePredicate(rule, inline, trailing string) {
	var message []string
	expr := trailing
	if inline == "" {
		if expr == "" {
			message = p.parseMessageBlock()
			expr = p.buffer
		}
	} else {
		message = []string{inline}
	}

	if expr == "" {
		if !p.readLine() {
			return
		}
	} else {
		p.buffer = expr
	}

	msg := ""
	if len(message) > 0 {
		msg = " |" + strings.Join(message, "\n |")
	}

	var exprs []Expr
	var vals []bool
	for {
		res := p.parseExpression()
		if res == nil {
			break
		}
		exprs = append(exprs, res.Tree)
		vals = append(vals, res.Truth)
	}

	switch rule {
	case "CONFLICT":
		p.reportConflict(exprs, vals, msg)
	case "NOTE":
		p.reportNote(exprs, vals, msg)
	case "PATCH":
		p.reportPatch(exprs, vals, msg)
	case "REQUIRES":
		p.reportRequires(exprs, vals, msg)
	}
}

// parseMessageBlock collects continuation lines (those starting with
// whitespace) into an inline message, stopping at and leaving
// unconsumed the first non-indented line, which becomes the start of
// the following expression list.
func (p *Parser) parseMessageBlock() []string {
	var lines []string
	for p.readLine() {
		if reMessageLine.MatchString(p.buffer) {
			lines = append(lines, strings.TrimSpace(p.buffer))
			continue
		}
		return lines
	}
	return lines
}

func (p *Parser) reportConflict(exprs []Expr, vals []bool, msg string) {
	var trueExprs []Expr
	for i, v := range vals {
		if v {
			trueExprs = append(trueExprs, exprs[i])
		}
	}
	if len(trueExprs) <= 1 {
		return
	}
	p.msg.Add("[CONFLICT]\n%s%s", prettyList(trueExprs), msg)
}

func (p *Parser) reportNote(exprs []Expr, vals []bool, msg string) {
	if p.quiet {
		return
	}
	var trueExprs []Expr
	for i, v := range vals {
		if v {
			trueExprs = append(trueExprs, exprs[i])
		}
	}
	if len(trueExprs) == 0 {
		return
	}
	p.msg.Add("[NOTE]\n%s%s", prettyList(trueExprs), msg)
}

// reportPatch emits "A is missing some pre-requisites: B" when A is
// present but B isn't, or "A for: B" when B is present but A isn't
// (spec.md §4.2 PATCH body). Both A and B are rendered with Pretty("")
// so a bare plugin reads as its truename and a missing one reads as
// MISSING(truename).
func (p *Parser) reportPatch(exprs []Expr, vals []bool, msg string) {
	if len(exprs) != 2 {
		p.parseError("[PATCH] requires exactly two expressions")
		return
	}
	a, b := exprs[0].Pretty(""), exprs[1].Pretty("")
	switch {
	case vals[0] && !vals[1]:
		p.msg.Add("[PATCH] %s is missing some pre-requisites: %s%s", a, b, msg)
	case vals[1] && !vals[0]:
		p.msg.Add("[PATCH] %s for: %s%s", a, b, msg)
	}
}

// reportRequires emits "A Requires: B" when A is present but B isn't.
// Fewer than two expressions is a parse error, not a silent skip.
func (p *Parser) reportRequires(exprs []Expr, vals []bool, msg string) {
	if len(exprs) != 2 {
		p.parseError("[REQUIRES] requires exactly two expressions")
		return
	}
	if vals[0] && !vals[1] {
		p.msg.Add("[REQUIRES] %s Requires: %s%s", exprs[0].Pretty(""), exprs[1].Pretty(""), msg)
	}
}

func prettyList(exprs []Expr) string {
	lines := make([]string, len(exprs))
	for i, e := range exprs {
		lines[i] = e.Pretty("  ")
	}
	return strings.Join(lines, "\n")
}

// evalResult is a parsed expression together with the truth value it
// evaluated to. A nil *evalResult means "no more expressions here":
// either the rule file ended, or the next rule header was reached.
type evalResult struct {
	Truth bool
	Tree  Expr
}

// parseExpression recognizes and evaluates exactly one expression:
// a plugin reference, or a parenthesized ALL/ANY/NOT/DESC function.
func (p *Parser) parseExpression() *evalResult {
	p.buffer = strings.TrimSpace(p.buffer)
	if p.buffer == "" {
		if !p.readLine() {
			return nil
		}
	}
	if reRuleHeader.MatchString(p.buffer) {
		return nil
	}

	if m := reStartFun.FindStringSubmatchIndex(p.buffer); m != nil {
		fun := strings.ToUpper(p.buffer[m[2]:m[3]])
		if fun == "DESC" {
			return p.parseDesc()
		}
		return p.parseBoolFun(fun, p.buffer[m[1]:])
	}

	cname, exists, ok := p.parsePluginName()
	if !ok {
		return nil
	}
	return &evalResult{Truth: exists, Tree: &PluginExpr{Truename: p.canon.MustTrueName(cname), Missing: !exists}}
}

func (p *Parser) parseDesc() *evalResult {
	dm := reDesc.FindStringSubmatchIndex(p.buffer)
	if dm == nil {
		p.parseError(fmt.Sprintf("invalid [DESC] expression: %s", p.buffer))
		p.buffer = ""
		return nil
	}
	pattern := p.buffer[dm[2]:dm[3]]
	pluginText := strings.TrimSpace(p.buffer[dm[4]:dm[5]])
	p.buffer = p.buffer[dm[1]:]

	cname := p.canon.Canonical(pluginText)
	node := &DescExpr{Pattern: pattern, Plugin: p.canon.MustTrueName(cname)}

	if !p.active.Contains(cname) {
		return &evalResult{Truth: false, Tree: node}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		p.parseError(fmt.Sprintf("invalid [DESC] pattern %q: %v", pattern, err))
		return &evalResult{Truth: false, Tree: node}
	}

	desc, err := p.desc.Description(cname)
	if err != nil {
		p.dbg.V(1).Info("description read failed, treating as no match", "plugin", cname, "error", err)
		return &evalResult{Truth: false, Tree: node}
	}
	return &evalResult{Truth: re.MatchString(desc), Tree: node}
}

func (p *Parser) parseBoolFun(fun, rest string) *evalResult {
	p.buffer = rest
	var children []Expr
	var vals []bool
	for {
		if p.buffer == "" {
			if !p.readLine() {
				p.parseError(fmt.Sprintf("unterminated [%s] expression", fun))
				break
			}
		}
		if reEndFun.MatchString(p.buffer) {
			break
		}
		res := p.parseExpression()
		if res == nil {
			p.parseError(fmt.Sprintf("unterminated [%s] expression", fun))
			break
		}
		children = append(children, res.Tree)
		vals = append(vals, res.Truth)
	}
	if em := reEndFun.FindStringIndex(p.buffer); em != nil {
		p.buffer = p.buffer[em[1]:]
	}

	var truth bool
	var node Expr
	switch fun {
	case "ALL":
		truth = allTrue(vals)
		node = &AllExpr{Children: children}
	case "ANY":
		truth = anyTrue(vals)
		node = &AnyExpr{Children: children}
	case "NOT":
		truth = !allTrue(vals)
		node = &NotExpr{Children: children}
	}
	return &evalResult{Truth: truth, Tree: node}
}
