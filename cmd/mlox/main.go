// Command mlox computes a load order for a directory of Elder
// Scrolls game plugins from a set of ordering rules, following the
// CLI contract of spec.md §6.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlox-tools/mlox/internal/config"
	"github.com/mlox-tools/mlox/internal/diagnostics"
	"github.com/mlox-tools/mlox/internal/driver"
	"github.com/mlox-tools/mlox/internal/gamedir"
	"github.com/mlox-tools/mlox/internal/ordergraph/export"
	"github.com/mlox-tools/mlox/internal/output"
)

// Version is set during build via ldflags.
var Version = "dev"

// Persisted-output filenames (spec.md §6 "Persisted outputs"), matching
// mlox.py's old_loadorder_output/new_loadorder_output.
const (
	currentLoadOrderFile = "current_loadorder.out"
	newLoadOrderFile     = "mlox_new_loadorder.out"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 success, 1 precondition
// failure (environment), 2 CLI misuse.
func run() int {
	fs := flag.NewFlagSet("mlox", flag.ContinueOnError)

	var (
		all          bool
		check        bool
		debug        bool
		explain      string
		fromfile     string
		parsedebug   bool
		quiet        bool
		update       bool
		warningsonly bool
		version      bool
		exportGraph  string
		tui          bool
	)
	fs.BoolVar(&all, "all", false, "source set = all plugins in data directory, not just active")
	fs.BoolVar(&all, "a", false, "shorthand for --all")
	fs.BoolVar(&check, "check", false, "compute and report only; do not commit")
	fs.BoolVar(&check, "c", false, "shorthand for --check")
	fs.BoolVar(&debug, "debug", false, "emit debug trace")
	fs.BoolVar(&debug, "d", false, "shorthand for --debug")
	fs.StringVar(&explain, "explain", "", "print the transitive successors of NAME in the constraint graph")
	fs.StringVar(&explain, "e", "", "shorthand for --explain")
	fs.StringVar(&fromfile, "fromfile", "", "read the active set from FILE rather than the game")
	fs.StringVar(&fromfile, "f", "", "shorthand for --fromfile")
	fs.BoolVar(&parsedebug, "parsedebug", false, "emit parser trace")
	fs.BoolVar(&parsedebug, "p", false, "shorthand for --parsedebug")
	fs.BoolVar(&quiet, "quiet", false, "suppress NOTE diagnostics")
	fs.BoolVar(&quiet, "q", false, "shorthand for --quiet")
	fs.BoolVar(&update, "update", false, "commit the computed order")
	fs.BoolVar(&update, "u", false, "shorthand for --update")
	fs.BoolVar(&warningsonly, "warningsonly", false, "suppress the proposed order listing")
	fs.BoolVar(&warningsonly, "w", false, "shorthand for --warningsonly")
	fs.BoolVar(&version, "version", false, "print version and exit")
	fs.BoolVar(&version, "v", false, "shorthand for --version")
	fs.StringVar(&exportGraph, "export-graph", "", "export the accepted constraint graph: dot, mermaid")
	fs.BoolVar(&tui, "tui", false, "launch the interactive load-order viewer")

	fs.Usage = printHelp

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if version {
		fmt.Printf("mlox version %s\n", Version)
		return 0
	}

	dataDir := "."
	if fs.NArg() > 0 {
		dataDir = fs.Arg(0)
	}

	cfg, err := config.Load(filepath.Join(dataDir, ".mlox.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	if fs.NArg() == 0 && cfg.DataDir != "" {
		dataDir = cfg.DataDir
	}
	if quiet {
		cfg.Quiet = true
	}
	if debug {
		cfg.Debug = true
	}

	dir, err := gamedir.NewCaselessDir(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening data directory %s: %v\n", dataDir, err)
		return 1
	}

	var active driver.ActiveSource
	if fromfile != "" {
		active = gamedir.NewFromFileSource(fromfile)
	} else {
		// Without a real game configuration reader (out of scope here;
		// see spec's Non-goals), every run sources the same candidate
		// set gamedir.ActiveSource discovers: all plugins physically
		// present in dataDir. --all is accepted for CLI-contract
		// compatibility but has no additional effect.
		_ = all
		active = gamedir.NewActiveSource(dir)
	}

	desc := gamedir.NewDescriptionReader(dir)
	writer := gamedir.NewOrderWriter(dir, gamedir.MtimeFirstMorrowind)

	userRulePath := filepath.Join(dataDir, cfg.EffectiveUserRuleFile())
	baseRulePath := filepath.Join(dataDir, cfg.EffectiveBaseRuleFile())

	channels := diagnostics.NewChannels(os.Stderr, cfg.Debug, parsedebug)
	d := driver.New(active, desc, writer, userRulePath, baseRulePath).
		WithQuiet(cfg.Quiet).
		WithDebug(channels.Debug).
		WithParseDebug(channels.Parse)
	if explain != "" {
		d = d.WithExplain(explain)
	}

	result, err := d.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if exportGraph != "" {
		switch exportGraph {
		case "dot":
			fmt.Print(export.DOT(result.Edges))
		case "mermaid":
			fmt.Print(export.Mermaid(result.Edges))
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown export format: %s (supported: dot, mermaid)\n", exportGraph)
			return 2
		}
		return 0
	}

	if tui {
		return runTUI(result)
	}

	formatter := &output.TextFormatter{WarningsOnly: warningsonly}
	formatted, err := formatter.Format(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: formatting result: %v\n", err)
		return 1
	}
	fmt.Print(formatted)

	if err := output.WriteOrderListing(filepath.Join(dataDir, currentLoadOrderFile), result.Original); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", currentLoadOrderFile, err)
		return 1
	}
	if err := output.WriteOrderListing(filepath.Join(dataDir, newLoadOrderFile), result.Computed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", newLoadOrderFile, err)
		return 1
	}

	if update && !check {
		if err := result.Commit(); err != nil && !errors.Is(err, driver.ErrAlreadySorted) {
			fmt.Fprintf(os.Stderr, "Error: committing load order: %v\n", err)
			return 1
		}
	}

	return 0
}

func printHelp() {
	fmt.Fprint(os.Stderr, `mlox - load order expert for Elder Scrolls game plugins

Usage:
  mlox [options] [data-dir]

Options:
  -a, --all             source set = all plugins in data directory, not just active
  -c, --check           compute and report only; do not commit
  -d, --debug           emit debug trace
  -e, --explain NAME    print the transitive successors of NAME in the constraint graph
  -f, --fromfile FILE   read the active set from FILE rather than the game
  -p, --parsedebug      emit parser trace
  -q, --quiet           suppress NOTE diagnostics
  -u, --update          commit the computed order
  -w, --warningsonly    suppress the proposed order listing
  -v, --version         print version and exit
  -h, --help            print this help and exit
      --export-graph FMT  export the accepted constraint graph: dot, mermaid
      --tui             launch the interactive load-order viewer

Exit codes: 0 success, 1 precondition failure, 2 CLI misuse.
`)
}
