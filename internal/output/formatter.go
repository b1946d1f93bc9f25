// Package output renders a driver.Result for a human (the console
// report: diagnostics plus the proposed order with moved plugins
// marked) and persists the two plain-text listings spec.md §6 calls
// for: the input order and the computed order, one truename per line.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/mlox-tools/mlox/internal/driver"
)

// Formatter renders a completed load-order run as text.
type Formatter interface {
	Format(result *driver.Result) (string, error)
}

// TextFormatter formats a Result as plain text: every collected
// diagnostic, one per line, followed by the proposed load order with
// moved plugins marked. WarningsOnly suppresses the order listing
// (the -w/--warningsonly CLI contract), leaving only the diagnostics.
type TextFormatter struct {
	WarningsOnly bool
}

// Format renders result. It never returns an error; the return
// signature matches Formatter so a future formatter (e.g. one that
// marshals) can fail without changing the interface.
func (f *TextFormatter) Format(result *driver.Result) (string, error) {
	var sb strings.Builder

	for _, msg := range result.Messages {
		sb.WriteString(msg)
		sb.WriteString("\n")
	}

	if len(result.Explain) > 0 {
		sb.WriteString("Successors:\n")
		for _, name := range result.Explain {
			fmt.Fprintf(&sb, "  %s\n", name)
		}
	}

	if !f.WarningsOnly {
		moved := make(map[string]bool, len(result.Moved))
		for _, m := range result.Moved {
			moved[m.Truename] = true
		}

		if len(result.Moved) == 0 {
			sb.WriteString("Load order unchanged.\n")
		} else {
			sb.WriteString("Proposed load order:\n")
			for i, name := range result.Computed {
				marker := "  "
				if moved[name] {
					marker = "* "
				}
				fmt.Fprintf(&sb, "%s%3d  %s\n", marker, i+1, name)
			}
		}
	}

	return sb.String(), nil
}

// WriteOrderListing persists one of the two plain-text files spec.md
// §6 describes as "Persisted outputs": truenames, one per line, no
// trailing metadata. Used for both the input-order and computed-order
// listings.
func WriteOrderListing(path string, truenames []string) error {
	var sb strings.Builder
	for _, name := range truenames {
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
