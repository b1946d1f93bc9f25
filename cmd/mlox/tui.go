package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlox-tools/mlox/internal/driver"
	"github.com/mlox-tools/mlox/internal/tui"
)

func runTUI(result *driver.Result) int {
	model := tui.NewModel(result)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: TUI: %v\n", err)
		return 1
	}
	return 0
}
