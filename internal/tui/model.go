// Package tui implements the interactive load-order viewer (--tui): a
// side-by-side original/computed order list with moved plugins
// highlighted, mirroring the wx GUI's highlight_moved behavior.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mlox-tools/mlox/internal/driver"
)

type viewMode int

const (
	modeList viewMode = iota
	modeDetail
)

// Model holds the TUI state for one load-order review session.
type Model struct {
	result   *driver.Result
	moved    map[string]driver.MoveEntry
	cursor   int
	viewMode viewMode
	width    int
	height   int
	quitting bool
}

// NewModel builds a Model over a completed Driver.Run result.
func NewModel(result *driver.Result) Model {
	moved := make(map[string]driver.MoveEntry, len(result.Moved))
	for _, m := range result.Moved {
		moved[m.Truename] = m
	}
	return Model{result: result, moved: moved, viewMode: modeList}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("211"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235"))

	movedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	columnStyle = lipgloss.NewStyle().Padding(0, 2, 0, 0)
)

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewMode {
	case modeDetail:
		return m.handleDetailKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursor < len(m.result.Computed)-1 {
			m.cursor++
		}

	case key.Matches(msg, key.NewBinding(key.WithKeys("enter", "space"))):
		m.viewMode = modeDetail
	}
	return m, nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, key.NewBinding(key.WithKeys("esc", "backspace"))):
		m.viewMode = modeList
	}
	return m, nil
}

// View satisfies tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.viewMode {
	case modeDetail:
		return m.renderDetail()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mlox - load order review"))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("%d plugins, %d moved", len(m.result.Computed), len(m.result.Moved))))
	b.WriteString("\n\n")

	left := m.renderColumn("Original", m.result.Original, false)
	right := m.renderColumn("Computed", m.result.Computed, true)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columnStyle.Render(left), right))

	help := helpStyle.Render("↑/↓: Navigate | Enter: Details | q: Quit")
	b.WriteString("\n")
	b.WriteString(help)
	return b.String()
}

func (m Model) renderColumn(title string, names []string, cursorTracks bool) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	for i, name := range names {
		line := fmt.Sprintf("%3d  %s", i+1, name)
		style := normalStyle
		if _, ok := m.moved[name]; ok {
			style = movedStyle
		}
		if cursorTracks && i == m.cursor {
			style = selectedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDetail() string {
	if m.cursor >= len(m.result.Computed) {
		return "No plugin selected"
	}
	name := m.result.Computed[m.cursor]

	var details string
	if entry, ok := m.moved[name]; ok {
		details = fmt.Sprintf("Plugin:   %s\nMoved:    position %d -> %d\n", name, entry.FromIndex, entry.ToIndex)
	} else {
		details = fmt.Sprintf("Plugin:   %s\nPosition: %d (unchanged)\n", name, m.cursor+1)
	}

	box := detailBoxStyle.Render(details)
	help := helpStyle.Render("\nEsc: Back | q: Quit")
	return titleStyle.Render("Plugin detail") + "\n\n" + box + help
}
