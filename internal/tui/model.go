// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is an interactive terminal browser for the reference catalog.
// Every change to the search text or the selected tag re-runs the filter
// and redraws the list.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/internal/query"
	"github.com/pdiddy/research-hub/pkg/types"
)

// chrome is the number of lines used by everything except the list.
const chrome = 8

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("87"))
	tagStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("252"))
	activeStyle = tagStyle.Background(lipgloss.Color("30")).Foreground(lipgloss.Color("159")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("87")).Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	detailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("30")).Padding(0, 1)
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
)

const (
	helpText      = "type to search · tab/shift+tab tag · ↑/↓ move · enter details · esc quit"
	noMatchesText = "No references match the current search."
)

// Model is the bubbletea model of the browser.
type Model struct {
	catalog *catalog.Catalog
	tags    []catalog.TagCount

	input   textinput.Model
	tagIdx  int
	results []types.Reference

	cursor   int
	expanded bool

	width  int
	height int
}

// New returns a browser over c showing the whole catalog.
func New(c *catalog.Catalog) Model {
	in := textinput.New()
	in.Placeholder = "Search title, author, topic…"
	in.Prompt = "/ "
	in.CharLimit = 256
	in.Focus()

	m := Model{
		catalog: c,
		tags:    c.TagCounts(),
		input:   in,
	}
	m.refilter()
	return m
}

// Run starts the browser on the terminal and blocks until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, c *catalog.Catalog, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(New(c), opts...).Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

// State returns the current query state.
func (m Model) State() query.State {
	return query.State{FreeText: m.input.Value(), ActiveTag: m.activeTag()}
}

// Results returns the references currently listed.
func (m Model) Results() []types.Reference {
	return m.results
}

// Selected returns the highlighted reference, if any.
func (m Model) Selected() (types.Reference, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return types.Reference{}, false
	}
	return m.results[m.cursor], true
}

func (m Model) activeTag() string {
	if len(m.tags) == 0 {
		return types.TagAll
	}
	return m.tags[m.tagIdx].ID
}

// refilter recomputes the result list from the current state and keeps the
// cursor inside it.
func (m *Model) refilter() {
	m.results = m.State().Apply(m.catalog)
	if m.cursor >= len(m.results) {
		m.cursor = len(m.results) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if len(m.tags) > 0 {
				m.tagIdx = (m.tagIdx + 1) % len(m.tags)
				m.refilter()
			}
			return m, nil
		case "shift+tab":
			if len(m.tags) > 0 {
				m.tagIdx = (m.tagIdx - 1 + len(m.tags)) % len(m.tags)
				m.refilter()
			}
			return m, nil
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			m.expanded = !m.expanded
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.catalog.Content().SiteName))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.tagBar())
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("%d of %d references", len(m.results), m.catalog.Len())))
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		b.WriteString(emptyStyle.Render(noMatchesText))
		b.WriteString("\n")
	} else {
		b.WriteString(m.list())
	}

	if ref, ok := m.Selected(); ok && m.expanded {
		b.WriteString("\n")
		b.WriteString(m.details(ref))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render(helpText))
	return b.String()
}

func (m Model) tagBar() string {
	parts := make([]string, len(m.tags))
	for i, tc := range m.tags {
		label := fmt.Sprintf("%s (%d)", tc.Label, tc.Count)
		if i == m.tagIdx {
			parts[i] = activeStyle.Render(label)
		} else {
			parts[i] = tagStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// list renders the window of results that keeps the cursor visible.
func (m Model) list() string {
	start, end := m.window()
	var b strings.Builder
	for i := start; i < end; i++ {
		r := m.results[i]
		line := fmt.Sprintf("%s  %d", r.Title, r.Year)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if end-start < len(m.results) {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(m.results))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) window() (start, end int) {
	rows := len(m.results)
	if m.height > 0 {
		rows = m.height - chrome
		if m.expanded {
			rows -= 8
		}
		rows = max(rows, 3)
	}
	if rows >= len(m.results) {
		return 0, len(m.results)
	}
	start = max(m.cursor-rows+1, 0)
	return start, start + rows
}

func (m Model) details(r types.Reference) string {
	width := 76
	if m.width > 0 {
		width = max(m.width-4, 20)
	}
	body := strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render(r.Title),
		fmt.Sprintf("%s · %d", r.Authors, r.Year),
		"tags: " + strings.Join(r.Tags, ", "),
		"",
		r.Summary,
		"",
		faintStyle.Render(r.Link),
	}, "\n")
	return detailStyle.Width(width).Render(body)
}
