// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-hub/internal/catalog"
	"github.com/pdiddy/research-hub/internal/query"
)

func newModel(t *testing.T) Model {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	m := New(c)
	return send(m, tea.WindowSizeMsg{Width: 240, Height: 60})
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestNewShowsWholeCatalog(t *testing.T) {
	m := newModel(t)
	assert.Len(t, m.Results(), 10)
	assert.True(t, m.State().IsZero())

	v := m.View()
	assert.Contains(t, v, "CMDB Research Hub")
	assert.Contains(t, v, "10 of 10 references")
	assert.Contains(t, v, "All (10)")
}

func TestTypingRefilters(t *testing.T) {
	m := typeText(newModel(t), "blockchain")

	assert.Equal(t, "blockchain", m.State().FreeText)
	require.Len(t, m.Results(), 1)
	assert.Contains(t, m.Results()[0].Title, "Blockchain-Based")
	assert.Contains(t, m.View(), "1 of 10 references")

	m = send(m, key(tea.KeyBackspace))
	assert.Equal(t, "blockchai", m.State().FreeText)
	assert.Len(t, m.Results(), 1)
}

func TestResultsMatchEngine(t *testing.T) {
	m := typeText(newModel(t), "cmdb")
	m = send(m, key(tea.KeyTab), key(tea.KeyTab))

	st := m.State()
	assert.Equal(t, "ml", st.ActiveTag)
	assert.Equal(t, query.Filter(m.catalog, "cmdb", "ml"), m.Results())
}

func TestTagCycling(t *testing.T) {
	m := newModel(t)
	ids := make([]string, 0, len(m.tags))
	for range m.tags {
		m = send(m, key(tea.KeyTab))
		ids = append(ids, m.State().ActiveTag)
	}
	assert.Equal(t, []string{"data-quality", "ml", "kg", "process", "security", "all"}, ids)

	m = send(m, key(tea.KeyShiftTab))
	assert.Equal(t, "security", m.State().ActiveTag)
	assert.Len(t, m.Results(), 1)
}

func TestNoMatches(t *testing.T) {
	m := typeText(newModel(t), "nonexistent")
	assert.Empty(t, m.Results())
	assert.Contains(t, m.View(), noMatchesText)

	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestCursorStaysInResults(t *testing.T) {
	m := newModel(t)
	m = send(m, key(tea.KeyUp))
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 20; i++ {
		m = send(m, key(tea.KeyDown))
	}
	assert.Equal(t, 9, m.cursor)

	m = typeText(m, "hofer")
	assert.Equal(t, 0, m.cursor)
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Contains(t, sel.Authors, "Hofer")
}

func TestEnterTogglesDetails(t *testing.T) {
	m := newModel(t)
	m = send(m, key(tea.KeyDown))
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.NotContains(t, m.View(), sel.Link)

	m = send(m, key(tea.KeyEnter))
	assert.True(t, m.expanded)
	assert.Contains(t, m.View(), sel.Link)
	assert.Contains(t, m.View(), "tags: security, process")

	m = send(m, key(tea.KeyEnter))
	assert.NotContains(t, m.View(), sel.Link)
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		_, cmd := newModel(t).Update(key(k))
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, k.String())
	}
}

func TestSmallWindowScrolls(t *testing.T) {
	m := send(newModel(t), tea.WindowSizeMsg{Width: 120, Height: chrome + 3})
	start, end := m.window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)

	for i := 0; i < 5; i++ {
		m = send(m, key(tea.KeyDown))
	}
	start, end = m.window()
	assert.Equal(t, 3, start)
	assert.Equal(t, 6, end)
	assert.Contains(t, m.View(), "4-6 of 10")
}
