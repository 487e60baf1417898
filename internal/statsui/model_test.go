package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/stats"
)

func fixedReport() stats.Report {
	ended := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return stats.Report{
		Sessions: []model.SessionAggregate{
			{SessionID: 1, EndedAt: ended, Words: 10, CorrectWords: 9, DurationMs: 12000, WPM: 45, Accuracy: 90},
			{SessionID: 2, EndedAt: ended.Add(time.Hour), Words: 10, CorrectWords: 10, DurationMs: 10000, WPM: 60, Accuracy: 100},
		},
		WordAggsWindow: []model.WordAggregate{
			{Word: "their", Correct: 1, Missed: 3},
			{Word: "easy", Correct: 4},
		},
	}
}

func TestWindowKeysReloadReport(t *testing.T) {
	var windows []int
	load := func(_ context.Context, cfg model.StatsConfig) (stats.Report, error) {
		windows = append(windows, cfg.CurveWindow)
		return fixedReport(), nil
	}
	m := newModel(load, model.StatsConfig{CurveWindow: 3})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})

	assert.Equal(t, []int{3, 5, 10, 5, 1, 1}, windows)
}

func TestTablesFilledFromReport(t *testing.T) {
	m := newModel(func(context.Context, model.StatsConfig) (stats.Report, error) {
		return fixedReport(), nil
	}, model.StatsConfig{CurveWindow: 5})

	missed := m.tables[tabMissedWords].Rows()
	require.Len(t, missed, 1)
	assert.Equal(t, "their", missed[0][0])
	assert.Equal(t, "75.00%", missed[0][1])

	history := m.tables[tabHistory].Rows()
	require.Len(t, history, 2)
	assert.Equal(t, "60.00", history[0][4])
	assert.Equal(t, "10s", history[0][3])
}

func TestTabNavigationWraps(t *testing.T) {
	m := newModel(func(context.Context, model.StatsConfig) (stats.Report, error) {
		return fixedReport(), nil
	}, model.StatsConfig{CurveWindow: 5})

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tabHistory, m.activeTab)
	assert.True(t, m.tables[tabHistory].Focused())
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabOverview, m.activeTab)
	assert.False(t, m.tables[tabHistory].Focused())
}

func TestViewRendersTabsAndErrors(t *testing.T) {
	m := newModel(func(context.Context, model.StatsConfig) (stats.Report, error) {
		return stats.Report{}, errors.New("db locked")
	}, model.StatsConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "window=5")
	assert.Contains(t, view, "db locked")
	assert.Equal(t, 30, len(strings.Split(view, "\n")))
}

func TestOverviewShowsSummary(t *testing.T) {
	out := renderOverview(fixedReport().Sessions, 1, 100)
	assert.Contains(t, out, "Avg WPM")
	assert.Contains(t, out, "52.5")
	assert.Contains(t, out, "Learning Curves (window 1)")
	assert.Equal(t, "No sessions found.", renderOverview(nil, 1, 100))
}

func TestQuitKeys(t *testing.T) {
	m := newModel(func(context.Context, model.StatsConfig) (stats.Report, error) {
		return stats.Report{}, nil
	}, model.StatsConfig{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
