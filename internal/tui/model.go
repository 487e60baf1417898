// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wordsprint/internal/generator"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/session"
	statsPkg "github.com/verte-zerg/wordsprint/internal/stats"
)

// Store is the persistence the practice UI needs.
type Store interface {
	InsertSession(ctx context.Context, rec model.SessionRecord, words []model.WordOutcome) (int64, error)
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	GetMissedWords(ctx context.Context, window int, lang string) ([]model.WordAggregate, error)
}

type view int

const (
	viewHome view = iota
	viewSession
	viewComplete
)

const previewLines = 3

// WordListMsg replaces the word source used by the next session.
type WordListMsg struct {
	Words []string
	Label string
	Err   error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config        model.Config
	store         Store
	gen           *generator.Generator
	words         []string
	wordListLabel string
	punctSet      []rune
	formula       session.Formula
	missed        map[string]struct{}
	logger        *slog.Logger

	width  int
	height int

	view   view
	input  textinput.Model
	sess   *session.Session
	// source holds the list word behind each target, before decoration.
	source []string
	state  session.Classification
	result session.Result
	errMsg string

	lastWPM float64
	lastAcc float64
	hasLast bool

	allSessions []model.SessionAggregate
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0D468"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	promptStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	doneStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0D468")).Bold(true)
	inputStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, st Store, gen *generator.Generator, words []string, wordListLabel string, missed map[string]struct{}, logger *slog.Logger) *Model {
	formula, err := session.ParseFormula(cfg.Formula)
	if err != nil {
		formula = session.FormulaCorrectWords
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Cursor.SetMode(cursor.CursorStatic)
	input.CharLimit = 0
	input.TextStyle = inputStyle
	m := &Model{
		config:        cfg,
		store:         st,
		gen:           gen,
		words:         words,
		wordListLabel: wordListLabel,
		punctSet:      []rune(cfg.PunctSet),
		formula:       formula,
		missed:        missed,
		logger:        logger,
		input:         input,
	}
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(10, msg.Width/3)
		return m, nil
	case WordListMsg:
		m.applyWordList(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.view {
		case viewHome:
			return m.updateHome(msg)
		case viewComplete:
			return m.updateComplete(msg)
		default:
			return m.updateSession(msg)
		}
	default:
		if m.view == viewSession {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m *Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.beginSession()
	case tea.KeyEsc:
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) updateComplete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.beginSession()
	case tea.KeyEsc:
		m.view = viewHome
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) updateSession(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.abortSession()
		return m, nil
	case tea.KeySpace, tea.KeyEnter:
		m.handleBoundary()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.handleInputChange()
	return m, cmd
}

// handleInputChange recolors the input for the current buffer.
func (m *Model) handleInputChange() {
	m.state = m.sess.Classify(m.input.Value())
	if m.state == session.Incorrect {
		m.input.TextStyle = incorrectStyle
	} else {
		m.input.TextStyle = inputStyle
	}
}

// handleBoundary confirms the current word.
func (m *Model) handleBoundary() {
	c, advanced := m.sess.AdvanceInput(m.input.Value(), true)
	m.logger.Debug("word boundary", "session_id", m.sess.ID, "classification", c.String(), "advanced", advanced)
	if !advanced {
		return
	}
	m.input.Reset()
	m.handleInputChange()
	if m.sess.Completed() {
		m.finishSession()
	}
}

func (m *Model) applyWordList(msg WordListMsg) {
	if msg.Err != nil {
		m.logger.Warn("word list reload failed, keeping previous list", "source", msg.Label, "err", msg.Err)
		return
	}
	m.words = msg.Words
	m.wordListLabel = msg.Label
	m.logger.Info("word list reloaded", "source", msg.Label, "words", len(msg.Words))
}

func (m *Model) beginSession() tea.Cmd {
	var sampler session.Sampler = m.gen
	if m.config.FocusMissed && len(m.missed) > 0 {
		sampler = m.gen.Weighted(m.missed, m.config.MissedFactor)
	}
	var source []string
	decorated := samplerFunc(func(words []string, count int) []string {
		source = sampler.Sample(words, count)
		targets := append([]string(nil), source...)
		return m.gen.Decorate(targets, m.config.CapsPct, m.config.PunctPct, m.punctSet)
	})
	sess, err := session.Begin(m.words, m.config.Words, session.WithSampler(decorated), session.WithFormula(m.formula))
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to begin session: %v", err)
		m.logger.Error("failed to begin session", "err", err)
		return nil
	}
	m.errMsg = ""
	m.sess = sess
	m.source = source
	m.view = viewSession
	m.input.Reset()
	m.handleInputChange()
	m.logger.Info("session begun", "session_id", sess.ID, "words", len(sess.TargetWords), "formula", string(sess.Formula()))
	return m.input.Focus()
}

func (m *Model) abortSession() {
	if m.sess != nil {
		m.sess.Abort()
		done, total := m.sess.Progress()
		m.logger.Info("session aborted", "session_id", m.sess.ID, "done", done, "total", total)
	}
	m.sess = nil
	m.source = nil
	m.input.Reset()
	m.input.Blur()
	m.view = viewHome
}

func (m *Model) finishSession() {
	m.result = m.sess.Finalize()
	m.view = viewComplete
	m.input.Blur()
	m.logger.Info("session completed", "session_id", m.sess.ID, "wpm", m.result.WPM, "accuracy", m.result.Accuracy)

	rec := model.SessionRecord{
		UUID:         m.sess.ID,
		StartedAt:    m.sess.StartedAt,
		EndedAt:      m.sess.EndedAt,
		Lang:         m.config.Lang,
		Words:        m.result.TotalWords,
		CorrectWords: m.result.CorrectWords,
		TotalChars:   m.result.TotalChars,
		DurationMs:   m.result.Elapsed.Milliseconds(),
		WPM:          m.result.WPM,
		Accuracy:     m.result.Accuracy,
		Formula:      string(m.result.Formula),
		WordListPath: m.wordListLabel,
	}
	outcomes := make([]model.WordOutcome, 0, len(m.sess.TargetWords))
	for i, target := range m.sess.TargetWords {
		typed := ""
		if i < len(m.sess.Typed) {
			typed = m.sess.Typed[i]
		}
		word := target
		if i < len(m.source) {
			word = m.source[i]
		}
		outcomes = append(outcomes, model.WordOutcome{Index: i, Word: word, Target: target, Typed: typed, Correct: typed == target})
	}

	m.lastWPM = m.result.WPM
	m.lastAcc = m.result.Accuracy
	m.hasLast = true

	if m.store == nil {
		return
	}
	ctx := context.Background()
	id, err := m.store.InsertSession(ctx, rec, outcomes)
	if err != nil {
		m.errMsg = "failed to save session"
		m.logger.Error("failed to save session", "session_id", m.sess.ID, "err", err)
		return
	}
	m.logger.Debug("session saved", "session_id", m.sess.ID, "row_id", id)
	m.allSessions = append(m.allSessions, model.SessionAggregate{
		SessionID:    id,
		EndedAt:      rec.EndedAt,
		Words:        rec.Words,
		CorrectWords: rec.CorrectWords,
		TotalChars:   rec.TotalChars,
		DurationMs:   rec.DurationMs,
		WPM:          rec.WPM,
		Accuracy:     rec.Accuracy,
	})
	if m.config.FocusMissed {
		m.refreshMissed()
	}
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		m.logger.Error("failed to load session stats", "err", err)
		return
	}
	m.allSessions = sessions
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true
}

func (m *Model) refreshMissed() {
	aggs, err := m.store.GetMissedWords(context.Background(), m.config.MissedWindow, m.config.Lang)
	if err != nil {
		m.logger.Error("failed to load missed words", "err", err)
		return
	}
	m.missed = statsPkg.SelectMissedWords(aggs, m.config.MissedTop)
	m.logger.Debug("missed words refreshed", "count", len(m.missed))
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.view {
	case viewSession:
		content = m.renderSession()
	case viewComplete:
		content = m.renderComplete()
	default:
		content = m.renderHome()
	}
	if m.errMsg != "" {
		content += "\n\n" + errorStyle.Render(m.errMsg)
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderHome() string {
	return promptStyle.Render("Press ENTER to start, or ESC to quit")
}

func (m *Model) renderComplete() string {
	lines := []string{
		doneStyle.Render("Press ENTER for new session, or ESC for home!"),
		"",
		fmt.Sprintf("wpm: %.2f, accuracy: %.2f%%", m.result.WPM, m.result.Accuracy),
		footerStyle.Render(fmt.Sprintf("%d/%d words correct in %s", m.result.CorrectWords, m.result.TotalWords, m.result.Elapsed.Round(time.Second/10))),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderSession() string {
	prompt, _ := m.sess.Prompt()
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 60
	}
	preview := renderPreview(m.sess.TargetWords, m.sess.Typed, m.sess.Cursor, m.state, contentWidth, previewLines)
	lines := []string{
		promptStyle.Render(prompt),
		"",
		m.input.View(),
		"",
		lipgloss.NewStyle().Width(contentWidth).Render(preview),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.view == viewSession && m.sess != nil {
		done, total := m.sess.Progress()
		segments = append(segments, fmt.Sprintf("Progress %d/%d", done, total))
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc))
	}
	if len(m.allSessions) > 0 {
		all := statsPkg.Summarize(m.allSessions)
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", all.AvgWPM, all.AvgAccuracy))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

type samplerFunc func(words []string, count int) []string

func (f samplerFunc) Sample(words []string, count int) []string {
	return f(words, count)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
