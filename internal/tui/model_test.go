package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/wordsprint/internal/generator"
	"github.com/verte-zerg/wordsprint/internal/logging"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/session"
)

type fakeStore struct {
	records   []model.SessionRecord
	outcomes  [][]model.WordOutcome
	sessions  []model.SessionAggregate
	missed    []model.WordAggregate
	insertErr error
}

func (f *fakeStore) InsertSession(_ context.Context, rec model.SessionRecord, words []model.WordOutcome) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.records = append(f.records, rec)
	f.outcomes = append(f.outcomes, words)
	return int64(len(f.records)), nil
}

func (f *fakeStore) ListSessions(context.Context, model.StatsConfig) ([]model.SessionAggregate, error) {
	return f.sessions, nil
}

// GetMissedWords returns the canned aggregates, or aggregates the recorded
// outcomes by source word when none are set.
func (f *fakeStore) GetMissedWords(context.Context, int, string) ([]model.WordAggregate, error) {
	if f.missed != nil {
		return f.missed, nil
	}
	byWord := map[string]*model.WordAggregate{}
	var out []model.WordAggregate
	for _, outcomes := range f.outcomes {
		for _, o := range outcomes {
			agg, ok := byWord[o.Word]
			if !ok {
				agg = &model.WordAggregate{Word: o.Word}
				byWord[o.Word] = agg
			}
			if o.Correct {
				agg.Correct++
			} else {
				agg.Missed++
			}
		}
	}
	for _, agg := range byWord {
		out = append(out, *agg)
	}
	return out, nil
}

func newTestModel(st Store, words []string, count int) *Model {
	cfg := model.Config{Lang: "en", Words: count, Formula: "words", MissedTop: 5, MissedWindow: 10}
	return NewModel(cfg, st, generator.NewWithSeed(1), words, "embedded:en", nil, logging.Discard())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeWord(m *Model, word string) {
	for _, r := range word {
		m.Update(keyRunes(string(r)))
	}
}

func TestHomeEnterBeginsSession(t *testing.T) {
	m := newTestModel(nil, []string{"hello"}, 2)
	if m.view != viewHome {
		t.Fatalf("expected home view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewSession || m.sess == nil {
		t.Fatalf("expected a running session")
	}
	if prompt, _ := m.sess.Prompt(); prompt != "hello" {
		t.Fatalf("unexpected prompt %q", prompt)
	}
	if !strings.Contains(m.View(), "hello") {
		t.Fatalf("expected prompt in view")
	}
}

func TestInputChangeClassifies(t *testing.T) {
	m := newTestModel(nil, []string{"hello"}, 1)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	typeWord(m, "hel")
	if m.state != session.InProgress {
		t.Fatalf("expected in progress, got %v", m.state)
	}
	typeWord(m, "x")
	if m.state != session.Incorrect {
		t.Fatalf("expected incorrect, got %v", m.state)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	typeWord(m, "lo")
	if m.state != session.Correct {
		t.Fatalf("expected correct, got %v (input %q)", m.state, m.input.Value())
	}
}

func TestSpaceOnEmptyInputDoesNotAdvance(t *testing.T) {
	m := newTestModel(nil, []string{"hello"}, 2)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.sess.Cursor != 0 {
		t.Fatalf("expected cursor to stay at 0, got %d", m.sess.Cursor)
	}
}

func TestSessionCompletesAndPersists(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(st, []string{"hello"}, 2)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	typeWord(m, "hello")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.sess.Cursor != 1 || m.input.Value() != "" {
		t.Fatalf("expected advance and cleared input, cursor=%d input=%q", m.sess.Cursor, m.input.Value())
	}
	typeWord(m, "help")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.view != viewComplete {
		t.Fatalf("expected complete view, got %v", m.view)
	}
	if m.result.CorrectWords != 1 || m.result.Accuracy != 50 {
		t.Fatalf("unexpected result: %+v", m.result)
	}
	if len(st.records) != 1 {
		t.Fatalf("expected one stored session, got %d", len(st.records))
	}
	rec := st.records[0]
	if rec.UUID != m.sess.ID || rec.Words != 2 || rec.CorrectWords != 1 || rec.Lang != "en" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	outcomes := st.outcomes[0]
	if len(outcomes) != 2 || !outcomes[0].Correct || outcomes[1].Correct || outcomes[1].Typed != "help" {
		t.Fatalf("unexpected outcomes: %+v", outcomes)
	}
	if !strings.Contains(m.View(), "accuracy: 50.00%") {
		t.Fatalf("expected result line in view:\n%s", m.View())
	}
	if !m.hasLast || len(m.allSessions) != 1 {
		t.Fatalf("expected footer stats to be refreshed")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.view != viewHome {
		t.Fatalf("expected esc to return home")
	}
}

func TestEscAbortsToHomeWithoutSaving(t *testing.T) {
	st := &fakeStore{}
	m := newTestModel(st, []string{"hello"}, 3)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeWord(m, "hello")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.view != viewHome || m.sess != nil {
		t.Fatalf("expected abort to home")
	}
	if len(st.records) != 0 {
		t.Fatalf("expected nothing persisted on abort")
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	st := &fakeStore{insertErr: errors.New("disk full")}
	m := newTestModel(st, []string{"a"}, 1)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeWord(m, "a")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if m.view != viewComplete {
		t.Fatalf("expected complete view")
	}
	if !strings.Contains(m.View(), "failed to save session") {
		t.Fatalf("expected save error in view")
	}
}

func TestBeginFailureShowsError(t *testing.T) {
	m := newTestModel(nil, nil, 3)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.view != viewHome {
		t.Fatalf("expected to stay home")
	}
	if !strings.Contains(m.errMsg, "word source is empty") {
		t.Fatalf("unexpected error message %q", m.errMsg)
	}
}

func TestFocusMissedRefreshesAfterSession(t *testing.T) {
	st := &fakeStore{missed: []model.WordAggregate{{Word: "a", Missed: 2}}}
	cfg := model.Config{Lang: "en", Words: 1, FocusMissed: true, MissedFactor: 2, MissedTop: 3, MissedWindow: 5}
	m := NewModel(cfg, st, generator.NewWithSeed(2), []string{"a", "b"}, "test", nil, logging.Discard())
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeWord(m, m.sess.TargetWords[0])
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if _, ok := m.missed["a"]; !ok {
		t.Fatalf("expected missed words to be reloaded, got %v", m.missed)
	}
}

func TestWordListMsgAppliesToNextSession(t *testing.T) {
	m := newTestModel(nil, []string{"old"}, 1)
	m.Update(WordListMsg{Words: []string{"new"}, Label: "/tmp/en.txt"})
	m.Update(WordListMsg{Label: "/tmp/en.txt", Err: errors.New("word list is empty")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if prompt, _ := m.sess.Prompt(); prompt != "new" {
		t.Fatalf("expected reloaded word, got %q", prompt)
	}
	if m.wordListLabel != "/tmp/en.txt" {
		t.Fatalf("unexpected label %q", m.wordListLabel)
	}
}

func TestFocusMissedUsesSourceWordsWhenDecorated(t *testing.T) {
	st := &fakeStore{}
	source := []string{"hello", "world"}
	cfg := model.Config{Lang: "en", Words: 1, CapsPct: 1, FocusMissed: true, MissedFactor: 100, MissedTop: 5, MissedWindow: 5}
	m := NewModel(cfg, st, generator.NewWithSeed(3), source, "test", nil, logging.Discard())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	target := m.sess.TargetWords[0]
	if target != "Hello" && target != "World" {
		t.Fatalf("expected a capitalized target, got %q", target)
	}
	typeWord(m, "x")
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	outcome := st.outcomes[0][0]
	if outcome.Target != target || outcome.Word != strings.ToLower(target) {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if len(m.missed) != 1 {
		t.Fatalf("expected one missed word, got %v", m.missed)
	}
	if _, ok := m.missed[outcome.Word]; !ok {
		t.Fatalf("expected missed set keyed by source word, got %v", m.missed)
	}

	hits := 0
	for _, w := range m.gen.Weighted(m.missed, cfg.MissedFactor).Sample(source, 50) {
		if w == outcome.Word {
			hits++
		}
	}
	if hits < 40 {
		t.Fatalf("expected sampling biased toward %q, got %d/50", outcome.Word, hits)
	}
}

func TestLongWordCanBeTypedCorrectly(t *testing.T) {
	long := strings.Repeat("ab", 50)
	m := newTestModel(nil, []string{long}, 1)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeWord(m, long)
	if m.state != session.Correct {
		t.Fatalf("expected correct for a %d-rune word, got %v", len(long), m.state)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		hasLast: true,
		lastWPM: 72.4,
		lastAcc: 97.8,
		allSessions: []model.SessionAggregate{
			{WPM: 68.1, Accuracy: 96.9},
		},
	}
	out := m.renderFooter()
	for _, want := range []string{"Last 72.4 WPM", "97.8%", "All-time 68.1 WPM", "96.9%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(nil, []string{"a"}, 1)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
