// Package session implements the word-by-word typing session state machine.
//
// A Session owns a fixed sequence of target words, a cursor into it and a
// running count of correctly typed words. Host UI code classifies the current
// input buffer on every change and advances the session on a word boundary
// (space or submit).
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

var (
	// ErrEmptyWordSource is returned by Begin when no candidate words are given.
	ErrEmptyWordSource = errors.New("word source is empty")
	// ErrInvalidWordCount is returned by Begin for a non-positive word count.
	ErrInvalidWordCount = errors.New("word count must be greater than 0")
)

// Sampler picks count words from a non-empty list.
type Sampler interface {
	Sample(words []string, count int) []string
}

// Clock returns the current time.
type Clock func() time.Time

// Session is one timed typing exercise over a pre-sampled word sequence.
type Session struct {
	ID           string
	TargetWords  []string
	Cursor       int
	CorrectCount int
	StartedAt    time.Time
	EndedAt      time.Time
	Active       bool
	Aborted      bool

	// Typed holds the confirmed, whitespace-stripped input for each word
	// the cursor has passed.
	Typed []string

	formula Formula
	clock   Clock
	result  *Result
}

type options struct {
	sampler Sampler
	clock   Clock
	formula Formula
}

// Option configures Begin.
type Option func(*options)

// WithSampler overrides the default uniform sampler.
func WithSampler(s Sampler) Option {
	return func(o *options) { o.sampler = s }
}

// WithClock overrides time.Now.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithFormula selects how words-per-minute is computed.
func WithFormula(f Formula) Option {
	return func(o *options) { o.formula = f }
}

// Begin samples count words from words and starts a new session.
func Begin(words []string, count int, opts ...Option) (*Session, error) {
	if len(words) == 0 {
		return nil, ErrEmptyWordSource
	}
	if count <= 0 {
		return nil, ErrInvalidWordCount
	}
	o := options{
		clock:   time.Now,
		formula: FormulaCorrectWords,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sampler == nil {
		o.sampler = uniformSampler{rnd: rand.New(rand.NewSource(o.clock().UnixNano()))}
	}

	target := o.sampler.Sample(words, count)
	if len(target) != count {
		return nil, fmt.Errorf("sampler returned %d words, want %d", len(target), count)
	}
	return &Session{
		ID:          uuid.NewString(),
		TargetWords: target,
		StartedAt:   o.clock(),
		Active:      true,
		Typed:       make([]string, 0, count),
		formula:     o.formula,
		clock:       o.clock,
	}, nil
}

// Classify compares the whitespace-stripped input against the current target word.
func (s *Session) Classify(raw string) Classification {
	if s.Cursor >= len(s.TargetWords) {
		return SessionCompleted
	}
	input := StripSpace(raw)
	if input == "" {
		return Empty
	}
	target := s.TargetWords[s.Cursor]
	if !isPrefix(input, target) {
		return Incorrect
	}
	if len(input) == len(target) {
		return Correct
	}
	return InProgress
}

// Advance moves to the next word when boundary is set and c is a confirmable
// classification. It reports whether the cursor moved.
func (s *Session) Advance(c Classification, boundary bool) bool {
	return s.advance(c, boundary, "")
}

// AdvanceInput classifies raw and advances on a boundary, recording the typed
// word for later per-word stats.
func (s *Session) AdvanceInput(raw string, boundary bool) (Classification, bool) {
	c := s.Classify(raw)
	return c, s.advance(c, boundary, StripSpace(raw))
}

func (s *Session) advance(c Classification, boundary bool, typed string) bool {
	if !s.Active || !boundary {
		return false
	}
	if c == SessionCompleted || c == Empty {
		return false
	}
	if c == Correct {
		s.CorrectCount++
	}
	s.Typed = append(s.Typed, typed)
	s.Cursor++
	if s.Cursor >= len(s.TargetWords) {
		s.complete()
	}
	return true
}

func (s *Session) complete() {
	s.Active = false
	s.EndedAt = s.clock()
	r := computeResult(s.TargetWords, s.CorrectCount, s.EndedAt.Sub(s.StartedAt), s.formula)
	s.result = &r
}

// Prompt returns the word the user is expected to type next.
func (s *Session) Prompt() (string, bool) {
	if s.Cursor >= len(s.TargetWords) {
		return "", false
	}
	return s.TargetWords[s.Cursor], true
}

// Progress returns the number of confirmed words and the session length.
func (s *Session) Progress() (done, total int) {
	return s.Cursor, len(s.TargetWords)
}

// Completed reports whether every target word has been confirmed.
func (s *Session) Completed() bool {
	return s.Cursor >= len(s.TargetWords) && !s.Aborted
}

// Abort ends the session without a result.
func (s *Session) Abort() {
	if !s.Active {
		return
	}
	s.Active = false
	s.Aborted = true
	s.EndedAt = s.clock()
}

// Finalize returns the session metrics. For a session that is still running
// the metrics are computed up to now.
func (s *Session) Finalize() Result {
	if s.result != nil {
		return *s.result
	}
	end := s.EndedAt
	if end.IsZero() {
		end = s.clock()
	}
	return computeResult(s.TargetWords, s.CorrectCount, end.Sub(s.StartedAt), s.formula)
}

// Formula returns the words-per-minute formula the session was started with.
func (s *Session) Formula() Formula {
	return s.formula
}

// StripSpace removes every whitespace rune from s.
func StripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// isPrefix reports whether short is a prefix of long.
func isPrefix(short, long string) bool {
	if len(long) < len(short) {
		return false
	}
	return long[:len(short)] == short
}

type uniformSampler struct {
	rnd *rand.Rand
}

func (u uniformSampler) Sample(words []string, count int) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, words[u.rnd.Intn(len(words))])
	}
	return out
}
