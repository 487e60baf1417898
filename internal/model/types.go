// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang         string
	Words        int
	WordListPath string
	Formula      string
	CapsPct      float64
	PunctPct     float64
	PunctSet     string
	FocusMissed  bool
	MissedTop    int
	MissedFactor float64
	MissedWindow int
	Seed         int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionRecord captures a completed typing session.
type SessionRecord struct {
	UUID         string
	StartedAt    time.Time
	EndedAt      time.Time
	Lang         string
	Words        int
	CorrectWords int
	TotalChars   int
	DurationMs   int64
	WPM          float64
	Accuracy     float64
	Formula      string
	WordListPath string
}

// WordOutcome stores what was typed for one target word of a session.
// Word is the list entry Target was built from, before caps and
// punctuation were applied.
type WordOutcome struct {
	Index   int
	Word    string
	Target  string
	Typed   string
	Correct bool
}

// WordAggregate aggregates word outcomes across sessions.
type WordAggregate struct {
	Word    string
	Correct int
	Missed  int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID    int64
	EndedAt      time.Time
	Words        int
	CorrectWords int
	TotalChars   int
	DurationMs   int64
	WPM          float64
	Accuracy     float64
}
