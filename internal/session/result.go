package session

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Formula selects how words-per-minute is derived.
type Formula string

const (
	// FormulaCorrectWords counts correctly typed words per elapsed minute.
	FormulaCorrectWords Formula = "words"
	// FormulaCharacters uses the five-characters-per-word convention over
	// all target characters.
	FormulaCharacters Formula = "chars"
)

// ParseFormula maps a config or flag value to a Formula.
func ParseFormula(v string) (Formula, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "words":
		return FormulaCorrectWords, nil
	case "chars", "characters":
		return FormulaCharacters, nil
	default:
		return "", fmt.Errorf("unknown wpm formula %q (want words or chars)", v)
	}
}

// Result holds the final session metrics.
type Result struct {
	WPM          float64
	Accuracy     float64 // percent, 0-100
	CorrectWords int
	TotalWords   int
	TotalChars   int
	Elapsed      time.Duration
	Formula      Formula
}

func computeResult(words []string, correct int, elapsed time.Duration, formula Formula) Result {
	r := Result{
		CorrectWords: correct,
		TotalWords:   len(words),
		TotalChars:   totalChars(words),
		Elapsed:      elapsed,
		Formula:      formula,
	}
	if len(words) > 0 {
		r.Accuracy = round(float64(correct)/float64(len(words)), 4) * 100
	}
	minutes := elapsed.Seconds() / 60
	if minutes <= 0 {
		return r
	}
	switch formula {
	case FormulaCharacters:
		r.WPM = round((float64(r.TotalChars)/5)/minutes, 2)
	default:
		r.WPM = round(float64(correct)/minutes, 2)
	}
	return r
}

func totalChars(words []string) int {
	n := 0
	for _, w := range words {
		n += utf8.RuneCountInString(w)
	}
	return n
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
