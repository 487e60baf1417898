// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/wordsprint/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates metrics over a set of sessions.
type Summary struct {
	Sessions    int
	AvgWPM      float64
	BestWPM     float64
	AvgAccuracy float64 // percent
	Words       int
	Correct     int
}

// Summarize computes averages and bests over sessions.
func Summarize(sessions []model.SessionAggregate) Summary {
	var s Summary
	if len(sessions) == 0 {
		return s
	}
	var totalWPM, totalAcc float64
	for _, sess := range sessions {
		totalWPM += sess.WPM
		totalAcc += sess.Accuracy
		if sess.WPM > s.BestWPM {
			s.BestWPM = sess.WPM
		}
		s.Words += sess.Words
		s.Correct += sess.CorrectWords
	}
	s.Sessions = len(sessions)
	s.AvgWPM = totalWPM / float64(len(sessions))
	s.AvgAccuracy = totalAcc / float64(len(sessions))
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(sessions)
	wpms := make([]float64, len(sessions))
	for i, sess := range sessions {
		wpms[i] = sess.WPM
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Avg WPM: %.2f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %.2f", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
		fmt.Sprintf("Words typed: %d (%d correct)", s.Words, s.Correct),
		fmt.Sprintf("Trend: %s", Sparkline(wpms)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = s.WPM
		accs[i] = s.Accuracy
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, fmt.Sprintf("Learning Curves (window %d)", window), []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy %", Values: MovingAverage(accs, window)},
	}, width, height, useColor)
}

// WordRow is a formatted row of the missed-word table.
type WordRow struct {
	Word     string
	MissRate float64
	Correct  int
	Missed   int
}

// WordRows sorts aggregates by miss rate, then misses, then word, keeping
// only words that were missed at least once.
func WordRows(aggs []model.WordAggregate) []WordRow {
	rows := make([]WordRow, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Missed == 0 {
			continue
		}
		rows = append(rows, WordRow{
			Word:     agg.Word,
			MissRate: missRate(agg),
			Correct:  agg.Correct,
			Missed:   agg.Missed,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MissRate != rows[j].MissRate {
			return rows[i].MissRate > rows[j].MissRate
		}
		if rows[i].Missed != rows[j].Missed {
			return rows[i].Missed > rows[j].Missed
		}
		return rows[i].Word < rows[j].Word
	})
	return rows
}

// RenderWordTable prints missed words, worst first.
func RenderWordTable(w io.Writer, aggs []model.WordAggregate) error {
	rows := WordRows(aggs)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No missed words.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Missed Words (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Word", "Miss Rate", "Correct", "Missed"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Word,
			fmt.Sprintf("%.2f%%", r.MissRate*100),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Missed),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func missRate(agg model.WordAggregate) float64 {
	total := agg.Correct + agg.Missed
	if total == 0 {
		return 0
	}
	return float64(agg.Missed) / float64(total)
}
