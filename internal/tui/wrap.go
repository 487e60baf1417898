package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/wordsprint/internal/session"
)

type styledWord struct {
	s     string
	width int
}

// styleForWord picks the preview style of word i. Confirmed words show
// whether they were typed correctly; the current word turns red while the
// input diverges from it.
func styleForWord(i int, target string, typed []string, cursor int, state session.Classification) lipgloss.Style {
	switch {
	case i < cursor:
		if i < len(typed) && typed[i] == target {
			return correctStyle
		}
		return incorrectStyle
	case i == cursor:
		if state == session.Incorrect {
			return incorrectStyle.Underline(true)
		}
		return currentWordStyle
	default:
		return pendingStyle
	}
}

func buildStyledWords(targets, typed []string, cursor int, state session.Classification) []styledWord {
	out := make([]styledWord, 0, len(targets))
	for i, target := range targets {
		style := styleForWord(i, target, typed, cursor, state)
		out = append(out, styledWord{
			s:     style.Render(target),
			width: runewidth.StringWidth(target),
		})
	}
	return out
}

// wrapWords greedily packs word indexes into lines no wider than width.
// A word wider than the line gets a line of its own.
func wrapWords(words []styledWord, width int) [][]int {
	var lines [][]int
	var line []int
	lineWidth := 0
	for i, w := range words {
		needed := w.width
		if len(line) > 0 {
			needed++
		}
		if len(line) > 0 && width > 0 && lineWidth+needed > width {
			lines = append(lines, line)
			line = nil
			lineWidth = 0
			needed = w.width
		}
		line = append(line, i)
		lineWidth += needed
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

func lineOfWord(lines [][]int, idx int) int {
	for li, line := range lines {
		if len(line) > 0 && idx <= line[len(line)-1] {
			return li
		}
	}
	return len(lines) - 1
}

// renderPreview renders up to maxLines wrapped lines, starting at the line
// that holds the current word.
func renderPreview(targets, typed []string, cursor int, state session.Classification, width, maxLines int) string {
	if len(targets) == 0 {
		return ""
	}
	words := buildStyledWords(targets, typed, cursor, state)
	lines := wrapWords(words, width)
	start := 0
	if cursor < len(targets) {
		start = lineOfWord(lines, cursor)
	} else {
		start = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && start+maxLines < end {
		end = start + maxLines
	}
	rendered := make([]string, 0, end-start)
	for _, line := range lines[start:end] {
		parts := make([]string, 0, len(line))
		for _, idx := range line {
			parts = append(parts, words[idx].s)
		}
		rendered = append(rendered, strings.Join(parts, " "))
	}
	return strings.Join(rendered, "\n")
}
