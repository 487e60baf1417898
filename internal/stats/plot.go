package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisLabelFormat     = "%7.1f"
	axisSeparator       = " │ "
	terminalWidthBackup = 80
)

// Eighth-block bar glyphs, empty to full.
var barGlyphs = []rune(" ▁▂▃▄▅▆▇█")

var seriesColors = []lipgloss.Color{"#4FC1E9", "#C89A3A", "#A0D468", "#ED5565"}

// PlotSeriesWithColor renders one bar chart per series, each scaled to its
// own range, with optional colored bars.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	drawn := false
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		if !drawn {
			if _, err := fmt.Fprintln(w, title); err != nil {
				return err
			}
			drawn = true
		}
		style := lipgloss.NewStyle()
		if useColor {
			style = style.Foreground(seriesColors[i%len(seriesColors)])
		}
		if err := plotOne(w, s, width, height, style); err != nil {
			return err
		}
	}
	if drawn {
		_, err := fmt.Fprintln(w, "")
		return err
	}
	return nil
}

func plotOne(w io.Writer, s Series, width, height int, style lipgloss.Style) error {
	values := bucketAverage(s.Values, width)
	minVal, maxVal := minMax(values)
	span := maxVal - minVal
	if _, err := fmt.Fprintf(w, "%s (min %.1f, max %.1f, last %.1f)\n", s.Name, minVal, maxVal, s.Values[len(s.Values)-1]); err != nil {
		return err
	}

	steps := len(barGlyphs) - 1
	levels := make([]int, len(values))
	for i, v := range values {
		norm := 1.0
		if span > 1e-9 {
			norm = (v - minVal) / span
		}
		// Keep a sliver visible for the minimum.
		levels[i] = int(math.Round(norm*float64(height*steps-1))) + 1
	}

	for row := 0; row < height; row++ {
		label := strings.Repeat(" ", axisLabelWidth())
		switch row {
		case 0:
			label = fmt.Sprintf(axisLabelFormat, maxVal)
		case height - 1:
			label = fmt.Sprintf(axisLabelFormat, minVal)
		}
		base := (height - 1 - row) * steps
		var b strings.Builder
		for _, lvl := range levels {
			fill := lvl - base
			if fill < 0 {
				fill = 0
			}
			if fill > steps {
				fill = steps
			}
			b.WriteRune(barGlyphs[fill])
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", label, axisSeparator, style.Render(b.String())); err != nil {
			return err
		}
	}
	return nil
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth() - utf8.RuneCountInString(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func axisLabelWidth() int {
	return utf8.RuneCountInString(fmt.Sprintf(axisLabelFormat, 0.0))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// bucketAverage shrinks values to at most width points by averaging buckets.
func bucketAverage(values []float64, width int) []float64 {
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}
