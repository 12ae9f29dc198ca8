// Package widgets provides reusable TUI visualization components.
package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders bin counts as a Unicode bar chart. Bars grow from zero,
// so an empty bin is always the lowest block.
type Sparkline struct {
	Data           []float64
	Width          int
	HighlightIndex int // Bin to highlight, e.g. the bin of the selected node
	NormalColor    lipgloss.Color
	HighlightColor lipgloss.Color
}

// sparkBlocks are Unicode block elements for 8 levels of height.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// NewSparkline creates a sparkline with default styling.
func NewSparkline(data []float64, width int) Sparkline {
	return Sparkline{
		Data:           data,
		Width:          width,
		HighlightIndex: -1,
		NormalColor:    lipgloss.Color("62"),  // Blue
		HighlightColor: lipgloss.Color("201"), // Magenta
	}
}

// WithHighlight sets the index to highlight.
func (s Sparkline) WithHighlight(idx int) Sparkline {
	s.HighlightIndex = idx
	return s
}

// Render produces the sparkline string.
func (s Sparkline) Render() string {
	if len(s.Data) == 0 || s.Width <= 0 {
		return ""
	}

	samples := s.sampleData()
	peak := 0.0
	for _, v := range samples {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	normalStyle := lipgloss.NewStyle().Foreground(s.NormalColor)
	highlightStyle := lipgloss.NewStyle().Foreground(s.HighlightColor).Bold(true)

	for i, val := range samples {
		blockIdx := min(max(int(val/peak*7), 0), 7)
		char := string(sparkBlocks[blockIdx])

		if s.HighlightIndex >= 0 && s.covers(i, len(samples), s.HighlightIndex) {
			b.WriteString(highlightStyle.Render(char))
		} else {
			b.WriteString(normalStyle.Render(char))
		}
	}

	return b.String()
}

// sampleData merges bins to fit within width, keeping the largest count of
// each group.
func (s Sparkline) sampleData() []float64 {
	if len(s.Data) <= s.Width {
		return s.Data
	}

	result := make([]float64, s.Width)
	for i := range result {
		lo, hi := s.span(i, s.Width)
		for _, v := range s.Data[lo:hi] {
			result[i] = max(result[i], v)
		}
	}
	return result
}

// span returns the data range merged into sample i.
func (s Sparkline) span(i, samples int) (lo, hi int) {
	lo = i * len(s.Data) / samples
	hi = max((i+1)*len(s.Data)/samples, lo+1)
	return lo, min(hi, len(s.Data))
}

func (s Sparkline) covers(sample, samples, idx int) bool {
	if samples >= len(s.Data) {
		return sample == idx
	}
	lo, hi := s.span(sample, samples)
	return idx >= lo && idx < hi
}
