/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ValueBar renders a horizontal bar proportional to Value / MaxValue.
type ValueBar struct {
	Value      float64
	MaxValue   float64
	Width      int
	Color      lipgloss.Color
	EmptyColor lipgloss.Color
}

// NewValueBar creates a bar of the given width filled in c.
func NewValueBar(value, maxValue float64, width int, c lipgloss.Color) ValueBar {
	return ValueBar{
		Value:      value,
		MaxValue:   maxValue,
		Width:      width,
		Color:      c,
		EmptyColor: lipgloss.Color("240"), // Dark gray
	}
}

// Filled returns the number of filled cells. Any positive value fills at
// least one cell.
func (p ValueBar) Filled() int {
	if p.Width <= 0 || p.MaxValue <= 0 || p.Value <= 0 {
		return 0
	}
	ratio := min(p.Value/p.MaxValue, 1)
	return max(int(ratio*float64(p.Width)), 1)
}

// Render produces the bar string.
func (p ValueBar) Render() string {
	if p.Width <= 0 {
		return ""
	}
	filled := p.Filled()

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(p.Color).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(p.EmptyColor).Render(strings.Repeat("░", p.Width-filled)))
	return b.String()
}
