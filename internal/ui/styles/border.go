/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// titleEllipsis replaces the tail of titles that do not fit the top border.
const titleEllipsis = "…"

// BuildTitledBorder returns b with title embedded at the left of its top
// edge, e.g.:
//
//	╭─ Tree: time / time (inc) ─────╮
//
// totalWidth includes both corners. Titles longer than the edge are cut and
// end in an ellipsis; an edge too narrow for any title is left plain.
func BuildTitledBorder(title string, totalWidth int, b lipgloss.Border) lipgloss.Border {
	fill := b.Top
	if fill == "" {
		fill = "─"
	}
	edge := totalWidth - lipgloss.Width(b.TopLeft) - lipgloss.Width(b.TopRight)

	// "─ " + title + " " needs at least one title cell.
	room := edge - lipgloss.Width(fill) - 2
	if room < 1 || title == "" {
		b.Top = fill
		return b
	}
	title = fitTitle(title, room)

	label := fill + " " + title + " "
	b.Top = label + strings.Repeat(fill, max(edge-lipgloss.Width(label), 0))
	return b
}

func fitTitle(title string, room int) string {
	if lipgloss.Width(title) <= room {
		return title
	}
	runes := []rune(title)
	for len(runes) > 0 && lipgloss.Width(string(runes))+lipgloss.Width(titleEllipsis) > room {
		runes = runes[:len(runes)-1]
	}
	if len(runes) == 0 {
		return titleEllipsis
	}
	return string(runes) + titleEllipsis
}
