/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package color

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Neutral is used for values that fall in no bin.
const Neutral = lipgloss.Color("#89c3e0")

// Scheme selects the normal or inverted palettes.
type Scheme int

const (
	SchemeDefault Scheme = iota
	SchemeInverted
)

// NumSchemes is the number of color schemes a user can cycle through.
const NumSchemes = 2

func (s Scheme) String() string {
	if s == SchemeInverted {
		return "inverted"
	}
	return "default"
}

// Next returns the following scheme, wrapping around.
func (s Scheme) Next() Scheme {
	return (s + 1) % NumSchemes
}

// -----------------------------------------------------------------------------
// Palette families
// -----------------------------------------------------------------------------

// diverging is the continuous palette for the whole forest, top bin first.
var diverging = []lipgloss.Color{"#d73027", "#fc8d59", "#fee090", "#e0f3f8", "#91bfdb", "#4575b4"}

// categorical colors; categories beyond NumBins share colors cyclically.
var categorical = []lipgloss.Color{"#3366cc", "#dc3912", "#ff9900", "#109618", "#990099", "#0099c6"}

// sequential holds one single-hue palette per tree for individual legends.
var sequential = [][]lipgloss.Color{
	{"#006d2c", "#31a354", "#74c476", "#a1d99b", "#c7e9c0", "#edf8e9"}, // green
	{"#a50f15", "#de2d26", "#fb6a4a", "#fc9272", "#fcbba1", "#fee5d9"}, // red
	{"#08519c", "#3182bd", "#6baed6", "#9ecae1", "#c6dbef", "#eff3ff"}, // blue
	{"#54278f", "#756bb1", "#9e9ac8", "#bcbddc", "#dadaeb", "#f2f0f7"}, // purple
	{"#a63603", "#e6550d", "#fd8d3c", "#fdae6b", "#fdd0a2", "#feedde"}, // orange
	{"#252525", "#636363", "#969696", "#bdbdbd", "#d9d9d9", "#f7f7f7"}, // gray
}

// Palette returns the six colors used for the whole forest, bin 0 first.
func Palette(s Scheme, isCategorical bool) []lipgloss.Color {
	if isCategorical {
		return oriented(categorical, s)
	}
	return oriented(diverging, s)
}

// TreePalette returns the palette of tree treeIndex when every tree keeps its
// own legend. Categorical palettes are shared by all trees.
func TreePalette(s Scheme, treeIndex int, isCategorical bool) []lipgloss.Color {
	if isCategorical || treeIndex < 0 {
		return Palette(s, isCategorical)
	}
	return oriented(sequential[treeIndex%len(sequential)], s)
}

// Pick returns the color of bin in p, Neutral when bin is out of range.
func Pick(p []lipgloss.Color, bin int) lipgloss.Color {
	if bin < 0 || len(p) == 0 {
		return Neutral
	}
	return p[bin%len(p)]
}

func oriented(p []lipgloss.Color, s Scheme) []lipgloss.Color {
	out := slices.Clone(p)
	if s == SchemeInverted {
		slices.Reverse(out)
	}
	return out
}
