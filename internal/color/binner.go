/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package color maps metric and attribute values onto a fixed set of six
// color bins and provides the palettes and legends for them.
package color

import (
	"github.com/ijuttt/cctview/internal/stats"
)

// NumBins is the number of color bins of every palette.
const NumBins = 6

// breakpoints are the lower proportion bounds of bins 0 to 4; anything below
// the last one falls in bin 5.
var breakpoints = [NumBins - 1]float64{0.9, 0.7, 0.5, 0.3, 0.1}

// Proportion returns where value lies in b, from 0 at Min to 1 at Max.
// Degenerate bounds yield 1.
func Proportion(value float64, b stats.Bounds) float64 {
	r := b.Range()
	if r == 0 {
		return 1.0
	}
	return (value - b.Min) / r
}

// BinIndex returns the bin of value within b: 0 for the top tenth, 5 for the
// bottom tenth.
func BinIndex(value float64, b stats.Bounds) int {
	p := Proportion(value, b)
	for i, bp := range breakpoints {
		if p >= bp {
			return i
		}
	}
	return NumBins - 1
}

// CategoryIndex returns the position of value in domain, or -1.
func CategoryIndex(value string, domain []string) int {
	for i, v := range domain {
		if v == value {
			return i
		}
	}
	return -1
}

// -----------------------------------------------------------------------------
// Legend
// -----------------------------------------------------------------------------

// Range is the value range covered by one bin.
type Range struct {
	Lo, Hi float64
}

// Legend describes the bins of the active metric or attribute. Exactly one
// of Ranges and Labels is set.
type Legend struct {
	Ranges []Range
	Labels []string
}

// Categorical reports whether the legend lists category labels.
func (l Legend) Categorical() bool { return l.Ranges == nil }

// LegendDomain returns the bin ranges for b ordered by bin, top bin first.
func LegendDomain(b stats.Bounds) Legend {
	r := b.Range()
	edges := [NumBins + 1]float64{0, 0.1, 0.3, 0.5, 0.7, 0.9, 1}
	for i := range edges {
		edges[i] = edges[i]*r + b.Min
	}

	ranges := make([]Range, NumBins)
	for bin := 0; bin < NumBins; bin++ {
		ranges[bin] = Range{Lo: edges[NumBins-bin-1], Hi: edges[NumBins-bin]}
	}
	return Legend{Ranges: ranges}
}

// CategoryLegend returns the first NumBins values of domain as labels.
func CategoryLegend(domain []string) Legend {
	n := min(len(domain), NumBins)
	labels := make([]string, n)
	copy(labels, domain[:n])
	return Legend{Labels: labels}
}
