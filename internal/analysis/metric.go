/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package analysis provides viewer-side computation over profile forests.
// This layer sits between the immutable model and presentation, describing
// the data columns, value distributions and pruning thresholds.
package analysis

import "github.com/ijuttt/cctview/internal/model"

// Kind tells how a column is colored and compared.
type Kind uint8

const (
	// KindNumeric columns are metrics binned by proportion.
	KindNumeric Kind = iota
	// KindCategorical columns are attributes binned by domain position.
	KindCategorical
)

func (k Kind) String() string {
	if k == KindCategorical {
		return "categorical"
	}
	return "numeric"
}

// Column is one selectable data column of a forest.
type Column struct {
	Name string
	Kind Kind
}

// Numeric reports whether the column holds metric values.
func (c Column) Numeric() bool { return c.Kind == KindNumeric }

// Extract returns the value of the column on node. Categorical columns and
// missing metrics read as 0.
func (c Column) Extract(node *model.ProfileNode) float64 {
	if !c.Numeric() {
		return 0
	}
	return node.Metrics[c.Name]
}

// Columns lists the metric columns of f followed by its attribute columns.
func Columns(f *model.Forest) []Column {
	cols := make([]Column, 0, len(f.MetricColumns)+len(f.AttributeColumns))
	for _, m := range f.MetricColumns {
		cols = append(cols, Column{Name: m, Kind: KindNumeric})
	}
	for _, a := range f.AttributeColumns {
		cols = append(cols, Column{Name: a, Kind: KindCategorical})
	}
	return cols
}

// LookupColumn finds the column called name.
func LookupColumn(f *model.Forest, name string) (Column, bool) {
	for _, c := range Columns(f) {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
