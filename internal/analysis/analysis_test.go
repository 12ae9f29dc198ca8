/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package analysis

import (
	"math"
	"testing"

	"github.com/ijuttt/cctview/internal/model"
)

const doc = `[
	{
		"name": "main", "frame": {"name": "main"},
		"metrics": {"time": 1, "time (inc)": 10},
		"attributes": {"module": "app"},
		"children": [
			{"name": "solve", "frame": {"name": "solve"}, "metrics": {"time": 4, "time (inc)": 6},
				"children": [{"name": "wait", "frame": {"name": "MPI_Wait"}, "metrics": {"time": 2, "time (inc)": 2}}]},
			{"name": "io", "frame": {"name": "io"}, "metrics": {"time": 3, "time (inc)": 3}}
		]
	},
	{"name": "main", "frame": {"name": "main"}, "metrics": {"time": 0.5, "time (inc)": 0.5}}
]`

func mustParse(t *testing.T) *model.Forest {
	t.Helper()
	f, err := model.ParseForest([]byte(doc))
	if err != nil {
		t.Fatalf("ParseForest() error = %v", err)
	}
	return f
}

func TestColumns(t *testing.T) {
	f := mustParse(t)
	cols := Columns(f)

	want := []Column{
		{Name: "time", Kind: KindNumeric},
		{Name: "time (inc)", Kind: KindNumeric},
		{Name: "module", Kind: KindCategorical},
	}
	if len(cols) != len(want) {
		t.Fatalf("Columns() = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("Columns()[%d] = %v, want %v", i, cols[i], want[i])
		}
	}

	c, ok := LookupColumn(f, "module")
	if !ok || c.Numeric() {
		t.Errorf("LookupColumn(module) = %v, %v", c, ok)
	}
	if _, ok := LookupColumn(f, "nope"); ok {
		t.Error("LookupColumn(nope) found a column")
	}

	root := f.Trees[0].Node(0)
	if got := (Column{Name: "time (inc)"}).Extract(root); got != 10 {
		t.Errorf("Extract() = %f, want 10", got)
	}
	if got := c.Extract(root); got != 0 {
		t.Errorf("categorical Extract() = %f, want 0", got)
	}
}

func TestDefaultMetrics(t *testing.T) {
	f := mustParse(t)

	p, s := DefaultMetrics(f)
	if p != "time" || s != "time (inc)" {
		t.Errorf("DefaultMetrics() = %q, %q", p, s)
	}

	single := &model.Forest{MetricColumns: []string{"time"}}
	if p, s := DefaultMetrics(single); p != "time" || s != "time" {
		t.Errorf("DefaultMetrics(single) = %q, %q", p, s)
	}
	if p, s := DefaultMetrics(&model.Forest{}); p != "" || s != "" {
		t.Errorf("DefaultMetrics(empty) = %q, %q", p, s)
	}
}

func TestNextColumn(t *testing.T) {
	f := mustParse(t)

	tests := []struct {
		current     string
		numericOnly bool
		want        string
	}{
		{"time", false, "time (inc)"},
		{"time (inc)", false, "module"},
		{"module", false, "time"},
		{"time (inc)", true, "time"},
		{"unknown", true, "time"},
	}
	for _, tt := range tests {
		if got := NextColumn(f, tt.current, tt.numericOnly); got != tt.want {
			t.Errorf("NextColumn(%q, %v) = %q, want %q", tt.current, tt.numericOnly, got, tt.want)
		}
	}
}

func TestBuildDistribution(t *testing.T) {
	f := mustParse(t)

	d := BuildDistribution(f.Trees, "time", 2)

	if d.Total != 5 {
		t.Fatalf("Total = %d, want 5", d.Total)
	}
	if d.MinValue != 0.5 || d.MaxValue != 4 {
		t.Errorf("bounds = [%f, %f], want [0.5, 4]", d.MinValue, d.MaxValue)
	}
	if len(d.Bins) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(d.Bins))
	}

	// 0.5, 1 and 2 fall below the 2.25 midpoint.
	expected := []int{3, 2}
	for i, b := range d.Bins {
		if b.Count != expected[i] {
			t.Errorf("Bins[%d].Count = %d, want %d", i, b.Count, expected[i])
		}
	}
	if d.MaxCount() != 3 {
		t.Errorf("MaxCount() = %d, want 3", d.MaxCount())
	}
	if c := d.Counts(); len(c) != 2 || c[0] != 3 {
		t.Errorf("Counts() = %v", c)
	}
}

func TestDistributionBinOf(t *testing.T) {
	d := BuildDistribution(mustParse(t).Trees, "time", 2)

	for _, tt := range []struct {
		v    float64
		want int
	}{
		{0.5, 0}, {2, 0}, {2.25, 1}, {4, 1}, {0.1, -1}, {5, -1},
	} {
		if got := d.BinOf(tt.v); got != tt.want {
			t.Errorf("BinOf(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestBuildDistributionDegenerate(t *testing.T) {
	tree := &model.ProfileTree{Nodes: []model.ProfileNode{
		{Metrics: map[string]float64{"time": 2}},
		{Metrics: map[string]float64{"time": 2}},
	}}

	d := BuildDistribution([]*model.ProfileTree{tree}, "time", 4)
	if len(d.Bins) != 4 || d.Bins[0].Count != 2 {
		t.Errorf("degenerate distribution = %+v", d)
	}

	if d := BuildDistribution(nil, "time", 4); len(d.Bins) != 0 {
		t.Errorf("empty distribution has %d bins", len(d.Bins))
	}
}

func TestOutlierThreshold(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := OutlierThreshold(values, 0); got != 5 {
		t.Errorf("OutlierThreshold(k=0) = %f, want 5", got)
	}

	want := 5 + 1.5*math.Sqrt(32.0/7.0)
	if got := OutlierThreshold(values, 1.5); math.Abs(got-want) > 1e-9 {
		t.Errorf("OutlierThreshold(k=1.5) = %f, want %f", got, want)
	}

	if got := OutlierThreshold(nil, 1.5); got != 0 {
		t.Errorf("OutlierThreshold(nil) = %f, want 0", got)
	}
	if got := OutlierThreshold([]float64{3}, 1.5); got != 3 {
		t.Errorf("OutlierThreshold(single) = %f, want 3", got)
	}
}

func TestNodeValuesAreInclusive(t *testing.T) {
	f := mustParse(t)

	got := NodeValues(f.Trees, "time")
	expected := []float64{10, 6, 2, 3, 0.5}
	if len(got) != len(expected) {
		t.Fatalf("NodeValues() = %v, want %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("NodeValues()[%d] = %f, want %f", i, got[i], expected[i])
		}
	}
}
