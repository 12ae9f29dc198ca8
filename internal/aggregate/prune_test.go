/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package aggregate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ijuttt/cctview/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample:
//
//	R(1)
//	├── a(0) ── a1(0)
//	├── b(5) ─┬ b1(2)
//	│         └ b2(0)
//	├── c(0)
//	└── d(3)
const sample = `{
	"name": "R", "frame": {"name": "R"}, "metrics": {"time": 1, "alloc": 0},
	"children": [
		{"name": "a", "frame": {"name": "a"}, "metrics": {"time": 0, "alloc": 1},
			"children": [{"name": "a1", "frame": {"name": "a1"}, "metrics": {"time": 0, "alloc": 2}}]},
		{"name": "b", "frame": {"name": "b"}, "metrics": {"time": 5, "alloc": 1},
			"children": [
				{"name": "b1", "frame": {"name": "b1"}, "metrics": {"time": 2, "alloc": 1}},
				{"name": "b2", "frame": {"name": "b2"}, "metrics": {"time": 0, "alloc": 1}}
			]},
		{"name": "c", "frame": {"name": "c"}, "metrics": {"time": 0, "alloc": 4}},
		{"name": "d", "frame": {"name": "d"}, "metrics": {"time": 3, "alloc": 1}}
	]
}`

func loadTree(t *testing.T, doc string) *model.ProfileTree {
	t.Helper()
	f, err := model.ParseForest([]byte(doc))
	require.NoError(t, err)
	require.Len(t, f.Trees, 1)
	return f.Trees[0]
}

// shape renders the visible structure: plain nodes as name(value), auto
// surrogates as {elided}(value), manual surrogates as <elided>(value).
func shape(wt *WorkingTree) string {
	var b strings.Builder
	var visit func(id NodeID)
	visit = func(id NodeID) {
		n := wt.Node(id)
		if n.IsAggregate() {
			names := make([]string, len(n.Elided))
			for i, e := range n.Elided {
				names[i] = wt.FrameName(e)
			}
			open, closing := "{", "}"
			if n.State == ManuallyCollapsed {
				open, closing = "<", ">"
			}
			fmt.Fprintf(&b, "%s%s%s(%g)", open, strings.Join(names, " "), closing, n.Value)
		} else {
			fmt.Fprintf(&b, "%s(%g)", wt.FrameName(id), n.Value)
		}
		if len(n.Children) > 0 {
			b.WriteString("[")
			for i, c := range n.Children {
				if i > 0 {
					b.WriteString(" ")
				}
				visit(c)
			}
			b.WriteString("]")
		}
	}
	if wt.Root() != NoNode {
		visit(wt.Root())
	}
	return b.String()
}

func TestPrunePostorderSum(t *testing.T) {
	tree := loadTree(t, sample)

	wt, err := Prune(tree, "time", ModeNone, 0, 1)
	require.NoError(t, err)

	var total float64
	for _, n := range tree.Nodes {
		total += n.Metrics["time"]
	}
	assert.Equal(t, total, wt.Node(wt.Root()).Value)
	assert.Equal(t, "R(11)[a(0)[a1(0)] b(7)[b1(2) b2(0)] c(0) d(3)]", shape(wt))
	assert.Empty(t, wt.Aggregates())
}

func TestPruneModes(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		threshold float64
		want      string
	}{
		{
			name: "none keeps everything",
			mode: ModeNone,
			want: "R(11)[a(0)[a1(0)] b(7)[b1(2) b2(0)] c(0) d(3)]",
		},
		{
			name: "zeros elides exactly-zero subtrees",
			mode: ModeFlagZeros,
			want: "R(11)[{a c}(0) b(7)[b1(2) {b2}(0)] d(3)]",
		},
		{
			name:      "outliers below threshold",
			mode:      ModeFlagOutliers,
			threshold: 4,
			want:      "R(11)[{a c d}(3) b(7)[{b1 b2}(2)]]",
		},
		{
			name:      "value equal to threshold is kept",
			mode:      ModeFlagOutliers,
			threshold: 3,
			want:      "R(11)[{a c}(0) b(7)[{b1 b2}(2)] d(3)]",
		},
		{
			name:      "threshold above everything keeps only the root",
			mode:      ModeFlagOutliers,
			threshold: 100,
			want:      "R(11)[{a b c d}(10)]",
		},
	}

	tree := loadTree(t, sample)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wt, err := Prune(tree, "time", tt.mode, tt.threshold, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, shape(wt))
		})
	}
}

func TestPruneScenarioOutlier(t *testing.T) {
	tree := loadTree(t, `{
		"name": "A", "frame": {"name": "A"}, "metrics": {"value": 0},
		"children": [
			{"name": "B", "frame": {"name": "B"}, "metrics": {"value": 1}},
			{"name": "C", "frame": {"name": "C"}, "metrics": {"value": 9}}
		]
	}`)

	wt, err := Prune(tree, "value", ModeFlagOutliers, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, "A(10)[{B}(1) C(9)]", shape(wt))

	aggs := wt.Aggregates()
	require.Len(t, aggs, 1)
	s := wt.Node(aggs[0])
	assert.Equal(t, AutoElided, s.State)
	assert.Equal(t, 1.0, s.AggregateMetrics["value"])
	assert.Equal(t, "B subtree", wt.Label(s.ID))
}

func TestPruneElisionCompleteness(t *testing.T) {
	tree := loadTree(t, sample)
	const cutoff = 4.0

	wt, err := Prune(tree, "time", ModeFlagOutliers, cutoff, 1)
	require.NoError(t, err)

	wt.Walk(func(n *WorkingNode) bool {
		if n.IsAggregate() {
			for _, e := range n.Elided {
				assert.Less(t, wt.Node(e).Value, cutoff)
				assert.False(t, wt.Visible(e))
			}
			assert.Empty(t, n.Children)
			return true
		}
		if n.ID != wt.Root() {
			assert.GreaterOrEqual(t, n.Value, cutoff)
		}
		return true
	})
}

func TestPruneAggregateMetricsSumSubtrees(t *testing.T) {
	tree := loadTree(t, sample)

	wt, err := Prune(tree, "time", ModeFlagZeros, 0, 1)
	require.NoError(t, err)

	root := wt.Node(wt.Root())
	s := wt.Node(root.Children[0])
	require.True(t, s.IsAggregate())

	// a(1) + a1(2) + c(4)
	assert.Equal(t, 7.0, s.AggregateMetrics["alloc"])
	assert.Equal(t, 0.0, s.AggregateMetrics["time"])
	assert.Equal(t, "children of R", wt.Label(s.ID))

	// The elided subtree keeps its structure for later restoration.
	a := wt.Node(s.Elided[0])
	require.Len(t, a.Children, 1)
	assert.Equal(t, "a1", wt.FrameName(a.Children[0]))
	assert.False(t, wt.Visible(a.Children[0]))
}

func TestPruneIdempotent(t *testing.T) {
	tree := loadTree(t, sample)

	first, err := Prune(tree, "time", ModeFlagOutliers, 4, 1)
	require.NoError(t, err)
	second, err := Prune(tree, "time", ModeFlagOutliers, 4, 2)
	require.NoError(t, err)

	assert.Equal(t, shape(first), shape(second))
	assert.Equal(t, first.VisibleNodes(), second.VisibleNodes())

	// A different pass in between leaves no residue.
	_, err = Prune(tree, "alloc", ModeFlagZeros, 0, 3)
	require.NoError(t, err)
	third, err := Prune(tree, "time", ModeFlagOutliers, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, shape(first), shape(third))
}

func TestPruneDegenerateTrees(t *testing.T) {
	wt, err := Prune(&model.ProfileTree{}, "time", ModeFlagZeros, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, NoNode, wt.Root())
	assert.Empty(t, wt.VisibleNodes())
	assert.Empty(t, wt.Aggregates())

	leaf := loadTree(t, `{"name": "only", "frame": {"name": "only"}, "metrics": {"time": 0}}`)
	wt, err = Prune(leaf, "time", ModeFlagZeros, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "only(0)", shape(wt))
}

func TestPruneMissingMetric(t *testing.T) {
	tree := loadTree(t, sample)

	_, err := Prune(tree, "nope", ModeNone, 0, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataShape)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeNone, ModeFlagZeros, ModeFlagOutliers} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("bogus")
	assert.Error(t, err)
}
