/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package forest

import (
	"testing"

	"github.com/ijuttt/cctview/internal/aggregate"
	"github.com/ijuttt/cctview/internal/analysis"
	"github.com/ijuttt/cctview/internal/color"
	"github.com/ijuttt/cctview/internal/model"
	"github.com/ijuttt/cctview/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `[
	{
		"name": "main", "frame": {"name": "main"},
		"metrics": {"time": 1, "time (inc)": 10},
		"attributes": {"module": "app"},
		"children": [
			{"name": "solve", "frame": {"name": "solve"},
				"metrics": {"time": 4, "time (inc)": 6},
				"attributes": {"module": "libsolve"},
				"children": [
					{"name": "wait", "frame": {"name": "MPI_Wait"}, "metrics": {"time": 2, "time (inc)": 2}, "attributes": {"module": "mpi"}}
				]},
			{"name": "io", "frame": {"name": "io"}, "metrics": {"time": 3, "time (inc)": 3}, "attributes": {"module": "app"}},
			{"name": "idle", "frame": {"name": "idle"}, "metrics": {"time": 0, "time (inc)": 0}}
		]
	},
	{"name": "main", "frame": {"name": "main"}, "metrics": {"time": 0.5, "time (inc)": 0.5}}
]`

func newForest(t *testing.T) *Forest {
	t.Helper()
	in, err := model.ParseForest([]byte(doc))
	require.NoError(t, err)
	f, err := New(in)
	require.NoError(t, err)
	return f
}

func build(t *testing.T, f *Forest, s SessionState) SessionState {
	t.Helper()
	got, err := f.Rebuild(s)
	require.NoError(t, err)
	return got
}

func treeBounds(t *testing.T, f *Forest, metric string, unified bool, index int) stats.Bounds {
	t.Helper()
	b, err := f.Bounds(metric, unified, index)
	require.NoError(t, err)
	return b
}

func aggregateBounds(t *testing.T, f *Forest, metric string) stats.Bounds {
	t.Helper()
	b, err := f.AggregateBounds(metric)
	require.NoError(t, err)
	return b
}

// drain empties ch and reports whether a signal was pending.
func drain(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestNewRejectsNil(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestDefaultSession(t *testing.T) {
	f := newForest(t)
	s := DefaultSession(f.Input())

	assert.Equal(t, "time", s.PrimaryMetric)
	assert.Equal(t, "time (inc)", s.SecondaryMetric)
	assert.Equal(t, aggregate.ModeFlagZeros, s.Mode)
	assert.False(t, s.PruneEnabled)
	assert.Equal(t, 1.5, s.Strictness)
	assert.Equal(t, LegendUnified, s.Legend)
	assert.Equal(t, color.SchemeDefault, s.ColorScheme)
	assert.Equal(t, AllTrees, s.ActiveTree)
	assert.Equal(t, aggregate.ModeFlagZeros, s.EffectiveMode())
}

func TestRebuildDefault(t *testing.T) {
	f := newForest(t)
	ch := f.Subscribe()
	assert.Nil(t, f.WorkingTree(0))

	s := build(t, f, DefaultSession(f.Input()))
	assert.Equal(t, 0.0, s.Threshold)
	assert.True(t, drain(ch))

	wt := f.WorkingTree(0)
	require.NotNil(t, wt)
	assert.Equal(t, uint64(1), wt.Generation())
	// idle is elided by the zero pass.
	require.Len(t, wt.Aggregates(), 1)
	assert.Equal(t, "idle subtree", wt.Label(wt.Aggregates()[0]))

	assert.Equal(t, 0.5, treeBounds(t, f, "time", true, 0).Min)
	assert.Equal(t, 4.0, treeBounds(t, f, "time", true, 0).Max)
	assert.Equal(t, 1.0, treeBounds(t, f, "time", false, 0).Min)
	assert.Equal(t, 0.5, treeBounds(t, f, "time", false, 1).Max)
}

func TestRebuildUnknownMetric(t *testing.T) {
	f := newForest(t)
	good := build(t, f, DefaultSession(f.Input()))

	bad := good
	bad.PrimaryMetric = "nope"
	got, err := f.Rebuild(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownMetric)
	var ume *UnknownMetricError
	require.ErrorAs(t, err, &ume)
	assert.Equal(t, "nope", ume.Metric)
	assert.Equal(t, good, got)

	bad = good
	bad.SecondaryMetric = "module"
	_, err = f.Rebuild(bad)
	assert.ErrorIs(t, err, ErrUnknownMetric)

	bad = good
	bad.ActiveTree = 2
	_, err = f.Rebuild(bad)
	assert.Error(t, err)

	assert.Equal(t, uint64(1), f.WorkingTree(0).Generation())
}

func TestRebuildOutlierThreshold(t *testing.T) {
	f := newForest(t)
	s := DefaultSession(f.Input())
	s.PruneEnabled = true

	got := build(t, f, s)

	want := analysis.OutlierThreshold(analysis.NodeValues(f.Input().Trees, "time"), 1.5)
	assert.InDelta(t, want, got.Threshold, 1e-12)
	assert.Equal(t, aggregate.ModeFlagOutliers, f.WorkingTree(0).Mode())
	assert.Equal(t, got.Threshold, f.WorkingTree(0).Threshold())
}

func TestToggleUpdatesStats(t *testing.T) {
	f := newForest(t)
	build(t, f, DefaultSession(f.Input()))
	ch := f.Subscribe()

	ref, visible := f.Lookup(0, 1) // solve
	require.True(t, visible)

	action, err := f.Toggle(ref)
	require.NoError(t, err)
	assert.Equal(t, aggregate.ActionCollapse, action)
	assert.True(t, drain(ch))

	// solve(4) and wait(2) are gone from the visible plain nodes.
	assert.Equal(t, 3.0, treeBounds(t, f, "time", false, 0).Max)
	assert.Equal(t, 6.0, aggregateBounds(t, f, "time").Max)

	action, err = f.Toggle(ref)
	require.NoError(t, err)
	assert.Equal(t, aggregate.ActionExpand, action)
	assert.Equal(t, 4.0, treeBounds(t, f, "time", false, 0).Max)
}

func TestToggleStaleGeneration(t *testing.T) {
	f := newForest(t)
	build(t, f, DefaultSession(f.Input()))

	ref, _ := f.Lookup(0, 1)
	build(t, f, DefaultSession(f.Input()))

	_, err := f.Toggle(ref)
	assert.ErrorIs(t, err, aggregate.ErrStaleNode)

	_, err = f.Toggle(NodeRef{Tree: 9})
	assert.ErrorIs(t, err, aggregate.ErrStaleNode)

	fresh, _ := f.Lookup(0, 1)
	_, err = f.Toggle(fresh)
	assert.NoError(t, err)
}

func TestSetViewKeepsManualState(t *testing.T) {
	f := newForest(t)
	s := build(t, f, DefaultSession(f.Input()))

	ref, _ := f.Lookup(0, 1)
	_, err := f.Toggle(ref)
	require.NoError(t, err)

	s.Legend = s.Legend.Next()
	s.ColorScheme = s.ColorScheme.Next()
	s.ActiveTree = 1
	got, err := f.SetView(s)
	require.NoError(t, err)
	assert.Equal(t, LegendIndividual, got.Legend)
	assert.Equal(t, uint64(1), f.WorkingTree(0).Generation())
	assert.False(t, f.WorkingTree(0).Visible(ref.Node))

	s.Mode = aggregate.ModeNone
	_, err = f.SetView(s)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), f.WorkingTree(0).Generation())
}

func TestColorFor(t *testing.T) {
	f := newForest(t)
	s := build(t, f, DefaultSession(f.Input()))
	unified := color.Palette(color.SchemeDefault, false)

	solve, _ := f.Lookup(0, 1)
	c, err := f.ColorFor(solve, s)
	require.NoError(t, err)
	assert.Equal(t, unified[0], c)

	other, _ := f.Lookup(1, 0)
	c, err = f.ColorFor(other, s)
	require.NoError(t, err)
	assert.Equal(t, unified[5], c)

	// Individual legends bin against the tree's own single value.
	s.Legend = LegendIndividual
	c, err = f.ColorFor(other, s)
	require.NoError(t, err)
	assert.Equal(t, color.TreePalette(color.SchemeDefault, 1, false)[0], c)

	s.Legend = LegendUnified
	s.PrimaryMetric = "module"
	s, err = f.SetView(s)
	require.NoError(t, err)

	wait, _ := f.Lookup(0, 2)
	c, err = f.ColorFor(wait, s)
	require.NoError(t, err)
	assert.Equal(t, color.Palette(color.SchemeDefault, true)[2], c)

	// Switching to an attribute re-prunes by the secondary metric.
	other, _ = f.Lookup(1, 0)
	c, err = f.ColorFor(other, s)
	require.NoError(t, err)
	assert.Equal(t, color.Neutral, c)

	_, err = f.ColorFor(NodeRef{Tree: 0, Node: 99, Generation: wait.Generation}, s)
	assert.ErrorIs(t, err, aggregate.ErrStaleNode)
}

func TestLegendFor(t *testing.T) {
	f := newForest(t)
	s := build(t, f, DefaultSession(f.Input()))

	l, p := f.LegendFor(0, s)
	require.False(t, l.Categorical())
	assert.Equal(t, 4.0, l.Ranges[0].Hi)
	assert.Equal(t, 0.5, l.Ranges[5].Lo)
	assert.Equal(t, color.Palette(color.SchemeDefault, false), p)

	s.Legend = LegendIndividual
	l, p = f.LegendFor(0, s)
	assert.Equal(t, 1.0, l.Ranges[5].Lo)
	assert.Equal(t, color.TreePalette(color.SchemeDefault, 0, false), p)

	s.PrimaryMetric = "module"
	s.Legend = LegendUnified
	l, _ = f.LegendFor(0, s)
	assert.True(t, l.Categorical())
	assert.Equal(t, []string{"app", "libsolve", "mpi"}, l.Labels)
}

func TestBuildSelectionQuery(t *testing.T) {
	f := newForest(t)
	build(t, f, DefaultSession(f.Input()))

	main, _ := f.Lookup(0, 0)
	solve, _ := f.Lookup(0, 1)
	wait, _ := f.Lookup(0, 2)

	same := func(NodeRef) float64 { return 1 }
	q, err := f.BuildSelectionQuery([]NodeRef{main, solve, wait}, same)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"main"},"*",{"name":"MPI_Wait"}]`, q.String())

	q, err = f.BuildSelectionQuery(nil, same)
	require.NoError(t, err)
	assert.Equal(t, `["*"]`, q.String())

	build(t, f, DefaultSession(f.Input()))
	_, err = f.BuildSelectionQuery([]NodeRef{main}, same)
	assert.ErrorIs(t, err, aggregate.ErrStaleNode)
}

func TestSubscribeCoalesces(t *testing.T) {
	f := newForest(t)
	ch := f.Subscribe()

	build(t, f, DefaultSession(f.Input()))
	build(t, f, DefaultSession(f.Input()))

	assert.True(t, drain(ch))
	assert.False(t, drain(ch))

	f.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)
}

func TestEmptyForest(t *testing.T) {
	f, err := New(&model.Forest{})
	require.NoError(t, err)

	s, err := f.Rebuild(DefaultSession(f.Input()))
	require.NoError(t, err)
	assert.Equal(t, 0, f.NumTrees())
	assert.True(t, f.bounds(s.PrimaryMetric, true, AllTrees).Empty)
}

func TestBoundsUnknownMetric(t *testing.T) {
	f := newForest(t)
	build(t, f, DefaultSession(f.Input()))

	for _, metric := range []string{"cycles", "module"} {
		_, err := f.Bounds(metric, true, AllTrees)
		assert.ErrorIs(t, err, ErrUnknownMetric, metric)

		_, err = f.AggregateBounds(metric)
		var um *UnknownMetricError
		require.ErrorAs(t, err, &um, metric)
		assert.Equal(t, metric, um.Metric)
	}
}

func TestRebuildFailureKeepsPreviousState(t *testing.T) {
	f := newForest(t)
	s := build(t, f, DefaultSession(f.Input()))
	ref, ok := f.Lookup(0, 1) // solve
	require.True(t, ok)
	before := treeBounds(t, f, "time", false, 0)
	require.Equal(t, 1.0, before.Min)

	// Break the second tree so pruning fails after the first succeeded.
	delete(f.Input().Trees[1].Nodes[0].Metrics, "time")

	next := s
	next.Mode = aggregate.ModeNone
	_, err := f.Rebuild(next)
	require.ErrorIs(t, err, model.ErrDataShape)

	// idle(0) would be visible in tree 0 under the failed pass.
	assert.Equal(t, before, treeBounds(t, f, "time", false, 0))
	assert.Equal(t, 0.5, treeBounds(t, f, "time", false, 1).Max)
	assert.Equal(t, s, f.State())
	assert.Equal(t, ref.Generation, f.WorkingTree(0).Generation())

	_, err = f.ColorFor(ref, f.State())
	assert.NoError(t, err)
	assert.Equal(t, ref, f.Ref(0, ref.Node))
}
