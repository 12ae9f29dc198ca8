/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package stats

import (
	"testing"

	"github.com/ijuttt/cctview/internal/aggregate"
	"github.com/ijuttt/cctview/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forestDoc = `[
	{
		"name": "main", "frame": {"name": "main"},
		"metrics": {"time": 1, "time (inc)": 10},
		"attributes": {"module": "app"},
		"children": [
			{"name": "solve", "frame": {"name": "solve"},
				"metrics": {"time": 4, "time (inc)": 6},
				"attributes": {"module": "libsolve"},
				"children": [
					{"name": "wait", "frame": {"name": "MPI_Wait"}, "metrics": {"time": 2, "time (inc)": 2}, "attributes": {"module": "app"}}
				]},
			{"name": "io", "frame": {"name": "io"}, "metrics": {"time": 3, "time (inc)": 3}, "attributes": {"rank": 3}}
		]
	},
	{"name": "main", "frame": {"name": "main"}, "metrics": {"time": 0.5, "time (inc)": 0.5}, "attributes": {"module": "mpi"}}
]`

func setup(t *testing.T) (*model.Forest, *Engine) {
	t.Helper()
	f, err := model.ParseForest([]byte(forestDoc))
	require.NoError(t, err)
	return f, New(f.MetricColumns, f.AttributeColumns, len(f.Trees))
}

func update(t *testing.T, f *model.Forest, e *Engine, mode aggregate.Mode, threshold float64) {
	t.Helper()
	for i, tree := range f.Trees {
		wt, err := aggregate.Prune(tree, "time", mode, threshold, 1)
		require.NoError(t, err)
		require.NoError(t, e.Update(i, wt))
	}
}

func TestNewEngineIsEmpty(t *testing.T) {
	_, e := setup(t)

	b := e.Forest().Bounds("time")
	assert.True(t, b.Empty)
	assert.Equal(t, 0.0, b.Min)
	assert.Equal(t, 0.0, b.Max)
	assert.True(t, e.Aggregate("time").Empty)
	assert.Empty(t, e.Forest().Domain("module"))
}

func TestUpdateBounds(t *testing.T) {
	f, e := setup(t)
	update(t, f, e, aggregate.ModeNone, 0)

	assert.Equal(t, Bounds{Min: 1, Max: 4}, e.Tree(0).Bounds("time"))
	assert.Equal(t, Bounds{Min: 0.5, Max: 0.5}, e.Tree(1).Bounds("time"))
	assert.Equal(t, Bounds{Min: 0.5, Max: 4}, e.Forest().Bounds("time"))
	assert.Equal(t, Bounds{Min: 0.5, Max: 10}, e.Forest().Bounds("time (inc)"))

	assert.Equal(t, []string{"app", "libsolve"}, e.Tree(0).Domain("module"))
	assert.Equal(t, []string{"3"}, e.Tree(0).Domain("rank"))
	assert.Equal(t, []string{"app", "libsolve", "mpi"}, e.Forest().Domain("module"))
	assert.True(t, e.Aggregate("time").Empty)
}

func TestForestMaxFollowsTrees(t *testing.T) {
	f, e := setup(t)

	for _, threshold := range []float64{0, 7, 0} {
		update(t, f, e, aggregate.ModeFlagOutliers, threshold)

		for _, m := range f.MetricColumns {
			want := e.Tree(0).Bounds(m)
			for i := 1; i < e.NumTrees(); i++ {
				want = want.merge(e.Tree(i).Bounds(m))
			}
			assert.Equal(t, want, e.Forest().Bounds(m), "threshold %v metric %s", threshold, m)
		}
	}
}

func TestUpdateAfterPruneShrinksBounds(t *testing.T) {
	f, e := setup(t)
	update(t, f, e, aggregate.ModeNone, 0)
	require.Equal(t, 4.0, e.Forest().Bounds("time").Max)

	// solve(6) and io(3) fall under 7 and collapse into one surrogate.
	update(t, f, e, aggregate.ModeFlagOutliers, 7)

	assert.Equal(t, Bounds{Min: 1, Max: 1}, e.Tree(0).Bounds("time"))
	assert.Equal(t, Bounds{Min: 0.5, Max: 1}, e.Forest().Bounds("time"))
	assert.Equal(t, []string{"app"}, e.Tree(0).Domain("module"))
	assert.Empty(t, e.Tree(0).Domain("rank"))

	assert.Equal(t, Bounds{Min: 9, Max: 9}, e.Aggregate("time"))
	assert.Equal(t, Bounds{Min: 11, Max: 11}, e.Aggregate("time (inc)"))
}

func TestUpdateNilTreeAndRange(t *testing.T) {
	f, e := setup(t)
	update(t, f, e, aggregate.ModeNone, 0)

	require.NoError(t, e.Update(0, nil))
	assert.True(t, e.Tree(0).Bounds("time").Empty)
	assert.Equal(t, Bounds{Min: 0.5, Max: 0.5}, e.Forest().Bounds("time"))

	assert.Error(t, e.Update(2, nil))
	assert.Error(t, e.Update(-1, nil))
	assert.True(t, e.Tree(5).Bounds("time").Empty)
}

func TestZeroTrees(t *testing.T) {
	e := New([]string{"time"}, nil, 0)
	assert.Equal(t, 0, e.NumTrees())
	assert.True(t, e.Forest().Bounds("time").Empty)
	assert.True(t, e.Forest().Bounds("unknown").Empty)
}
