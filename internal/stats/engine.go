/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package stats tracks the value bounds of the visible nodes of every
// working tree in a forest, both per tree and forest-wide.
package stats

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/ijuttt/cctview/internal/aggregate"
)

// Bounds is a closed value range. Empty bounds have no samples and read as
// {0, 0}.
type Bounds struct {
	Min   float64
	Max   float64
	Empty bool
}

// Range returns Max - Min.
func (b Bounds) Range() float64 { return b.Max - b.Min }

func emptyBounds() Bounds { return Bounds{Empty: true} }

func (b Bounds) add(v float64) Bounds {
	if b.Empty {
		return Bounds{Min: v, Max: v}
	}
	return Bounds{Min: math.Min(b.Min, v), Max: math.Max(b.Max, v)}
}

func (b Bounds) merge(o Bounds) Bounds {
	switch {
	case o.Empty:
		return b
	case b.Empty:
		return o
	}
	return Bounds{Min: math.Min(b.Min, o.Min), Max: math.Max(b.Max, o.Max)}
}

// Snapshot holds the bounds of every metric and the domain of every
// attribute for one scope (a tree or the whole forest).
type Snapshot struct {
	Metrics    map[string]Bounds
	Attributes map[string][]string
}

// Bounds returns the bounds of metric, empty when unknown.
func (s Snapshot) Bounds(metric string) Bounds {
	if b, ok := s.Metrics[metric]; ok {
		return b
	}
	return emptyBounds()
}

// Domain returns the ordered distinct values of attr.
func (s Snapshot) Domain(attr string) []string {
	return s.Attributes[attr]
}

// Engine holds per-tree snapshots and their folds. It is not safe for
// concurrent use; the forest serialises access.
type Engine struct {
	metrics    []string
	attributes []string

	trees      []Snapshot
	aggregates []map[string]Bounds

	forest    Snapshot
	aggregate map[string]Bounds
}

// New returns an engine for numTrees trees with every bound empty.
func New(metrics, attributes []string, numTrees int) *Engine {
	e := &Engine{
		metrics:    metrics,
		attributes: attributes,
		trees:      make([]Snapshot, numTrees),
		aggregates: make([]map[string]Bounds, numTrees),
	}
	for i := range e.trees {
		e.trees[i] = e.emptySnapshot()
		e.aggregates[i] = e.emptyMetricBounds()
	}
	e.refold()
	return e
}

// NumTrees returns the number of tracked trees.
func (e *Engine) NumTrees() int { return len(e.trees) }

// Update recomputes the statistics of tree index from its visible nodes and
// refolds the forest-wide and aggregate bounds. A nil tree clears them.
func (e *Engine) Update(index int, wt *aggregate.WorkingTree) error {
	if index < 0 || index >= len(e.trees) {
		return errors.Newf("stats: tree index %d out of range [0, %d)", index, len(e.trees))
	}

	snap := e.emptySnapshot()
	agg := e.emptyMetricBounds()

	if wt != nil {
		seen := make(map[string]map[string]struct{}, len(e.attributes))
		for _, a := range e.attributes {
			seen[a] = make(map[string]struct{})
		}

		wt.Walk(func(n *aggregate.WorkingNode) bool {
			if n.IsAggregate() {
				for _, m := range e.metrics {
					if v, ok := n.AggregateMetrics[m]; ok {
						agg[m] = agg[m].add(v)
					}
				}
				return true
			}
			for _, m := range e.metrics {
				if v, ok := wt.NodeMetric(n.ID, m); ok {
					snap.Metrics[m] = snap.Metrics[m].add(v)
				}
			}
			for _, a := range e.attributes {
				v, ok := wt.NodeAttribute(n.ID, a)
				if !ok {
					continue
				}
				if _, dup := seen[a][v]; dup {
					continue
				}
				seen[a][v] = struct{}{}
				snap.Attributes[a] = append(snap.Attributes[a], v)
			}
			return true
		})
	}

	e.trees[index] = snap
	e.aggregates[index] = agg
	e.refold()
	return nil
}

// Tree returns the snapshot of tree index.
func (e *Engine) Tree(index int) Snapshot {
	if index < 0 || index >= len(e.trees) {
		return e.emptySnapshot()
	}
	return e.trees[index]
}

// Forest returns the fold of all tree snapshots.
func (e *Engine) Forest() Snapshot { return e.forest }

// Aggregate returns the forest-wide bounds of surrogate aggregate metrics.
func (e *Engine) Aggregate(metric string) Bounds {
	if b, ok := e.aggregate[metric]; ok {
		return b
	}
	return emptyBounds()
}

// refold rebuilds the forest views from every tree snapshot.
func (e *Engine) refold() {
	forest := e.emptySnapshot()
	agg := e.emptyMetricBounds()

	for i, t := range e.trees {
		for _, m := range e.metrics {
			forest.Metrics[m] = forest.Metrics[m].merge(t.Metrics[m])
			agg[m] = agg[m].merge(e.aggregates[i][m])
		}
		for _, a := range e.attributes {
			forest.Attributes[a] = union(forest.Attributes[a], t.Attributes[a])
		}
	}

	e.forest = forest
	e.aggregate = agg
}

func (e *Engine) emptySnapshot() Snapshot {
	s := Snapshot{
		Metrics:    e.emptyMetricBounds(),
		Attributes: make(map[string][]string, len(e.attributes)),
	}
	return s
}

func (e *Engine) emptyMetricBounds() map[string]Bounds {
	m := make(map[string]Bounds, len(e.metrics))
	for _, name := range e.metrics {
		m[name] = emptyBounds()
	}
	return m
}

func union(dst, src []string) []string {
	for _, v := range src {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
