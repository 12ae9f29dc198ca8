/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package app translates user events into forest operations and keeps the
// derived selection state (query, node table) in a thread-safe manner.
package app

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/ijuttt/cctview/internal/aggregate"
	"github.com/ijuttt/cctview/internal/color"
	"github.com/ijuttt/cctview/internal/forest"
	"github.com/ijuttt/cctview/internal/query"
)

// MetricSlot names which metric a selection event changes.
type MetricSlot uint8

const (
	SlotPrimary MetricSlot = iota
	SlotSecondary
)

// NodeRow is one line of the selected-node table.
type NodeRow struct {
	Ref       forest.NodeRef
	Label     string
	Depth     int
	Aggregate bool
	// Values follows the forest's metric columns.
	Values []float64
}

// Controller holds the session state and the current selection.
type Controller struct {
	mu        sync.RWMutex
	forest    *forest.Forest
	state     forest.SessionState
	selection []forest.NodeRef
	query     query.Query
	logger    *slog.Logger
	notes     forest.Notifier
}

// NewController applies s to f and returns a controller for it.
func NewController(f *forest.Forest, s forest.SessionState, logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.Default()
	}
	applied, err := f.Rebuild(s)
	if err != nil {
		return nil, errors.Wrap(err, "initial rebuild")
	}
	return &Controller{
		forest: f,
		state:  applied,
		query:  query.Build(nil),
		logger: logger,
	}, nil
}

// Forest returns the controlled forest. Callers must only read from it.
func (c *Controller) Forest() *forest.Forest { return c.forest }

// State returns the current session state.
func (c *Controller) State() forest.SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe returns a channel signalled after every handled event.
func (c *Controller) Subscribe() <-chan struct{} { return c.notes.Subscribe() }

// -----------------------------------------------------------------------------
// Session events
// -----------------------------------------------------------------------------

// SelectMetric sets the primary or secondary metric.
func (c *Controller) SelectMetric(slot MetricSlot, name string) error {
	return c.update(func(s *forest.SessionState) {
		if slot == SlotSecondary {
			s.SecondaryMetric = name
		} else {
			s.PrimaryMetric = name
		}
	})
}

// SetStrictness sets the outlier multiplier.
func (c *Controller) SetStrictness(v float64) error {
	return c.update(func(s *forest.SessionState) { s.Strictness = v })
}

// TogglePrune switches outlier pruning on or off.
func (c *Controller) TogglePrune() error {
	return c.update(func(s *forest.SessionState) { s.PruneEnabled = !s.PruneEnabled })
}

// CycleColorScheme moves to the next color scheme.
func (c *Controller) CycleColorScheme() error {
	return c.update(func(s *forest.SessionState) { s.ColorScheme = s.ColorScheme.Next() })
}

// ToggleLegend flips between unified and per-tree legends.
func (c *Controller) ToggleLegend() error {
	return c.update(func(s *forest.SessionState) { s.Legend = s.Legend.Next() })
}

// SetActiveTree restricts the view to one tree, or all with forest.AllTrees.
func (c *Controller) SetActiveTree(index int) error {
	return c.update(func(s *forest.SessionState) { s.ActiveTree = index })
}

// ResetView rebuilds every working tree from the current state, dropping
// manual collapses and the selection.
func (c *Controller) ResetView() error {
	c.mu.Lock()
	applied, err := c.forest.Rebuild(c.state)
	if err == nil {
		c.state = applied
		c.selection = nil
		c.refreshLocked()
	}
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.logger.Info("app: reset view", "state", applied.String())
	c.notes.Notify()
	return nil
}

func (c *Controller) update(mutate func(*forest.SessionState)) error {
	c.mu.Lock()
	next := c.state
	mutate(&next)
	before := c.state
	applied, err := c.forest.SetView(next)
	if err == nil {
		c.state = applied
		c.pruneSelectionLocked()
		c.refreshLocked()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("app: rejected state change", "error", err)
		return err
	}
	if before != applied {
		c.logger.Debug("app: state", "state", applied.String())
	}
	c.notes.Notify()
	return nil
}

// -----------------------------------------------------------------------------
// Node events
// -----------------------------------------------------------------------------

// Click selects a single node.
func (c *Controller) Click(ref forest.NodeRef) error {
	return c.Brush([]forest.NodeRef{ref})
}

// Brush replaces the selection with refs. An empty slice clears it.
func (c *Controller) Brush(refs []forest.NodeRef) error {
	c.mu.Lock()
	for _, r := range refs {
		if wt := c.forest.WorkingTree(r.Tree); wt == nil || r.Generation != wt.Generation() || !wt.Visible(r.Node) {
			c.mu.Unlock()
			return errors.Wrapf(aggregate.ErrStaleNode, "select node %d of tree %d", r.Node, r.Tree)
		}
	}
	c.selection = c.traversalOrder(refs)
	c.refreshLocked()
	c.mu.Unlock()

	c.notes.Notify()
	return nil
}

// DoubleClick toggles a node between collapsed and expanded.
func (c *Controller) DoubleClick(ref forest.NodeRef) (aggregate.Action, error) {
	c.mu.Lock()
	action, err := c.forest.Toggle(ref)
	if err == nil {
		c.pruneSelectionLocked()
		c.refreshLocked()
	}
	c.mu.Unlock()

	if err != nil {
		return action, err
	}
	c.notes.Notify()
	return action, nil
}

// Selection returns the selected nodes in traversal order.
func (c *Controller) Selection() []forest.NodeRef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]forest.NodeRef, len(c.selection))
	copy(out, c.selection)
	return out
}

// Query returns the call-path query of the selection.
func (c *Controller) Query() query.Query {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// NodeTable returns one row per selected node.
func (c *Controller) NodeTable() []NodeRow {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metrics := c.forest.Input().MetricColumns
	rows := make([]NodeRow, 0, len(c.selection))
	for _, r := range c.selection {
		wt := c.forest.WorkingTree(r.Tree)
		n := wt.Node(r.Node)
		row := NodeRow{
			Ref:       r,
			Label:     wt.Label(r.Node),
			Depth:     n.Depth,
			Aggregate: n.IsAggregate(),
			Values:    make([]float64, len(metrics)),
		}
		for i, m := range metrics {
			row.Values[i], _ = wt.NodeMetric(r.Node, m)
		}
		rows = append(rows, row)
	}
	return rows
}

// Legend returns the legend and palette for tree index.
func (c *Controller) Legend(index int) (color.Legend, []lipgloss.Color) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.forest.LegendFor(index, c.state)
}

// ColorFor returns the color of a node under the current state.
func (c *Controller) ColorFor(ref forest.NodeRef) lipgloss.Color {
	c.mu.RLock()
	defer c.mu.RUnlock()
	col, err := c.forest.ColorFor(ref, c.state)
	if err != nil {
		return color.Neutral
	}
	return col
}

// pruneSelectionLocked drops selected nodes that a rebuild or toggle made
// stale or invisible.
func (c *Controller) pruneSelectionLocked() {
	kept := c.selection[:0]
	for _, r := range c.selection {
		wt := c.forest.WorkingTree(r.Tree)
		if wt != nil && r.Generation == wt.Generation() && wt.Visible(r.Node) {
			kept = append(kept, r)
		}
	}
	c.selection = kept
}

func (c *Controller) refreshLocked() {
	layouts := make(map[int]map[aggregate.NodeID]float64)
	x := func(r forest.NodeRef) float64 {
		l, ok := layouts[r.Tree]
		if !ok {
			l = LeafCenters(c.forest.WorkingTree(r.Tree))
			layouts[r.Tree] = l
		}
		return l[r.Node]
	}

	q, err := c.forest.BuildSelectionQuery(c.selection, x)
	if err != nil {
		c.logger.Warn("app: selection query", "error", err)
		c.selection = nil
		q = query.Build(nil)
	}
	c.query = q
}

// traversalOrder sorts refs by tree, then preorder position.
func (c *Controller) traversalOrder(refs []forest.NodeRef) []forest.NodeRef {
	order := make(map[forest.NodeRef]int, len(refs))
	for _, r := range refs {
		if _, done := order[r]; done {
			continue
		}
		for i, id := range c.forest.WorkingTree(r.Tree).VisibleNodes() {
			if id == r.Node {
				order[r] = i
				break
			}
		}
	}

	out := make([]forest.NodeRef, 0, len(order))
	for r := range order {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tree != out[j].Tree {
			return out[i].Tree < out[j].Tree
		}
		return order[out[i]] < order[out[j]]
	})
	return out
}
