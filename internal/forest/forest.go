/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package forest owns a loaded profile forest together with its current
// working trees and statistics, and answers the color, legend and query
// requests of the presentation layer.
package forest

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/ijuttt/cctview/internal/aggregate"
	"github.com/ijuttt/cctview/internal/analysis"
	"github.com/ijuttt/cctview/internal/color"
	"github.com/ijuttt/cctview/internal/model"
	"github.com/ijuttt/cctview/internal/query"
	"github.com/ijuttt/cctview/internal/stats"
)

// NodeRef addresses a working node of one tree as of one pruning pass.
type NodeRef struct {
	Tree       int
	Node       aggregate.NodeID
	Generation uint64
}

// Option configures a Forest.
type Option func(*Forest)

// WithLogger sets the logger for rebuild and toggle events.
func WithLogger(l *slog.Logger) Option {
	return func(f *Forest) {
		if l != nil {
			f.logger = l
		}
	}
}

// Forest is not safe for concurrent use. Callers serialise access; only
// Subscribe may be used from other goroutines.
type Forest struct {
	in     *model.Forest
	trees  []*aggregate.WorkingTree
	stats  *stats.Engine
	state  SessionState
	gen    uint64
	built  bool
	logger *slog.Logger
	notes  Notifier
}

// New wraps in. No working trees exist until the first Rebuild.
func New(in *model.Forest, opts ...Option) (*Forest, error) {
	if in == nil {
		return nil, errors.New("forest: nil input forest")
	}
	f := &Forest{
		in:     in,
		trees:  make([]*aggregate.WorkingTree, len(in.Trees)),
		stats:  stats.New(in.MetricColumns, in.AttributeColumns, len(in.Trees)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.state = DefaultSession(in)
	return f, nil
}

// Input returns the immutable profile forest.
func (f *Forest) Input() *model.Forest { return f.in }

// NumTrees returns the number of trees.
func (f *Forest) NumTrees() int { return len(f.trees) }

// State returns the session state of the last Rebuild.
func (f *Forest) State() SessionState { return f.state }

// Stats returns the statistics engine.
func (f *Forest) Stats() *stats.Engine { return f.stats }

// WorkingTree returns the working tree of index, nil before the first
// Rebuild or when index is out of range.
func (f *Forest) WorkingTree(index int) *aggregate.WorkingTree {
	if index < 0 || index >= len(f.trees) {
		return nil
	}
	return f.trees[index]
}

// Subscribe returns a channel that receives a signal after every state
// change. Signals coalesce while unread.
func (f *Forest) Subscribe() <-chan struct{} { return f.notes.Subscribe() }

// Unsubscribe closes and forgets ch.
func (f *Forest) Unsubscribe(ch <-chan struct{}) { f.notes.Unsubscribe(ch) }

// -----------------------------------------------------------------------------
// Rebuild / Toggle
// -----------------------------------------------------------------------------

// Rebuild validates s and recomputes every working tree and its statistics,
// one tree at a time in index order. Manual collapses are discarded. It
// returns the state it applied, with Threshold filled in for outlier passes.
func (f *Forest) Rebuild(s SessionState) (SessionState, error) {
	if err := f.validate(s); err != nil {
		return f.state, err
	}

	metric := f.pruneMetric(s)
	mode := s.EffectiveMode()
	s.Threshold = 0
	if mode == aggregate.ModeFlagOutliers {
		s.Threshold = analysis.OutlierThreshold(analysis.NodeValues(f.in.Trees, metric), s.Strictness)
	}

	// Work on a scratch generation and engine; a failure leaves the
	// previous trees and their statistics in place.
	start := time.Now()
	gen := f.gen + 1
	st := stats.New(f.in.MetricColumns, f.in.AttributeColumns, len(f.in.Trees))
	trees := make([]*aggregate.WorkingTree, len(f.in.Trees))
	for i, t := range f.in.Trees {
		wt, err := aggregate.Prune(t, metric, mode, s.Threshold, gen)
		if err != nil {
			return f.state, errors.Wrapf(err, "prune tree %d", i)
		}
		if err := st.Update(i, wt); err != nil {
			return f.state, err
		}
		trees[i] = wt
	}
	rebuildDuration.Observe(time.Since(start).Seconds())

	for i, wt := range trees {
		visible := len(wt.VisibleNodes())
		visibleNodes.WithLabelValues(strconv.Itoa(i)).Set(float64(visible))
		f.logger.Debug("forest: rebuild",
			"tree", i, "metric", metric, "mode", mode.String(),
			"threshold", s.Threshold, "visible", visible, "generation", gen)
	}

	f.gen = gen
	f.stats = st
	f.trees = trees
	f.state = s
	f.built = true
	f.notes.Notify()
	return s, nil
}

// SetView applies the parts of s that need no recomputation: legend, color
// scheme, active tree and the primary metric when pruning does not depend
// on it. It falls back to Rebuild otherwise.
func (f *Forest) SetView(s SessionState) (SessionState, error) {
	if !f.built || f.structural(s) {
		return f.Rebuild(s)
	}
	if err := f.validate(s); err != nil {
		return f.state, err
	}
	s.Threshold = f.state.Threshold
	f.state = s
	f.notes.Notify()
	return s, nil
}

// structural reports whether moving from the current state to s changes
// the working trees.
func (f *Forest) structural(s SessionState) bool {
	cur := f.state
	return cur.EffectiveMode() != s.EffectiveMode() ||
		cur.Mode != s.Mode ||
		(s.PruneEnabled && cur.Strictness != s.Strictness) ||
		f.pruneMetric(cur) != f.pruneMetric(s)
}

// Toggle collapses or expands one node and refreshes the statistics of its
// tree.
func (f *Forest) Toggle(ref NodeRef) (aggregate.Action, error) {
	wt, err := f.resolve(ref)
	if err != nil {
		staleToggles.Inc()
		return aggregate.ActionNone, err
	}

	action, err := wt.ToggleManual(ref.Node)
	if err != nil {
		if errors.Is(err, aggregate.ErrStaleNode) {
			staleToggles.Inc()
		}
		return aggregate.ActionNone, err
	}
	if err := f.stats.Update(ref.Tree, wt); err != nil {
		return action, err
	}

	togglesTotal.WithLabelValues(action.String()).Inc()
	visibleNodes.WithLabelValues(strconv.Itoa(ref.Tree)).Set(float64(len(wt.VisibleNodes())))
	f.logger.Debug("forest: toggle", "tree", ref.Tree, "node", ref.Node, "action", action.String())

	f.notes.Notify()
	return action, nil
}

// Ref returns a reference to node of tree index in the current generation.
func (f *Forest) Ref(index int, node aggregate.NodeID) NodeRef {
	return NodeRef{Tree: index, Node: node, Generation: f.gen}
}

// Lookup re-resolves a profile node of tree index in the current working
// tree, reporting whether it is visible.
func (f *Forest) Lookup(index int, src model.NodeID) (NodeRef, bool) {
	wt := f.WorkingTree(index)
	if wt == nil {
		return NodeRef{}, false
	}
	id, ok := wt.Lookup(src)
	return f.Ref(index, id), ok
}

func (f *Forest) resolve(ref NodeRef) (*aggregate.WorkingTree, error) {
	wt := f.WorkingTree(ref.Tree)
	if wt == nil {
		return nil, errors.Wrapf(aggregate.ErrStaleNode, "tree %d", ref.Tree)
	}
	if ref.Generation != wt.Generation() {
		return nil, errors.Wrapf(aggregate.ErrStaleNode,
			"node %d of generation %d, current %d", ref.Node, ref.Generation, wt.Generation())
	}
	return wt, nil
}

func (f *Forest) validate(s SessionState) error {
	if len(f.in.Trees) == 0 {
		if s.ActiveTree != AllTrees {
			return errors.Newf("forest: active tree %d out of range", s.ActiveTree)
		}
		return nil
	}
	if !f.in.HasMetric(s.PrimaryMetric) && !f.in.HasAttribute(s.PrimaryMetric) {
		return &UnknownMetricError{Metric: s.PrimaryMetric}
	}
	if !f.in.HasMetric(s.SecondaryMetric) {
		return &UnknownMetricError{Metric: s.SecondaryMetric}
	}
	if s.ActiveTree < AllTrees || s.ActiveTree >= len(f.in.Trees) {
		return errors.Newf("forest: active tree %d out of range", s.ActiveTree)
	}
	if s.Strictness < 0 {
		return errors.Newf("forest: negative strictness %g", s.Strictness)
	}
	return nil
}

// pruneMetric is the numeric metric values accumulate over: the primary
// metric, or the secondary one while coloring by an attribute.
func (f *Forest) pruneMetric(s SessionState) string {
	if f.in.HasMetric(s.PrimaryMetric) {
		return s.PrimaryMetric
	}
	return s.SecondaryMetric
}

// -----------------------------------------------------------------------------
// Presentation queries
// -----------------------------------------------------------------------------

// Bounds returns the bounds of metric, forest-wide or for tree index. A
// metric that is not a numeric column yields an UnknownMetricError.
func (f *Forest) Bounds(metric string, unified bool, index int) (stats.Bounds, error) {
	if !f.in.HasMetric(metric) {
		return stats.Bounds{}, &UnknownMetricError{Metric: metric}
	}
	return f.bounds(metric, unified, index), nil
}

// AggregateBounds returns the forest-wide bounds of metric over surrogates.
func (f *Forest) AggregateBounds(metric string) (stats.Bounds, error) {
	if !f.in.HasMetric(metric) {
		return stats.Bounds{}, &UnknownMetricError{Metric: metric}
	}
	return f.stats.Aggregate(metric), nil
}

func (f *Forest) bounds(metric string, unified bool, index int) stats.Bounds {
	if unified || index < 0 {
		return f.stats.Forest().Bounds(metric)
	}
	return f.stats.Tree(index).Bounds(metric)
}

// Domain returns the ordered values of attr, forest-wide or for tree index.
func (f *Forest) Domain(attr string, unified bool, index int) []string {
	if unified || index < 0 {
		return f.stats.Forest().Domain(attr)
	}
	return f.stats.Tree(index).Domain(attr)
}

// ColorFor returns the color of a node under s.
func (f *Forest) ColorFor(ref NodeRef, s SessionState) (lipgloss.Color, error) {
	wt, err := f.resolve(ref)
	if err != nil {
		return color.Neutral, err
	}
	if !wt.Valid(ref.Node) {
		return color.Neutral, errors.Wrapf(aggregate.ErrStaleNode, "node %d", ref.Node)
	}

	paletteTree := ref.Tree
	if s.Unified() {
		paletteTree = AllTrees
	}

	n := wt.Node(ref.Node)
	if f.in.HasAttribute(s.PrimaryMetric) {
		p := color.TreePalette(s.ColorScheme, paletteTree, true)
		v, ok := wt.NodeAttribute(ref.Node, s.PrimaryMetric)
		if !ok {
			return color.Neutral, nil
		}
		return color.Pick(p, color.CategoryIndex(v, f.Domain(s.PrimaryMetric, s.Unified(), ref.Tree))), nil
	}

	p := color.TreePalette(s.ColorScheme, paletteTree, false)
	v, ok := wt.NodeMetric(ref.Node, s.PrimaryMetric)
	if !ok {
		return color.Neutral, nil
	}
	b := f.bounds(s.PrimaryMetric, s.Unified(), ref.Tree)
	if n.IsAggregate() {
		b = f.stats.Aggregate(s.PrimaryMetric)
	}
	return color.Pick(p, color.BinIndex(v, b)), nil
}

// LegendFor returns the legend and palette shown for tree index under s.
// Unified legends ignore index.
func (f *Forest) LegendFor(index int, s SessionState) (color.Legend, []lipgloss.Color) {
	paletteTree := index
	if s.Unified() {
		paletteTree = AllTrees
	}
	if f.in.HasAttribute(s.PrimaryMetric) {
		return color.CategoryLegend(f.Domain(s.PrimaryMetric, s.Unified(), index)),
			color.TreePalette(s.ColorScheme, paletteTree, true)
	}
	return color.LegendDomain(f.bounds(s.PrimaryMetric, s.Unified(), index)),
		color.TreePalette(s.ColorScheme, paletteTree, false)
}

// BuildSelectionQuery returns the call-path query for the selected nodes,
// given in traversal order. x supplies each node's horizontal layout
// position.
func (f *Forest) BuildSelectionQuery(refs []NodeRef, x func(NodeRef) float64) (query.Query, error) {
	sel := make([]query.Selected, 0, len(refs))
	for _, ref := range refs {
		wt, err := f.resolve(ref)
		if err != nil {
			return nil, err
		}
		if !wt.Visible(ref.Node) {
			return nil, errors.Wrapf(aggregate.ErrStaleNode, "node %d is not visible", ref.Node)
		}
		sel = append(sel, query.Selected{
			FrameName: wt.FrameName(ref.Node),
			Depth:     wt.Node(ref.Node).Depth,
			X:         x(ref),
		})
	}
	return query.Build(sel), nil
}
