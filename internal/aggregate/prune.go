/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package aggregate

import (
	"github.com/ijuttt/cctview/internal/model"
)

// WorkingTree is the currently displayed derivative of one ProfileTree. It
// is an arena: nodes refer to each other by NodeID and the arena is rebuilt
// from scratch by every Prune. Manual toggles patch it in place.
type WorkingTree struct {
	profile    *model.ProfileTree
	metric     string
	mode       Mode
	threshold  float64
	generation uint64

	nodes    []WorkingNode
	root     NodeID
	bySource []NodeID
}

// Prune builds a working tree for tree, accumulating metric bottom-up and
// collapsing low-value children into AutoElided surrogates according to
// mode. threshold is an opaque cutoff used by ModeFlagOutliers only. Every
// call starts from the immutable profile tree, so equal arguments always
// yield structurally equal working trees.
func Prune(tree *model.ProfileTree, metric string, mode Mode, threshold float64, generation uint64) (*WorkingTree, error) {
	wt := &WorkingTree{
		profile:    tree,
		metric:     metric,
		mode:       mode,
		threshold:  threshold,
		generation: generation,
		root:       NoNode,
	}

	n := tree.Len()
	if n == 0 {
		return wt, nil
	}

	wt.nodes = make([]WorkingNode, n, n+n/4+1)
	wt.bySource = make([]NodeID, n)

	for i := range tree.Nodes {
		p := &tree.Nodes[i]
		v, ok := p.Metrics[metric]
		if !ok {
			return nil, &model.DataShapeError{Tree: tree.Index, Node: p.FrameName, Metric: metric}
		}

		parent := NoNode
		if p.Parent != model.NoNode {
			parent = NodeID(p.Parent)
		}

		var children []NodeID
		if len(p.Children) > 0 {
			children = make([]NodeID, len(p.Children))
			for j, c := range p.Children {
				children[j] = NodeID(c)
			}
		}

		wt.nodes[i] = WorkingNode{
			ID:       NodeID(i),
			State:    Expanded,
			Source:   p.ID,
			Parent:   parent,
			Depth:    p.Depth,
			Value:    v,
			Children: children,
			attached: true,
			holder:   NoNode,
			wrapper:  NoNode,
		}
		wt.bySource[i] = NodeID(i)
	}

	// Preorder storage puts every descendant after its ancestor, so a
	// reverse sweep accumulates values in postorder.
	for i := n - 1; i > 0; i-- {
		wt.nodes[wt.nodes[i].Parent].Value += wt.nodes[i].Value
	}

	wt.root = 0
	if mode == ModeNone {
		return wt, nil
	}

	stack := []NodeID{wt.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kept := wt.elideChildren(id)
		for i := len(kept) - 1; i >= 0; i-- {
			stack = append(stack, kept[i])
		}
	}

	return wt, nil
}

// elideChildren replaces the children of id that fall below the cutoff with
// one AutoElided surrogate positioned where the first of them was. It
// returns the kept children.
func (wt *WorkingTree) elideChildren(id NodeID) []NodeID {
	children := wt.nodes[id].Children
	if len(children) == 0 {
		return nil
	}

	var kept, elided []NodeID
	first := -1
	for _, c := range children {
		if wt.shouldElide(wt.nodes[c].Value) {
			if first < 0 {
				first = len(kept)
			}
			elided = append(elided, c)
			continue
		}
		kept = append(kept, c)
	}

	if len(elided) == 0 {
		return kept
	}

	s := wt.newSurrogate(id, AutoElided, elided)

	rewritten := make([]NodeID, 0, len(kept)+1)
	rewritten = append(rewritten, kept[:first]...)
	rewritten = append(rewritten, s)
	rewritten = append(rewritten, kept[first:]...)
	wt.nodes[id].Children = rewritten

	return kept
}

func (wt *WorkingTree) shouldElide(v float64) bool {
	switch wt.mode {
	case ModeFlagZeros:
		return v == 0
	case ModeFlagOutliers:
		return v < wt.threshold
	default:
		return false
	}
}

// newSurrogate appends a surrogate under parent that holds elided. The
// elided nodes are detached but keep their own structure for restoration.
func (wt *WorkingTree) newSurrogate(parent NodeID, state DisplayState, elided []NodeID) NodeID {
	id := NodeID(len(wt.nodes))

	agg := make(map[string]float64)
	var value float64
	for _, e := range elided {
		for m, v := range wt.subtreeMetrics(e) {
			agg[m] += v
		}
		value += wt.nodes[e].Value
	}

	held := make([]NodeID, len(elided))
	copy(held, elided)

	wt.nodes = append(wt.nodes, WorkingNode{
		ID:               id,
		State:            state,
		Source:           model.NoNode,
		Parent:           parent,
		Depth:            wt.nodes[parent].Depth + 1,
		Value:            value,
		Elided:           held,
		AggregateMetrics: agg,
		attached:         true,
		holder:           NoNode,
		wrapper:          NoNode,
	})

	for _, e := range held {
		wt.nodes[e].attached = false
		wt.nodes[e].holder = id
	}
	return id
}

// subtreeMetrics returns the reduced metrics represented by id: the profile
// subtree sums for a plain node, the aggregate metrics for a surrogate.
func (wt *WorkingTree) subtreeMetrics(id NodeID) map[string]float64 {
	n := &wt.nodes[id]
	if n.IsAggregate() {
		return n.AggregateMetrics
	}
	return wt.profile.SubtreeMetrics(n.Source)
}
