package aggregate

import (
	"github.com/cockroachdb/errors"
	"github.com/ijuttt/cctview/internal/model"
)

// Profile returns the source tree.
func (wt *WorkingTree) Profile() *model.ProfileTree { return wt.profile }

// Metric returns the metric the values were accumulated for.
func (wt *WorkingTree) Metric() string { return wt.metric }

// Mode returns the pruning mode of the pass that built the tree.
func (wt *WorkingTree) Mode() Mode { return wt.mode }

// Threshold returns the cutoff of the pass that built the tree.
func (wt *WorkingTree) Threshold() float64 { return wt.threshold }

// Generation identifies the pruning pass that built the tree.
func (wt *WorkingTree) Generation() uint64 { return wt.generation }

// Root returns the root node, or NoNode for an empty tree.
func (wt *WorkingTree) Root() NodeID { return wt.root }

// Node returns the node with the given ID. Callers must treat it as
// read-only.
func (wt *WorkingTree) Node(id NodeID) *WorkingNode {
	return &wt.nodes[id]
}

// Valid reports whether id addresses a node of the arena.
func (wt *WorkingTree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(wt.nodes)
}

// Visible reports whether id is reachable from the root through attached
// nodes.
func (wt *WorkingTree) Visible(id NodeID) bool {
	if !wt.Valid(id) {
		return false
	}
	for cur := id; cur != NoNode; cur = wt.nodes[cur].Parent {
		if !wt.nodes[cur].attached {
			return false
		}
	}
	return true
}

// Lookup resolves a profile node to its working node and reports whether
// that node is currently visible.
func (wt *WorkingTree) Lookup(src model.NodeID) (NodeID, bool) {
	if src < 0 || int(src) >= len(wt.bySource) {
		return NoNode, false
	}
	id := wt.bySource[src]
	return id, wt.Visible(id)
}

// Walk visits the visible nodes in preorder. Returning false from fn skips
// the node's children.
func (wt *WorkingTree) Walk(fn func(n *WorkingNode) bool) {
	if wt.root == NoNode {
		return
	}
	stack := []NodeID{wt.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &wt.nodes[id]
		if !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// VisibleNodes returns the visible node IDs in preorder.
func (wt *WorkingTree) VisibleNodes() []NodeID {
	var ids []NodeID
	wt.Walk(func(n *WorkingNode) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Aggregates returns the visible surrogates in preorder.
func (wt *WorkingTree) Aggregates() []NodeID {
	var ids []NodeID
	wt.Walk(func(n *WorkingNode) bool {
		if n.IsAggregate() {
			ids = append(ids, n.ID)
		}
		return true
	})
	return ids
}

// Metric value helpers

// NodeMetric returns the value of metric for a visible node: the profile
// value for plain nodes, the aggregate value for surrogates.
func (wt *WorkingTree) NodeMetric(id NodeID, metric string) (float64, bool) {
	n := &wt.nodes[id]
	if n.IsAggregate() {
		v, ok := n.AggregateMetrics[metric]
		return v, ok
	}
	v, ok := wt.profile.Node(n.Source).Metrics[metric]
	return v, ok
}

// NodeAttribute returns a categorical attribute of a plain node. Surrogates
// have no attributes.
func (wt *WorkingTree) NodeAttribute(id NodeID, attr string) (string, bool) {
	n := &wt.nodes[id]
	if n.IsAggregate() {
		return "", false
	}
	v, ok := wt.profile.Node(n.Source).Attributes[attr]
	return v, ok
}

// FrameName returns the frame name of a plain node, or of the first elided
// node of a surrogate.
func (wt *WorkingTree) FrameName(id NodeID) string {
	n := &wt.nodes[id]
	for n.IsAggregate() {
		if len(n.Elided) == 0 {
			return ""
		}
		n = &wt.nodes[n.Elided[0]]
	}
	return wt.profile.Node(n.Source).FrameName
}

// Label returns a human-readable name: the frame name for plain nodes,
// "<frame> subtree" for a surrogate of one node and "children of <parent>"
// for a surrogate of several.
func (wt *WorkingTree) Label(id NodeID) string {
	n := &wt.nodes[id]
	if !n.IsAggregate() {
		return wt.FrameName(id)
	}
	if len(n.Elided) == 1 {
		return wt.FrameName(n.Elided[0]) + " subtree"
	}
	return "children of " + wt.FrameName(n.Parent)
}

func (wt *WorkingTree) stale(id NodeID) error {
	return errors.Wrapf(ErrStaleNode, "node %d of generation %d", id, wt.generation)
}
