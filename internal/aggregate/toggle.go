/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package aggregate

// ToggleManual collapses or expands a single node in place:
//
//   - a visible plain node is replaced in its parent's children by a
//     ManuallyCollapsed surrogate holding just that node;
//   - the root has no parent slot, so collapsing it wraps its children into
//     one surrogate instead (a childless root is left alone);
//   - a visible surrogate is expanded, its elided nodes taking its place in
//     their original order;
//   - a hidden node held by a manual surrogate expands that surrogate;
//   - a previously expanded surrogate whose nodes are still side by side in
//     its parent is collapsed again.
//
// Toggling the same node twice therefore restores the tree. Any other
// reference is stale and yields ErrStaleNode.
func (wt *WorkingTree) ToggleManual(id NodeID) (Action, error) {
	if !wt.Valid(id) {
		return ActionNone, wt.stale(id)
	}

	if !wt.Visible(id) {
		n := &wt.nodes[id]
		if h := n.holder; h != NoNode && wt.nodes[h].State == ManuallyCollapsed && wt.Visible(h) {
			return ActionExpand, wt.expand(h)
		}
		if n.IsAggregate() && wt.recollapse(id) {
			return ActionCollapse, nil
		}
		return ActionNone, wt.stale(id)
	}

	n := &wt.nodes[id]
	if n.IsAggregate() {
		return ActionExpand, wt.expand(id)
	}

	if n.Parent == NoNode {
		if n.wrapper != NoNode && wt.Visible(n.wrapper) {
			return ActionExpand, wt.expand(n.wrapper)
		}
		if len(n.Children) == 0 {
			return ActionNone, nil
		}
		s := wt.newSurrogate(id, ManuallyCollapsed, wt.nodes[id].Children)
		wt.nodes[s].wraps = true
		wt.nodes[id].Children = []NodeID{s}
		wt.nodes[id].wrapper = s
		return ActionCollapse, nil
	}

	parent := n.Parent
	idx := indexOf(wt.nodes[parent].Children, id)
	if idx < 0 {
		return ActionNone, wt.stale(id)
	}
	s := wt.newSurrogate(parent, ManuallyCollapsed, []NodeID{id})
	wt.nodes[parent].Children[idx] = s
	return ActionCollapse, nil
}

// expand splices the elided nodes of surrogate s back into its parent's
// children at the position s occupied.
func (wt *WorkingTree) expand(s NodeID) error {
	parent := wt.nodes[s].Parent
	children := wt.nodes[parent].Children
	idx := indexOf(children, s)
	if idx < 0 {
		return wt.stale(s)
	}

	elided := wt.nodes[s].Elided
	rewritten := make([]NodeID, 0, len(children)-1+len(elided))
	rewritten = append(rewritten, children[:idx]...)
	rewritten = append(rewritten, elided...)
	rewritten = append(rewritten, children[idx+1:]...)
	wt.nodes[parent].Children = rewritten

	for _, e := range elided {
		wt.nodes[e].attached = true
		wt.nodes[e].holder = NoNode
	}
	wt.nodes[s].attached = false
	if wt.nodes[parent].wrapper == s {
		wt.nodes[parent].wrapper = NoNode
	}
	return nil
}

// recollapse reinstates an expanded surrogate when its elided nodes are
// still attached, contiguous and in order under a visible parent.
func (wt *WorkingTree) recollapse(s NodeID) bool {
	sn := &wt.nodes[s]
	if sn.holder != NoNode || len(sn.Elided) == 0 || !wt.Visible(sn.Parent) {
		return false
	}

	parent := sn.Parent
	children := wt.nodes[parent].Children
	idx := indexOf(children, sn.Elided[0])
	if idx < 0 || idx+len(sn.Elided) > len(children) {
		return false
	}
	for i, e := range sn.Elided {
		if children[idx+i] != e || !wt.nodes[e].attached {
			return false
		}
	}

	rewritten := make([]NodeID, 0, len(children)-len(sn.Elided)+1)
	rewritten = append(rewritten, children[:idx]...)
	rewritten = append(rewritten, s)
	rewritten = append(rewritten, children[idx+len(sn.Elided):]...)
	wt.nodes[parent].Children = rewritten

	for _, e := range sn.Elided {
		wt.nodes[e].attached = false
		wt.nodes[e].holder = s
	}
	sn.attached = true
	if sn.wraps {
		wt.nodes[parent].wrapper = s
	}
	return true
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, c := range ids {
		if c == id {
			return i
		}
	}
	return -1
}
