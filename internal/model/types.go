/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package model provides the immutable calling-context tree types parsed
// from an input forest.
package model

// NodeID addresses a node inside one ProfileTree. IDs are preorder indices
// and stay stable for the lifetime of the tree.
type NodeID int32

// NoNode marks the absent parent of a tree root.
const NoNode NodeID = -1

// ProfileNode is one call-stack frame of a calling-context tree.
type ProfileNode struct {
	ID         NodeID
	Parent     NodeID
	Children   []NodeID
	Depth      int
	Name       string
	FrameName  string
	Metrics    map[string]float64
	Attributes map[string]string
}

// ProfileTree is the source-of-truth representation of one input tree.
// Nodes are stored in preorder with the root at index 0.
type ProfileTree struct {
	Index int
	Nodes []ProfileNode

	// subtree holds, per node, the metric sums over the node and all of
	// its descendants.
	subtree []map[string]float64
	height  int
}

// Root returns the root node ID, or NoNode for an empty tree.
func (t *ProfileTree) Root() NodeID {
	if t == nil || len(t.Nodes) == 0 {
		return NoNode
	}
	return 0
}

// Len returns the number of nodes in the tree.
func (t *ProfileTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

// Node returns the node with the given ID.
func (t *ProfileTree) Node(id NodeID) *ProfileNode {
	return &t.Nodes[id]
}

// Height returns the depth of the deepest node.
func (t *ProfileTree) Height() int {
	return t.height
}

// SubtreeMetrics returns the elementwise metric sums over the node and its
// descendants. The returned map must not be modified.
func (t *ProfileTree) SubtreeMetrics(id NodeID) map[string]float64 {
	return t.subtree[id]
}

// Forest is the ordered collection of trees loaded from one input file.
type Forest struct {
	Trees []*ProfileTree

	// MetricColumns are the numeric metric names, taken from the first
	// tree's root.
	MetricColumns []string

	// AttributeColumns are the categorical attribute names found anywhere
	// in the forest.
	AttributeColumns []string
}

// HasMetric reports whether name is a numeric metric column.
func (f *Forest) HasMetric(name string) bool {
	for _, m := range f.MetricColumns {
		if m == name {
			return true
		}
	}
	return false
}

// HasAttribute reports whether name is a categorical attribute column.
func (f *Forest) HasAttribute(name string) bool {
	for _, a := range f.AttributeColumns {
		if a == name {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Input Wire Format
// -----------------------------------------------------------------------------

// Frame carries the frame identity of an input node.
type Frame struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// InputNode is the nested node object of the input forest JSON.
type InputNode struct {
	Name       string             `json:"name"`
	Frame      Frame              `json:"frame"`
	Metrics    map[string]float64 `json:"metrics"`
	Attributes map[string]any     `json:"attributes,omitempty"`
	Children   []*InputNode       `json:"children,omitempty"`
}
