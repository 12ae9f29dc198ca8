/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package aggregate derives working trees from immutable profile trees by
// collapsing subtrees into aggregate surrogate nodes, either automatically
// (threshold pruning) or manually (toggle).
package aggregate

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ijuttt/cctview/internal/model"
)

// NodeID addresses a node inside one WorkingTree arena.
type NodeID int32

// NoNode marks an absent node (the root's parent, an unheld node).
const NoNode NodeID = -1

// ErrStaleNode is returned when a node reference does not resolve to a node
// of the current working tree.
var ErrStaleNode = errors.New("stale node reference")

// -----------------------------------------------------------------------------
// Display State
// -----------------------------------------------------------------------------

// DisplayState discriminates the working node variants.
type DisplayState uint8

const (
	// Expanded is a plain wrapper around a profile node.
	Expanded DisplayState = iota
	// ManuallyCollapsed is a surrogate created by a user collapse.
	ManuallyCollapsed
	// AutoElided is a surrogate created by automatic pruning.
	AutoElided
)

func (s DisplayState) String() string {
	switch s {
	case Expanded:
		return "expanded"
	case ManuallyCollapsed:
		return "manually-collapsed"
	case AutoElided:
		return "auto-elided"
	default:
		return fmt.Sprintf("DisplayState(%d)", uint8(s))
	}
}

// -----------------------------------------------------------------------------
// Pruning Mode
// -----------------------------------------------------------------------------

// Mode selects the automatic pruning policy.
type Mode uint8

const (
	// ModeNone keeps every node.
	ModeNone Mode = iota
	// ModeFlagZeros elides subtrees whose accumulated value is exactly zero.
	ModeFlagZeros
	// ModeFlagOutliers elides subtrees whose accumulated value is below the
	// caller-supplied threshold.
	ModeFlagOutliers
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeFlagZeros:
		return "flag-zeros"
	case ModeFlagOutliers:
		return "flag-outliers"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode parses the String form of a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "none", "":
		return ModeNone, nil
	case "flag-zeros", "zeros":
		return ModeFlagZeros, nil
	case "flag-outliers", "outliers":
		return ModeFlagOutliers, nil
	}
	return ModeNone, errors.Newf("unknown prune mode %q", s)
}

// -----------------------------------------------------------------------------
// Working Node
// -----------------------------------------------------------------------------

// WorkingNode is one node of a working tree. The variant is given by State:
// Expanded nodes wrap the profile node named by Source; surrogates carry the
// nodes they replace in Elided and the reduced metrics in AggregateMetrics.
type WorkingNode struct {
	ID     NodeID
	State  DisplayState
	Source model.NodeID
	Parent NodeID
	Depth  int

	// Value is the accumulated active metric over the node and its
	// descendants. For surrogates it is the sum over the elided nodes.
	Value float64

	Children         []NodeID
	Elided           []NodeID
	AggregateMetrics map[string]float64

	attached bool
	holder   NodeID
	wrapper  NodeID
	wraps    bool
}

// IsAggregate reports whether the node is a surrogate.
func (n *WorkingNode) IsAggregate() bool {
	return n.State != Expanded
}

// Action reports what a manual toggle did.
type Action uint8

const (
	ActionNone Action = iota
	ActionCollapse
	ActionExpand
)

func (a Action) String() string {
	switch a {
	case ActionCollapse:
		return "collapse"
	case ActionExpand:
		return "expand"
	default:
		return "none"
	}
}
