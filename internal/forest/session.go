/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package forest

import (
	"fmt"

	"github.com/ijuttt/cctview/internal/aggregate"
	"github.com/ijuttt/cctview/internal/analysis"
	"github.com/ijuttt/cctview/internal/color"
	"github.com/ijuttt/cctview/internal/model"
)

// LegendMode selects forest-wide or per-tree color domains.
type LegendMode uint8

const (
	LegendUnified LegendMode = iota
	LegendIndividual
)

func (l LegendMode) String() string {
	if l == LegendIndividual {
		return "individual"
	}
	return "unified"
}

// Next flips between unified and individual legends.
func (l LegendMode) Next() LegendMode {
	if l == LegendUnified {
		return LegendIndividual
	}
	return LegendUnified
}

// AllTrees is the ActiveTree value that shows every tree.
const AllTrees = -1

// SessionState is the user-visible configuration of the view. It is a plain
// value; the forest returns the normalised copy it was built with.
type SessionState struct {
	// PrimaryMetric colors nodes. It may name a metric or an attribute.
	PrimaryMetric string
	// SecondaryMetric sizes nodes and is always numeric.
	SecondaryMetric string

	// Mode is the pruning pass used while PruneEnabled is false.
	Mode aggregate.Mode
	// PruneEnabled switches to outlier pruning with a threshold derived
	// from Strictness.
	PruneEnabled bool
	Strictness   float64
	// Threshold is the cutoff of the last outlier pass. Set by Rebuild.
	Threshold float64

	Legend      LegendMode
	ColorScheme color.Scheme
	ActiveTree  int
}

// EffectiveMode returns the pruning mode Rebuild applies.
func (s SessionState) EffectiveMode() aggregate.Mode {
	if s.PruneEnabled {
		return aggregate.ModeFlagOutliers
	}
	return s.Mode
}

// Unified reports whether colors use forest-wide bounds.
func (s SessionState) Unified() bool { return s.Legend == LegendUnified }

func (s SessionState) String() string {
	return fmt.Sprintf("primary=%s secondary=%s mode=%s strictness=%.2f legend=%s scheme=%s tree=%d",
		s.PrimaryMetric, s.SecondaryMetric, s.EffectiveMode(), s.Strictness, s.Legend, s.ColorScheme, s.ActiveTree)
}

// DefaultSession returns the initial state for f: the first metric column
// colors, the second sizes, a zero-eliding pass runs with outlier pruning
// off at strictness 1.5, and every tree is shown under a unified legend.
func DefaultSession(f *model.Forest) SessionState {
	primary, secondary := analysis.DefaultMetrics(f)
	return SessionState{
		PrimaryMetric:   primary,
		SecondaryMetric: secondary,
		Mode:            aggregate.ModeFlagZeros,
		Strictness:      analysis.DefaultStrictness,
		Legend:          LegendUnified,
		ColorScheme:     color.SchemeDefault,
		ActiveTree:      AllTrees,
	}
}
