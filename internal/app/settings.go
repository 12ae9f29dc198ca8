package app

import (
	"github.com/ijuttt/cctview/internal/aggregate"
	"github.com/ijuttt/cctview/internal/color"
	"github.com/ijuttt/cctview/internal/config"
	"github.com/ijuttt/cctview/internal/forest"
	"github.com/ijuttt/cctview/internal/model"
)

// SessionFromSettings returns the initial session for f with the user
// settings applied. Metrics the forest does not carry are ignored so that one
// settings file can serve many inputs.
func SessionFromSettings(f *model.Forest, s config.Settings) forest.SessionState {
	st := forest.DefaultSession(f)

	if s.Metric != "" && (f.HasMetric(s.Metric) || f.HasAttribute(s.Metric)) {
		st.PrimaryMetric = s.Metric
	}
	if s.SecondaryMetric != "" && f.HasMetric(s.SecondaryMetric) {
		st.SecondaryMetric = s.SecondaryMetric
	}

	if mode, err := aggregate.ParseMode(s.PruneMode); err == nil {
		if mode == aggregate.ModeFlagOutliers {
			st.PruneEnabled = true
		} else {
			st.Mode = mode
		}
	}
	st.PruneEnabled = st.PruneEnabled || s.Prune
	if s.Strictness > 0 {
		st.Strictness = s.Strictness
	}

	if s.Legend == "individual" {
		st.Legend = forest.LegendIndividual
	}
	if s.ColorScheme >= 0 && s.ColorScheme < color.NumSchemes {
		st.ColorScheme = color.Scheme(s.ColorScheme)
	}
	return st
}
