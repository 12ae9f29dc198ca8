package main

import (
	"github.com/cockroachdb/errors"
	"github.com/ijuttt/cctview/internal/aggregate"
	"github.com/ijuttt/cctview/internal/forest"
	"github.com/ijuttt/cctview/internal/ui/render"
	"github.com/spf13/cobra"
)

var statsConfig struct {
	mode       string
	strictness float64
	prune      bool
	metric     string
}

var statsCmd = &cobra.Command{
	Use:   "stats <forest.json>",
	Short: "print per-tree value bounds after pruning",
	Long: `Prune every tree of the forest and print, for each tree and for the
whole forest, the visible and surrogate node counts and the bounds of every
metric over the visible nodes.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(
		&statsConfig.mode, "mode", "", "pruning pass: none, flag-zeros or flag-outliers (default from settings)")
	statsCmd.Flags().Float64Var(
		&statsConfig.strictness, "strictness", 0, "outlier strictness (default from settings)")
	statsCmd.Flags().BoolVar(
		&statsConfig.prune, "prune", false, "enable outlier pruning")
	statsCmd.Flags().StringVar(
		&statsConfig.metric, "metric", "", "primary metric")
}

func runStats(cmd *cobra.Command, args []string) error {
	var mode aggregate.Mode
	if statsConfig.mode != "" {
		m, err := aggregate.ParseMode(statsConfig.mode)
		if err != nil {
			return err
		}
		mode = m
	}

	c, err := loadController(args[0], func(s *forest.SessionState) {
		if statsConfig.mode != "" {
			s.Mode = mode
			s.PruneEnabled = mode == aggregate.ModeFlagOutliers
			if s.PruneEnabled {
				s.Mode = aggregate.ModeFlagZeros
			}
		}
		if statsConfig.prune {
			s.PruneEnabled = true
		}
		if cmd.Flags().Changed("strictness") {
			s.Strictness = statsConfig.strictness
		}
		if statsConfig.metric != "" {
			s.PrimaryMetric = statsConfig.metric
		}
	})
	if err != nil {
		return errors.Wrapf(err, "stats %s", args[0])
	}

	s := c.State()
	logger.Info("stats", "state", s.String(), "threshold", s.Threshold)
	render.StatsTable(cmd.OutOrStdout(), c.Forest())
	return nil
}
