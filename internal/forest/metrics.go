package forest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// rebuildDuration tracks full prune + statistics passes over the forest
	rebuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cctview_rebuild_duration_seconds",
		Help:    "Duration of a full pruning and statistics pass in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
	})

	// togglesTotal counts manual toggles by resulting action
	togglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cctview_toggles_total",
		Help: "Manual node toggles by action",
	}, []string{"action"})

	// visibleNodes reports the visible node count of each working tree
	visibleNodes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cctview_visible_nodes",
		Help: "Visible nodes per working tree",
	}, []string{"tree"})

	// staleToggles counts toggles rejected for stale node references
	staleToggles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cctview_stale_toggles_total",
		Help: "Toggles rejected because the node reference was stale",
	})
)
