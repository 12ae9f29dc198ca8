package analysis

import (
	"github.com/ijuttt/cctview/internal/model"
	"gonum.org/v1/gonum/stat"
)

// DefaultStrictness is the initial outlier multiplier.
const DefaultStrictness = 1.5

// NodeValues returns the inclusive value of metric (the node plus all its
// descendants) for every node of trees.
func NodeValues(trees []*model.ProfileTree, metric string) []float64 {
	var out []float64
	for _, t := range trees {
		for i := range t.Nodes {
			if v, ok := t.SubtreeMetrics(model.NodeID(i))[metric]; ok {
				out = append(out, v)
			}
		}
	}
	return out
}

// OutlierThreshold returns mean + strictness * stdev of values. Subtrees
// whose inclusive value falls below it are pruned in outlier mode. An empty
// input yields 0 and a single value yields that value.
func OutlierThreshold(values []float64, strictness float64) float64 {
	switch len(values) {
	case 0:
		return 0
	case 1:
		return values[0]
	}
	mean, std := stat.MeanStdDev(values, nil)
	return mean + strictness*std
}
