package analysis

import "github.com/ijuttt/cctview/internal/model"

// DefaultMetrics returns the initial primary and secondary metric of a
// forest: its first metric column, and its second one when present.
func DefaultMetrics(f *model.Forest) (primary, secondary string) {
	switch len(f.MetricColumns) {
	case 0:
		return "", ""
	case 1:
		return f.MetricColumns[0], f.MetricColumns[0]
	default:
		return f.MetricColumns[0], f.MetricColumns[1]
	}
}

// NextColumn returns the column after current in Columns(f), wrapping
// around. numericOnly skips attribute columns.
func NextColumn(f *model.Forest, current string, numericOnly bool) string {
	var names []string
	for _, c := range Columns(f) {
		if numericOnly && !c.Numeric() {
			continue
		}
		names = append(names, c.Name)
	}
	if len(names) == 0 {
		return current
	}
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
