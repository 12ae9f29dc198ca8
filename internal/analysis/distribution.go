package analysis

import (
	"math"
	"slices"

	"github.com/ijuttt/cctview/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one histogram bucket covering [Lo, Hi).
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// Distribution is a histogram of one metric over every node of a forest.
type Distribution struct {
	MetricName string
	Bins       []Bin
	MinValue   float64
	MaxValue   float64
	Total      int
}

// MaxCount returns the largest bin count.
func (d Distribution) MaxCount() int {
	m := 0
	for _, b := range d.Bins {
		m = max(m, b.Count)
	}
	return m
}

// Counts returns the bin counts as floats, bottom bin first.
func (d Distribution) Counts() []float64 {
	out := make([]float64, len(d.Bins))
	for i, b := range d.Bins {
		out[i] = float64(b.Count)
	}
	return out
}

// BinOf returns the index of the bin holding v, or -1 when v lies outside
// the distribution.
func (d Distribution) BinOf(v float64) int {
	for i, b := range d.Bins {
		if v >= b.Lo && v < b.Hi {
			return i
		}
	}
	return -1
}

// BuildDistribution buckets the exclusive value of metric on every node of
// trees into numBins equal-width bins.
func BuildDistribution(trees []*model.ProfileTree, metric string, numBins int) Distribution {
	values := RawValues(trees, metric)
	if len(values) == 0 || numBins <= 0 {
		return Distribution{MetricName: metric}
	}

	slices.Sort(values)
	d := Distribution{
		MetricName: metric,
		MinValue:   values[0],
		MaxValue:   values[len(values)-1],
		Total:      len(values),
	}

	hi := d.MaxValue
	if hi == d.MinValue {
		hi = d.MinValue + 1
	}
	dividers := make([]float64, numBins+1)
	floats.Span(dividers, d.MinValue, hi)
	// Histogram bins are half-open; widen the last one so Max is counted.
	dividers[numBins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, values, nil)

	d.Bins = make([]Bin, numBins)
	for i := range d.Bins {
		d.Bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	return d
}

// RawValues returns the exclusive value of metric on every node of trees in
// tree then preorder order. Nodes lacking the metric are skipped.
func RawValues(trees []*model.ProfileTree, metric string) []float64 {
	var out []float64
	for _, t := range trees {
		for i := range t.Nodes {
			if v, ok := t.Nodes[i].Metrics[metric]; ok {
				out = append(out, v)
			}
		}
	}
	return out
}
