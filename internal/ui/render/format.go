package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ijuttt/cctview/internal/aggregate"
	"github.com/ijuttt/cctview/internal/app"
	"github.com/ijuttt/cctview/internal/forest"
	"github.com/ijuttt/cctview/internal/stats"
	"github.com/olekukonko/tablewriter"
)

// Value formats a metric value: plain decimals for small magnitudes, SI
// prefixes for large ones.
func Value(v float64) string {
	if math.Abs(v) >= SIThreshold {
		return strings.ReplaceAll(humanize.SIWithDigits(v, SIDigits, ""), " ", "")
	}
	return humanize.FtoaWithDigits(v, ValueDigits)
}

// Bounds formats a value range as "min .. max", or "-" when empty.
func Bounds(b stats.Bounds) string {
	if b.Empty {
		return "-"
	}
	return Value(b.Min) + " .. " + Value(b.Max)
}

// Truncate shortens s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// -----------------------------------------------------------------------------
// Tables
// -----------------------------------------------------------------------------

// StatsTable writes one row per tree with its visible node counts and the
// bounds of every metric, followed by forest-wide and aggregate rows.
func StatsTable(w io.Writer, f *forest.Forest) {
	metrics := f.Input().MetricColumns
	eng := f.Stats()

	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(append([]string{"Tree", "Visible", "Aggregates"}, metrics...))
	tbl.SetAutoFormatHeaders(false)

	totalVisible, totalAgg := 0, 0
	for i := 0; i < f.NumTrees(); i++ {
		wt := f.WorkingTree(i)
		visible, agg := len(wt.VisibleNodes()), len(wt.Aggregates())
		totalVisible += visible
		totalAgg += agg

		row := []string{strconv.Itoa(i), humanize.Comma(int64(visible)), humanize.Comma(int64(agg))}
		snap := eng.Tree(i)
		for _, m := range metrics {
			row = append(row, Bounds(snap.Bounds(m)))
		}
		tbl.Append(row)
	}

	row := []string{"forest", humanize.Comma(int64(totalVisible)), humanize.Comma(int64(totalAgg))}
	for _, m := range metrics {
		row = append(row, Bounds(eng.Forest().Bounds(m)))
	}
	tbl.Append(row)

	row = []string{"aggregates", "", ""}
	for _, m := range metrics {
		row = append(row, Bounds(eng.Aggregate(m)))
	}
	tbl.Append(row)
	tbl.Render()
}

// NodeTable writes the selected-node table.
func NodeTable(w io.Writer, metrics []string, rows []app.NodeRow) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(append([]string{"Tree", "Node", "Depth"}, metrics...))
	tbl.SetAutoFormatHeaders(false)
	tbl.SetBorder(false)

	for _, r := range rows {
		label := Truncate(r.Label, MaxLabelWidth)
		if r.Aggregate {
			label = "<" + label + ">"
		}
		row := []string{strconv.Itoa(r.Ref.Tree), label, strconv.Itoa(r.Depth)}
		for _, v := range r.Values {
			row = append(row, Value(v))
		}
		tbl.Append(row)
	}
	tbl.Render()
}

// -----------------------------------------------------------------------------
// Outline
// -----------------------------------------------------------------------------

// Outline writes the visible nodes of wt as an indented list with the value
// of metric. Surrogates are bracketed.
func Outline(w io.Writer, wt *aggregate.WorkingTree, metric string, th Theme) {
	wt.Walk(func(n *aggregate.WorkingNode) bool {
		indent := strings.Repeat(" ", n.Depth*IndentWidth)
		label := Truncate(wt.Label(n.ID), MaxLabelWidth)
		v, ok := wt.NodeMetric(n.ID, metric)
		value := "-"
		if ok {
			value = Value(v)
		}

		if n.IsAggregate() {
			fmt.Fprintf(w, "%s%s[%s]%s %s%s%s\n", indent, th.Aggregate, label, th.Reset, th.Dim, value, th.Reset)
		} else {
			fmt.Fprintf(w, "%s%s %s%s%s\n", indent, label, th.Dim, value, th.Reset)
		}
		return true
	})
}

// Summary writes the session state, the statistics table and an outline of
// every tree.
func Summary(w io.Writer, f *forest.Forest, s forest.SessionState, th Theme) {
	fmt.Fprintf(w, SectionHeaderFormat, th.Bold, "SESSION", th.Reset)
	fmt.Fprintf(w, "Trees: %s%d%s  Mode: %s%s%s", th.Accent, f.NumTrees(), th.Reset, th.Accent, s.EffectiveMode(), th.Reset)
	if s.PruneEnabled {
		fmt.Fprintf(w, "  Threshold: %s (strictness %s)", Value(s.Threshold), Value(s.Strictness))
	}
	fmt.Fprintf(w, "\nPrimary: %s  Secondary: %s\n\n", s.PrimaryMetric, s.SecondaryMetric)

	fmt.Fprintf(w, SectionHeaderFormat, th.Bold, "BOUNDS", th.Reset)
	StatsTable(w, f)

	metric := s.PrimaryMetric
	if !f.Input().HasMetric(metric) {
		metric = s.SecondaryMetric
	}
	for i := 0; i < f.NumTrees(); i++ {
		if s.ActiveTree != forest.AllTrees && s.ActiveTree != i {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, SectionHeaderFormat, th.Bold, fmt.Sprintf("TREE %d", i), th.Reset)
		Outline(w, f.WorkingTree(i), metric, th)
	}
}
