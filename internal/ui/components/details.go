/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ijuttt/cctview/internal/analysis"
	"github.com/ijuttt/cctview/internal/app"
	"github.com/ijuttt/cctview/internal/forest"
	"github.com/ijuttt/cctview/internal/processor"
	"github.com/ijuttt/cctview/internal/ui/render"
	"github.com/ijuttt/cctview/internal/ui/styles"
	"github.com/ijuttt/cctview/internal/ui/widgets"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	minSparklineWidth = 20
	widthLabel        = 12 // Fixed width for metadata labels
)

// -----------------------------------------------------------------------------
// Details Component
// -----------------------------------------------------------------------------

// Details shows the file metadata, the session state, the color legend, the
// distribution of the primary metric and the current selection.
type Details struct {
	selectedFile *processor.FileInfo
	loadedPath   string

	ctrl   *app.Controller
	cursor forest.NodeRef
	hasCur bool

	// Cached distribution of dist.MetricName
	dist analysis.Distribution
	bins int

	width   int
	height  int
	focused bool
	title   string
}

// NewDetails creates a details panel building distributions with bins
// buckets.
func NewDetails(bins int) Details {
	return Details{title: "Details", bins: bins}
}

// SetSelectedFile updates the file metadata shown before loading.
func (d *Details) SetSelectedFile(file *processor.FileInfo) {
	d.selectedFile = file
}

// SetController attaches the panel to a loaded forest.
func (d *Details) SetController(c *app.Controller, path string) {
	d.ctrl = c
	d.loadedPath = path
	d.dist = analysis.Distribution{}
	d.hasCur = false
	d.Refresh()
}

// SetCursor sets the node whose value is highlighted in the distribution.
func (d *Details) SetCursor(ref forest.NodeRef, ok bool) {
	d.cursor, d.hasCur = ref, ok
}

// Refresh rebuilds the cached distribution when the primary metric changed.
func (d *Details) Refresh() {
	if d.ctrl == nil {
		return
	}
	metric := d.distributionMetric()
	if d.dist.MetricName == metric && len(d.dist.Bins) > 0 {
		return
	}
	d.dist = analysis.BuildDistribution(d.ctrl.Forest().Input().Trees, metric, d.bins)
}

// distributionMetric is the primary metric, or the secondary one when the
// primary is an attribute.
func (d *Details) distributionMetric() string {
	s := d.ctrl.State()
	if d.ctrl.Forest().Input().HasMetric(s.PrimaryMetric) {
		return s.PrimaryMetric
	}
	return s.SecondaryMetric
}

// SetSize updates the component dimensions.
func (d *Details) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetFocused sets the focus state.
func (d *Details) SetFocused(focused bool) {
	d.focused = focused
}

// View renders the details panel.
func (d Details) View() string {
	var b strings.Builder

	if d.selectedFile != nil {
		b.WriteString(d.renderFileInfo())
		b.WriteString("\n")
	}

	if d.ctrl == nil {
		if d.selectedFile == nil {
			b.WriteString(styles.DimItemStyle.Render("Select a file to view info"))
		}
		return d.applyPanelStyle(b.String())
	}

	b.WriteString(d.renderSession())
	b.WriteString("\n")
	b.WriteString(d.renderLegend())
	b.WriteString("\n")
	b.WriteString(d.renderDistribution())
	b.WriteString("\n")
	b.WriteString(d.renderSelection())

	return d.applyPanelStyle(b.String())
}

func (d Details) field(label, value string) string {
	return styles.LabelStyle.Render(fmt.Sprintf("%-*s", widthLabel, label)) + value + "\n"
}

// renderFileInfo renders the file under the explorer cursor.
func (d Details) renderFileInfo() string {
	var b strings.Builder
	f := d.selectedFile

	b.WriteString(styles.SectionTitleStyle.Render("File"))
	b.WriteString("\n")

	valWidth := max(d.width-widthLabel-4, 10)
	b.WriteString(d.field("Name:", styles.HighlightValueStyle.Render(render.Truncate(f.Name, valWidth))))
	b.WriteString(d.field("Size:", styles.ValueStyle.Render(f.HumanSize())))
	b.WriteString(d.field("Modified:", styles.ValueStyle.Render(f.ModTime.Format("02 Jan 2006, 15:04:05"))))

	if f.Path == d.loadedPath {
		b.WriteString(styles.SuccessStyle.Render("✓ Loaded"))
	} else {
		b.WriteString(styles.DimItemStyle.Render("Press Enter to load"))
	}
	b.WriteString("\n")
	return b.String()
}

// renderSession renders the active metrics and pruning settings.
func (d Details) renderSession() string {
	var b strings.Builder
	s := d.ctrl.State()
	f := d.ctrl.Forest()

	b.WriteString(styles.SectionTitleStyle.Render("View"))
	b.WriteString("\n")
	b.WriteString(d.field("Primary:", styles.MetricValueStyle.Render(s.PrimaryMetric)))
	b.WriteString(d.field("Secondary:", styles.MetricValueStyle.Render(s.SecondaryMetric)))

	prune := s.EffectiveMode().String()
	if s.PruneEnabled {
		prune += styles.MetricSecondaryStyle.Render(fmt.Sprintf(" k=%s cut=%s", render.Value(s.Strictness), render.Value(s.Threshold)))
	}
	b.WriteString(d.field("Pruning:", styles.ValueStyle.Render(prune)))
	b.WriteString(d.field("Legend:", styles.ValueStyle.Render(fmt.Sprintf("%s, %s", s.Legend, s.ColorScheme))))

	trees := "all"
	if s.ActiveTree != forest.AllTrees {
		trees = fmt.Sprintf("%d", s.ActiveTree)
	}
	b.WriteString(d.field("Trees:", styles.ValueStyle.Render(fmt.Sprintf("%s of %d", trees, f.NumTrees()))))
	return b.String()
}

// renderLegend renders one swatch per color bin.
func (d Details) renderLegend() string {
	var b strings.Builder
	s := d.ctrl.State()

	b.WriteString(styles.SectionTitleStyle.Render("Legend"))
	b.WriteString("\n")

	legend, palette := d.ctrl.Legend(s.ActiveTree)
	if legend.Categorical() {
		for i, label := range legend.Labels {
			b.WriteString(swatch(palette, i))
			b.WriteString(" " + styles.ValueStyle.Render(render.Truncate(label, max(d.width-6, 4))) + "\n")
		}
		if len(legend.Labels) == 0 {
			b.WriteString(styles.DimItemStyle.Render("No values") + "\n")
		}
		return b.String()
	}

	for i, r := range legend.Ranges {
		b.WriteString(swatch(palette, i))
		b.WriteString(" " + styles.ValueStyle.Render(render.Value(r.Lo)+" .. "+render.Value(r.Hi)) + "\n")
	}
	return b.String()
}

func swatch(palette []lipgloss.Color, bin int) string {
	if len(palette) == 0 {
		return " "
	}
	return lipgloss.NewStyle().Foreground(palette[bin%len(palette)]).Render("■")
}

// renderDistribution renders the histogram of the distribution metric with
// the bin of the cursor node highlighted.
func (d Details) renderDistribution() string {
	var b strings.Builder

	b.WriteString(styles.SectionTitleStyle.Render("Distribution"))
	b.WriteString("\n")

	if len(d.dist.Bins) == 0 {
		b.WriteString(styles.DimItemStyle.Render("No values"))
		b.WriteString("\n")
		return b.String()
	}

	highlight := -1
	if d.hasCur {
		if wt := d.ctrl.Forest().WorkingTree(d.cursor.Tree); wt != nil && wt.Valid(d.cursor.Node) {
			if v, ok := wt.NodeMetric(d.cursor.Node, d.dist.MetricName); ok {
				highlight = d.dist.BinOf(v)
			}
		}
	}

	width := max(d.width-4, minSparklineWidth)
	spark := widgets.NewSparkline(d.dist.Counts(), width).WithHighlight(highlight)
	b.WriteString(spark.Render())
	b.WriteString("\n")

	lo, hi := render.Value(d.dist.MinValue), render.Value(d.dist.MaxValue)
	pad := max(width-lipgloss.Width(lo)-lipgloss.Width(hi), 1)
	b.WriteString(styles.DimItemStyle.Render(lo + strings.Repeat(" ", pad) + hi))
	b.WriteString("\n")
	b.WriteString(styles.MetricSecondaryStyle.Render(fmt.Sprintf("%s over %d nodes, peak bin %d", d.dist.MetricName, d.dist.Total, d.dist.MaxCount())))
	b.WriteString("\n")
	return b.String()
}

// renderSelection renders the selected-node table and the call-path query.
func (d Details) renderSelection() string {
	var b strings.Builder

	rows := d.ctrl.NodeTable()
	b.WriteString(styles.SectionTitleStyle.Render(fmt.Sprintf("Selection (%d)", len(rows))))
	b.WriteString("\n")

	if len(rows) > 0 {
		var buf bytes.Buffer
		render.NodeTable(&buf, d.ctrl.Forest().Input().MetricColumns, rows)
		b.WriteString(lipgloss.NewStyle().MaxWidth(d.width).Render(strings.TrimRight(buf.String(), "\n")))
		b.WriteString("\n")
	}

	b.WriteString(styles.LabelStyle.Render("Query"))
	b.WriteString("\n")
	b.WriteString(styles.QueryStyle.Width(max(d.width-2, 10)).Render(d.ctrl.Query().String()))
	return b.String()
}

// applyPanelStyle applies the appropriate panel style.
func (d Details) applyPanelStyle(content string) string {
	return styles.Panel(d.title, d.focused, d.width, d.height).Render(content)
}
