/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ijuttt/cctview/internal/aggregate"
	"github.com/ijuttt/cctview/internal/app"
	"github.com/ijuttt/cctview/internal/forest"
	"github.com/ijuttt/cctview/internal/ui/render"
	"github.com/ijuttt/cctview/internal/ui/styles"
	"github.com/ijuttt/cctview/internal/ui/widgets"
)

// StatusMsg reports the outcome of a panel action to the status bar.
type StatusMsg struct {
	Text string
	Err  error
}

func statusCmd(text string, err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Text: text, Err: err} }
}

var (
	keySelect = key.NewBinding(key.WithKeys(" "))
	keyToggle = key.NewBinding(key.WithKeys("enter", "x"))
	keyExtUp  = key.NewBinding(key.WithKeys("shift+up", "K"))
	keyExtDn  = key.NewBinding(key.WithKeys("shift+down", "J"))
)

const (
	widthValue = 8
	widthBar   = 12
)

// -----------------------------------------------------------------------------
// Tree View Component
// -----------------------------------------------------------------------------

// TreeRow is one visible node line of the tree view.
type TreeRow struct {
	Ref       forest.NodeRef
	Depth     int
	Label     string
	Aggregate bool
	// Value is the primary metric, or the attribute value for categorical
	// primaries.
	Value string
	Size  float64
}

// TreeView shows the visible nodes of every shown working tree as an
// indented list, colored by the primary metric with bars sized by the
// secondary one.
type TreeView struct {
	ctrl    *app.Controller
	rows    []TreeRow
	maxSize []float64
	cursor  int
	anchor  int
	vp      viewport.Model
	width   int
	height  int
	focused bool
}

// NewTreeView creates an empty tree view.
func NewTreeView() TreeView {
	return TreeView{anchor: -1, vp: viewport.New(0, 0)}
}

// SetController attaches the view to a loaded forest.
func (v *TreeView) SetController(c *app.Controller) {
	v.ctrl = c
	v.cursor = 0
	v.anchor = -1
	v.Refresh()
}

// SetSize updates the component dimensions.
func (v *TreeView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.vp.Width = width
	v.vp.Height = max(height, 1)
	v.render()
}

// SetFocused sets the focus state.
func (v *TreeView) SetFocused(focused bool) {
	v.focused = focused
}

// Cursor returns the node under the cursor.
func (v *TreeView) Cursor() (forest.NodeRef, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return forest.NodeRef{}, false
	}
	return v.rows[v.cursor].Ref, true
}

// Rows returns the visible rows.
func (v *TreeView) Rows() []TreeRow { return v.rows }

// Refresh rebuilds the rows from the forest, keeping the cursor on the same
// node when it is still visible.
func (v *TreeView) Refresh() {
	prev, hadPrev := v.Cursor()
	prevLabel := ""
	if hadPrev {
		prevLabel = v.rows[v.cursor].Label
	}

	v.rows = v.rows[:0]
	v.maxSize = v.maxSize[:0]
	if v.ctrl == nil {
		v.render()
		return
	}

	f := v.ctrl.Forest()
	s := v.ctrl.State()
	attr := f.Input().HasAttribute(s.PrimaryMetric)
	for i := 0; i < f.NumTrees(); i++ {
		if s.ActiveTree != forest.AllTrees && s.ActiveTree != i {
			v.maxSize = append(v.maxSize, 0)
			continue
		}
		wt := f.WorkingTree(i)
		// Bars stay empty when the secondary column is not numeric.
		var peak float64
		if b, err := f.Bounds(s.SecondaryMetric, s.Unified(), i); err == nil {
			agg, _ := f.AggregateBounds(s.SecondaryMetric)
			peak = max(b.Max, agg.Max)
		}
		v.maxSize = append(v.maxSize, peak)

		wt.Walk(func(n *aggregate.WorkingNode) bool {
			row := TreeRow{
				Ref:       f.Ref(i, n.ID),
				Depth:     n.Depth,
				Label:     wt.Label(n.ID),
				Aggregate: n.IsAggregate(),
				Value:     "-",
			}
			if attr {
				if a, ok := wt.NodeAttribute(n.ID, s.PrimaryMetric); ok {
					row.Value = a
				}
			} else if pv, ok := wt.NodeMetric(n.ID, s.PrimaryMetric); ok {
				row.Value = render.Value(pv)
			}
			row.Size, _ = wt.NodeMetric(n.ID, s.SecondaryMetric)
			v.rows = append(v.rows, row)
			return true
		})
	}

	v.cursor = v.relocate(prev, prevLabel, hadPrev)
	if v.anchor >= len(v.rows) {
		v.anchor = -1
	}
	v.render()
}

// relocate finds the row for the node previously under the cursor: the same
// reference, else the same label in the same tree, else the clamped index.
func (v *TreeView) relocate(prev forest.NodeRef, label string, ok bool) int {
	if !ok {
		return 0
	}
	for i, r := range v.rows {
		if r.Ref == prev {
			return i
		}
	}
	for i, r := range v.rows {
		if r.Ref.Tree == prev.Tree && r.Label == label {
			return i
		}
	}
	return min(v.cursor, max(len(v.rows)-1, 0))
}

// Update handles input for the tree view.
func (v *TreeView) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok || v.ctrl == nil || len(v.rows) == 0 {
		return nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(km, keyExtUp):
		cmd = v.extend(-1)
	case key.Matches(km, keyExtDn):
		cmd = v.extend(1)
	case key.Matches(km, keyUp):
		v.move(-1)
	case key.Matches(km, keyDown):
		v.move(1)
	case key.Matches(km, keySelect):
		v.anchor = v.cursor
		if err := v.ctrl.Click(v.rows[v.cursor].Ref); err != nil {
			cmd = statusCmd("", err)
		}
	case key.Matches(km, keyToggle):
		row := v.rows[v.cursor]
		action, err := v.ctrl.DoubleClick(row.Ref)
		if err != nil {
			cmd = statusCmd("", err)
		} else {
			cmd = statusCmd(fmt.Sprintf("%s %s", action, row.Label), nil)
		}
		v.Refresh()
	}
	v.render()
	return cmd
}

func (v *TreeView) move(delta int) {
	v.cursor = min(max(v.cursor+delta, 0), len(v.rows)-1)
}

// extend moves the cursor and brushes every row between the anchor and it.
func (v *TreeView) extend(delta int) tea.Cmd {
	if v.anchor < 0 {
		v.anchor = v.cursor
	}
	v.move(delta)

	lo, hi := min(v.anchor, v.cursor), max(v.anchor, v.cursor)
	refs := make([]forest.NodeRef, 0, hi-lo+1)
	for _, r := range v.rows[lo : hi+1] {
		refs = append(refs, r.Ref)
	}
	if err := v.ctrl.Brush(refs); err != nil {
		return statusCmd("", err)
	}
	return nil
}

// render lays out the rows into the viewport and scrolls the cursor into
// view.
func (v *TreeView) render() {
	if v.ctrl == nil || len(v.rows) == 0 {
		v.vp.SetContent(styles.DimItemStyle.Render("Select a forest file to view"))
		return
	}

	selected := make(map[forest.NodeRef]bool)
	for _, r := range v.ctrl.Selection() {
		selected[r] = true
	}

	lines := make([]string, len(v.rows))
	for i, r := range v.rows {
		lines[i] = v.renderRow(i, r, selected[r.Ref])
	}
	v.vp.SetContent(strings.Join(lines, "\n"))

	switch {
	case v.cursor < v.vp.YOffset:
		v.vp.SetYOffset(v.cursor)
	case v.cursor >= v.vp.YOffset+v.vp.Height:
		v.vp.SetYOffset(v.cursor - v.vp.Height + 1)
	}
}

func (v *TreeView) renderRow(i int, r TreeRow, selected bool) string {
	c := v.ctrl.ColorFor(r.Ref)
	swatch := lipgloss.NewStyle().Foreground(c).Render("■")

	label := r.Label
	if r.Depth == 0 && len(v.maxSize) > 1 {
		label = fmt.Sprintf("[%d] %s", r.Ref.Tree, label)
	}
	labelWidth := max(v.width-r.Depth*render.IndentWidth-widthValue-widthBar-6, 4)
	label = render.Truncate(label, labelWidth)

	var styled string
	if r.Aggregate {
		styled = styles.AggregateStyle.Render("<" + label + ">")
		labelWidth += 2
	} else {
		styled = styles.NodeStyle.Render(label)
	}
	pad := max(labelWidth-lipgloss.Width(styled), 0)

	marker := "  "
	if i == v.cursor && v.focused {
		marker = "▸ "
	}

	bar := widgets.NewValueBar(r.Size, v.maxSize[r.Ref.Tree], widthBar, c)
	line := marker +
		strings.Repeat(" ", r.Depth*render.IndentWidth) +
		swatch + " " + styled + strings.Repeat(" ", pad) + " " +
		styles.MetricSecondaryStyle.Render(fmt.Sprintf("%*s", widthValue, render.Truncate(r.Value, widthValue))) + " " +
		bar.Render()

	if selected {
		return styles.SelectedNodeStyle.Render(line)
	}
	return line
}

// View renders the tree view.
func (v TreeView) View() string {
	title := "Tree"
	if v.ctrl != nil {
		s := v.ctrl.State()
		title = fmt.Sprintf("Tree: %s / %s", s.PrimaryMetric, s.SecondaryMetric)
	}
	return styles.Panel(title, v.focused, v.width, v.height).Render(v.vp.View())
}
