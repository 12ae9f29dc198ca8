/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package bubbletea provides the main TUI application using Bubble Tea.
package bubbletea

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ijuttt/cctview/internal/analysis"
	"github.com/ijuttt/cctview/internal/app"
	"github.com/ijuttt/cctview/internal/config"
	"github.com/ijuttt/cctview/internal/forest"
	"github.com/ijuttt/cctview/internal/processor"
	"github.com/ijuttt/cctview/internal/ui/components"
	"github.com/ijuttt/cctview/internal/ui/styles"
)

// Panel identifiers
const (
	PanelExplorer = iota
	PanelTree
	PanelDetails
	PanelCount
)

// Drag targets
const (
	DragNone = iota
	DragExplorer
	DragTree
)

// Options configures a new App.
type Options struct {
	Settings config.Settings
	// DataDirs are searched for forest files.
	DataDirs []string
	// Path is loaded on start when set.
	Path string
	// Watch reloads the loaded forest when its file changes.
	Watch  bool
	Logger *slog.Logger
}

// App is the main application model.
type App struct {
	opts Options

	// Components
	explorer      components.Explorer
	tree          components.TreeView
	details       components.Details
	confirmDialog components.ConfirmDialog
	help          help.Model

	// State
	ctrl        *app.Controller
	watcher     *processor.Watcher
	activePanel int
	currentFile string
	loading     bool
	statusMsg   string
	errMsg      string

	// Layout and Resizing
	width          int
	height         int
	explorerRatio  float64
	treeRatio      float64
	dragActive     int     // DragNone, DragExplorer, DragTree
	dragStartMX    int     // Mouse X at drag start
	dragStartRatio float64 // Ratio at drag start

	// Key bindings
	keys KeyMap
}

// NewApp creates a new application instance.
func NewApp(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Settings.Bins == 0 {
		opts.Settings = config.DefaultSettings()
	}
	a := &App{
		opts:          opts,
		explorer:      components.NewExplorer(),
		tree:          components.NewTreeView(),
		details:       components.NewDetails(opts.Settings.Bins),
		confirmDialog: components.NewConfirmDialog(),
		help:          newHelp(),
		activePanel:   PanelExplorer,
		keys:          DefaultKeyMap(),
		statusMsg:     "Loading files...",
		explorerRatio: 0.18,
		treeRatio:     0.50,
		dragActive:    DragNone,
	}
	if opts.Path != "" {
		a.activePanel = PanelTree
		a.statusMsg = "Loading " + filepath.Base(opts.Path) + "..."
	}
	return a
}

// Init initializes the application.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{processor.RefreshFilesCmd(a.opts.DataDirs)}
	if a.opts.Path != "" {
		a.loading = true
		cmds = append(cmds, processor.LoadForestCmd(a.opts.Path))
	}
	return tea.Batch(cmds...)
}

// Close releases the file watcher.
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}

// Update handles messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Handle confirmation dialog first if visible
	if a.confirmDialog.IsVisible() {
		if result, handled := a.confirmDialog.Update(msg); handled {
			return a, a.handleConfirm(result)
		}
		if _, ok := msg.(tea.KeyMsg); ok {
			return a, nil // Block other input while dialog is visible
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.confirmDialog.SetSize(msg.Width, msg.Height)
		a.help.Width = msg.Width
		a.updateComponentSizes()

	case tea.MouseMsg:
		a.handleMouse(msg)

	case tea.KeyMsg:
		if cmd := a.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case components.StatusMsg:
		a.setStatus(msg.Text, msg.Err)

	case processor.FileListMsg:
		a.loading = false
		if msg.Err != nil {
			a.statusMsg = "No forest files in " + strings.Join(a.opts.DataDirs, ", ")
		} else {
			a.explorer.SetFiles(msg.Files)
			a.statusMsg = fmt.Sprintf("Found %d forest files (newest first)", len(msg.Files))
			a.details.SetSelectedFile(a.explorer.SelectedFile())
		}

	case processor.LoadResultMsg:
		a.loading = false
		if cmd := a.handleLoad(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case processor.ForestChangedMsg:
		a.loading = true
		a.statusMsg = "Forest changed, reloading..."
		cmds = append(cmds, processor.ReloadForestCmd(msg.Path), a.nextChange())

	case processor.WatchErrorMsg:
		a.setStatus("", msg.Err)
		cmds = append(cmds, a.nextChange())
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.updateComponentSizes()
		return nil

	case key.Matches(msg, a.keys.Tab):
		a.activePanel = (a.activePanel + 1) % PanelCount
		a.updateFocus()
		return nil

	case key.Matches(msg, a.keys.Reload):
		a.loading = true
		a.statusMsg = "Reloading..."
		cmds := []tea.Cmd{processor.RefreshFilesCmd(a.opts.DataDirs)}
		if a.currentFile != "" {
			cmds = append(cmds, processor.ReloadForestCmd(a.currentFile))
		}
		return tea.Batch(cmds...)
	}

	if a.activePanel == PanelExplorer {
		if key.Matches(msg, a.keys.Toggle) {
			return a.openSelected()
		}
		cmd := a.explorer.Update(msg)
		a.details.SetSelectedFile(a.explorer.SelectedFile())
		return cmd
	}

	if a.ctrl == nil {
		return nil
	}

	if cmd, handled := a.handleViewKey(msg); handled {
		return cmd
	}

	if a.activePanel != PanelTree {
		return nil
	}
	cmd := a.tree.Update(msg)
	a.afterChange()
	return cmd
}

// handleViewKey applies session keys that work from the tree and details
// panels.
func (a *App) handleViewKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.ctrl.State()
	in := a.ctrl.Forest().Input()

	var err error
	switch {
	case key.Matches(msg, a.keys.Prune):
		err = a.ctrl.TogglePrune()
	case key.Matches(msg, a.keys.Stricter):
		err = a.ctrl.SetStrictness(s.Strictness + config.StrictnessStep)
	case key.Matches(msg, a.keys.Looser):
		err = a.ctrl.SetStrictness(max(s.Strictness-config.StrictnessStep, 0))
	case key.Matches(msg, a.keys.PrimaryMetric):
		err = a.ctrl.SelectMetric(app.SlotPrimary, analysis.NextColumn(in, s.PrimaryMetric, false))
	case key.Matches(msg, a.keys.SecondaryMetric):
		err = a.ctrl.SelectMetric(app.SlotSecondary, analysis.NextColumn(in, s.SecondaryMetric, true))
	case key.Matches(msg, a.keys.ColorScheme):
		err = a.ctrl.CycleColorScheme()
	case key.Matches(msg, a.keys.Legend):
		err = a.ctrl.ToggleLegend()
	case key.Matches(msg, a.keys.ActiveTree):
		err = a.ctrl.SetActiveTree(nextTree(s.ActiveTree, a.ctrl.Forest().NumTrees()))
	case key.Matches(msg, a.keys.ResetView):
		a.confirmDialog.Show(components.ConfirmResetView,
			"Reset the view? Manual collapses and the selection are lost.", "")
		return nil, true
	default:
		return nil, false
	}

	if err != nil {
		a.setStatus("", err)
	} else {
		a.setStatus(a.ctrl.State().String(), nil)
	}
	a.afterChange()
	return nil, true
}

// nextTree cycles all trees, then each tree in turn.
func nextTree(current, n int) int {
	if current+1 >= n {
		return forest.AllTrees
	}
	return current + 1
}

func (a *App) openSelected() tea.Cmd {
	path := a.explorer.Selected()
	if path == "" {
		return nil
	}
	if a.ctrl != nil && path != a.currentFile {
		a.confirmDialog.Show(components.ConfirmSwitchForest,
			fmt.Sprintf("Open '%s'? The current view is discarded.", filepath.Base(path)), path)
		return nil
	}
	a.loading = true
	a.statusMsg = "Loading file..."
	return processor.LoadForestCmd(path)
}

func (a *App) handleConfirm(result components.ConfirmResult) tea.Cmd {
	if !result.Confirmed {
		a.statusMsg = "Cancelled"
		return nil
	}
	switch result.Action {
	case components.ConfirmResetView:
		if err := a.ctrl.ResetView(); err != nil {
			a.setStatus("", err)
			return nil
		}
		a.setStatus("View reset", nil)
		a.afterChange()
	case components.ConfirmSwitchForest:
		a.loading = true
		a.statusMsg = "Loading file..."
		return processor.LoadForestCmd(result.Data)
	}
	return nil
}

func (a *App) handleLoad(msg processor.LoadResultMsg) tea.Cmd {
	if msg.Err != nil {
		a.setStatus("", msg.Err)
		a.opts.Logger.Warn("ui: load failed", "path", msg.Path, "error", msg.Err)
		return nil
	}

	f, err := forest.New(msg.Forest, forest.WithLogger(a.opts.Logger))
	if err != nil {
		a.setStatus("", err)
		return nil
	}

	var ctrl *app.Controller
	if msg.Reload && a.ctrl != nil {
		// Keep the user's view when the reloaded forest still supports it.
		ctrl, err = app.NewController(f, a.ctrl.State(), a.opts.Logger)
	}
	if ctrl == nil {
		ctrl, err = app.NewController(f, app.SessionFromSettings(msg.Forest, a.opts.Settings), a.opts.Logger)
	}
	if err != nil {
		a.setStatus("", err)
		return nil
	}

	a.ctrl = ctrl
	a.currentFile = msg.Path
	a.explorer.SetCurrent(msg.Path)
	a.tree.SetController(ctrl)
	a.details.SetController(ctrl, msg.Path)
	a.afterChange()
	if a.activePanel == PanelExplorer {
		a.activePanel = PanelTree
		a.updateFocus()
	}
	a.setStatus(fmt.Sprintf("✓ Loaded %s: %d trees", filepath.Base(msg.Path), f.NumTrees()), nil)
	a.opts.Logger.Info("ui: forest loaded", "path", msg.Path, "trees", f.NumTrees(), "reload", msg.Reload)

	return a.watch(msg.Path)
}

// watch starts watching path unless it is already watched.
func (a *App) watch(path string) tea.Cmd {
	if !a.opts.Watch {
		return nil
	}
	if a.watcher != nil {
		if abs, err := filepath.Abs(path); err == nil && abs == a.watcher.Path() {
			return nil
		}
		_ = a.watcher.Close()
		a.watcher = nil
	}
	w, err := processor.NewWatcher(path, processor.DefaultSettle)
	if err != nil {
		a.setStatus("", err)
		return nil
	}
	a.watcher = w
	return w.Next()
}

func (a *App) nextChange() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Next()
}

// afterChange propagates controller changes to the panels.
func (a *App) afterChange() {
	a.tree.Refresh()
	a.details.Refresh()
	a.details.SetCursor(a.tree.Cursor())
}

func (a *App) setStatus(text string, err error) {
	if err != nil {
		a.errMsg = err.Error()
		return
	}
	a.errMsg = ""
	if text != "" {
		a.statusMsg = text
	}
}

func (a *App) handleMouse(msg tea.MouseMsg) {
	// Release stops dragging
	if msg.Type == tea.MouseRelease {
		if a.dragActive != DragNone {
			a.dragActive = DragNone
			a.statusMsg = "Ready"
		}
		return
	}

	if a.dragActive != DragNone && (msg.Type == tea.MouseMotion || msg.Type == tea.MouseLeft) {
		deltaRatio := float64(msg.X-a.dragStartMX) / float64(a.width)
		newRatio := a.dragStartRatio + deltaRatio

		switch a.dragActive {
		case DragExplorer:
			a.explorerRatio = min(max(newRatio, 0.10), 0.40)
		case DragTree:
			// Details keeps at least 15%
			a.treeRatio = min(max(newRatio, 0.25), 0.85-a.explorerRatio)
		}
		a.updateComponentSizes()
		return
	}

	if msg.Type != tea.MouseLeft {
		return
	}

	s1 := int(float64(a.width) * a.explorerRatio)
	s2 := s1 + int(float64(a.width)*a.treeRatio)
	switch {
	case msg.X >= s1-2 && msg.X <= s1+2:
		a.dragActive = DragExplorer
		a.dragStartMX = msg.X
		a.dragStartRatio = a.explorerRatio
		a.statusMsg = "Resizing explorer..."
	case msg.X >= s2-2 && msg.X <= s2+2:
		a.dragActive = DragTree
		a.dragStartMX = msg.X
		a.dragStartRatio = a.treeRatio
		a.statusMsg = "Resizing tree..."
	case msg.X < s1:
		a.activePanel = PanelExplorer
		a.updateFocus()
	case msg.X < s2:
		a.activePanel = PanelTree
		a.updateFocus()
	default:
		a.activePanel = PanelDetails
		a.updateFocus()
	}
}

// View renders the application.
func (a *App) View() string {
	if a.width == 0 {
		return "Initializing..."
	}

	if a.confirmDialog.IsVisible() {
		return a.confirmDialog.View()
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.explorer.View(),
		a.tree.View(),
		a.details.View(),
	))
	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

// updateComponentSizes recalculates component dimensions.
func (a *App) updateComponentSizes() {
	// Header, status bar and panel borders
	contentHeight := max(a.height-3-lipgloss.Height(a.help.View(a.keys))-1, 1)

	explorerWidth := int(float64(a.width) * a.explorerRatio)
	treeWidth := int(float64(a.width) * a.treeRatio)
	detailsWidth := a.width - explorerWidth - treeWidth - 6 // Account for borders

	a.explorer.SetSize(explorerWidth, contentHeight)
	a.tree.SetSize(treeWidth, contentHeight)
	a.details.SetSize(detailsWidth, contentHeight)

	a.updateFocus()
}

// updateFocus sets focus states on components.
func (a *App) updateFocus() {
	a.explorer.SetFocused(a.activePanel == PanelExplorer)
	a.tree.SetFocused(a.activePanel == PanelTree)
	a.details.SetFocused(a.activePanel == PanelDetails)
}

// renderHeader renders the application header.
func (a *App) renderHeader() string {
	title := styles.PanelTitleStyle.Render("cctview")
	if a.currentFile != "" {
		title += styles.DimItemStyle.Render(a.currentFile)
	}
	if a.watcher != nil {
		title += styles.SuccessStyle.Render("watching")
	}
	return title
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullDesc = styles.HelpDescStyle
	return h
}

// renderStatusBar renders the status line and the key help.
func (a *App) renderStatusBar() string {
	var left string
	switch {
	case a.errMsg != "":
		left = styles.ErrorStyle.Render(a.errMsg)
	case a.loading:
		left = styles.LoadingStyle.Render(a.statusMsg)
	default:
		left = styles.DimItemStyle.Render(a.statusMsg)
	}

	status := styles.StatusBarStyle.Width(a.width).Render(left)
	return status + "\n" + a.help.View(a.keys)
}
