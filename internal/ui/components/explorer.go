/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package components provides the panels of the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ijuttt/cctview/internal/processor"
	"github.com/ijuttt/cctview/internal/ui/render"
	"github.com/ijuttt/cctview/internal/ui/styles"
)

// -----------------------------------------------------------------------------
// Key Bindings (local to avoid import cycle)
// -----------------------------------------------------------------------------

var (
	keyUp = key.NewBinding(
		key.WithKeys("up", "k"),
	)
	keyDown = key.NewBinding(
		key.WithKeys("down", "j"),
	)
)

// -----------------------------------------------------------------------------
// Explorer Component
// -----------------------------------------------------------------------------

// Explorer lists the discovered forest files, newest first.
type Explorer struct {
	files     []processor.FileInfo
	cursor    int
	current   string
	width     int
	height    int
	focused   bool
	title     string
	emptyText string
}

// NewExplorer creates a new file explorer.
func NewExplorer() Explorer {
	return Explorer{
		title:     "Forests",
		emptyText: "No forest files found",
	}
}

// SetFiles updates the file list.
func (e *Explorer) SetFiles(files []processor.FileInfo) {
	e.files = files
	if e.cursor >= len(files) {
		e.cursor = max(0, len(files)-1)
	}
}

// SetCurrent marks the loaded file.
func (e *Explorer) SetCurrent(path string) {
	e.current = path
}

// SetSize updates the component dimensions.
func (e *Explorer) SetSize(width, height int) {
	e.width = width
	e.height = height
}

// SetFocused sets the focus state.
func (e *Explorer) SetFocused(focused bool) {
	e.focused = focused
}

// SelectedFile returns the file under the cursor.
func (e *Explorer) SelectedFile() *processor.FileInfo {
	if e.cursor >= 0 && e.cursor < len(e.files) {
		return &e.files[e.cursor]
	}
	return nil
}

// Selected returns the path under the cursor.
func (e *Explorer) Selected() string {
	if f := e.SelectedFile(); f != nil {
		return f.Path
	}
	return ""
}

// FileCount returns total number of files.
func (e *Explorer) FileCount() int {
	return len(e.files)
}

// Update handles input for the explorer.
func (e *Explorer) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keyUp):
			if e.cursor > 0 {
				e.cursor--
			}
		case key.Matches(msg, keyDown):
			if e.cursor < len(e.files)-1 {
				e.cursor++
			}
		}
	}
	return nil
}

// View renders the explorer.
func (e Explorer) View() string {
	var b strings.Builder

	if len(e.files) == 0 {
		b.WriteString(styles.DimItemStyle.Render(e.emptyText))
		return e.applyPanelStyle(b.String())
	}

	// Two lines per file
	visible := max((e.height-2)/2, 1)
	start := 0
	if e.cursor >= visible {
		start = e.cursor - visible + 1
	}
	end := min(start+visible, len(e.files))

	nameWidth := max(e.width-6, 10)
	for i := start; i < end; i++ {
		f := e.files[i]
		prefix := "  "
		if f.Path == e.current {
			prefix = "● "
		}
		name := prefix + render.Truncate(f.Name, nameWidth-2)

		if i == e.cursor {
			b.WriteString(styles.SelectedItemStyle.Render(name))
		} else {
			b.WriteString(styles.NormalItemStyle.Render(name))
		}
		b.WriteString("\n")
		b.WriteString(styles.DimItemStyle.Render("  " + f.HumanSize() + ", " + f.Age()))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.DimItemStyle.Render(fmt.Sprintf(" [%d/%d]", e.cursor+1, len(e.files))))

	return e.applyPanelStyle(b.String())
}

// applyPanelStyle applies the appropriate panel style.
func (e Explorer) applyPanelStyle(content string) string {
	title := fmt.Sprintf("%s (%d)", e.title, len(e.files))
	return styles.Panel(title, e.focused, e.width, e.height).Render(content)
}
