package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ijuttt/cctview/internal/ui/styles"
)

// -----------------------------------------------------------------------------
// Confirm Dialog Component
// -----------------------------------------------------------------------------

// ConfirmAction represents what action the dialog is confirming.
type ConfirmAction int

const (
	ConfirmNone ConfirmAction = iota
	ConfirmResetView
	ConfirmSwitchForest
)

// ConfirmResult is sent when user responds to confirmation dialog.
type ConfirmResult struct {
	Action    ConfirmAction
	Confirmed bool
	Data      string // Additional data (e.g. the forest path to switch to)
}

// ConfirmDialog is a modal confirmation dialog component.
type ConfirmDialog struct {
	visible bool
	action  ConfirmAction
	message string
	data    string
	width   int
	height  int
}

// NewConfirmDialog creates a new confirmation dialog.
func NewConfirmDialog() ConfirmDialog {
	return ConfirmDialog{}
}

// Show displays the confirmation dialog with the given message.
func (c *ConfirmDialog) Show(action ConfirmAction, message string, data string) {
	c.visible = true
	c.action = action
	c.message = message
	c.data = data
}

// Hide hides the confirmation dialog.
func (c *ConfirmDialog) Hide() {
	*c = ConfirmDialog{width: c.width, height: c.height}
}

// IsVisible returns whether the dialog is currently visible.
func (c *ConfirmDialog) IsVisible() bool {
	return c.visible
}

// SetSize sets the dialog dimensions.
func (c *ConfirmDialog) SetSize(width, height int) {
	c.width = width
	c.height = height
}

var (
	confirmKey = key.NewBinding(
		key.WithKeys("y", "Y", "enter"),
		key.WithHelp("y", "confirm"),
	)
	cancelKey = key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "cancel"),
	)
)

// Update handles input for the confirmation dialog. The second result
// reports whether the user answered.
func (c *ConfirmDialog) Update(msg tea.Msg) (ConfirmResult, bool) {
	if !c.visible {
		return ConfirmResult{}, false
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return ConfirmResult{}, false
	}

	var confirmed bool
	switch {
	case key.Matches(km, confirmKey):
		confirmed = true
	case key.Matches(km, cancelKey):
	default:
		return ConfirmResult{}, false
	}

	result := ConfirmResult{Action: c.action, Confirmed: confirmed, Data: c.data}
	c.Hide()
	return result, true
}

// View renders the confirmation dialog.
func (c ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	dialogStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.ColorWarning).
		Padding(1, 2).
		Width(44)

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.ColorWarning).
		Bold(true)

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.ColorText).
		MarginTop(1).
		MarginBottom(1)

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.ColorMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Confirm"))
	b.WriteString("\n")
	b.WriteString(messageStyle.Render(c.message))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y] Yes    [n/esc] Cancel"))

	dialog := dialogStyle.Render(b.String())

	if c.width > 0 && c.height > 0 {
		return lipgloss.Place(
			c.width, c.height,
			lipgloss.Center, lipgloss.Center,
			dialog,
		)
	}

	return dialog
}
