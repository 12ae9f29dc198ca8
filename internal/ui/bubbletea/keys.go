package bubbletea

import "github.com/charmbracelet/bubbles/key"

// -----------------------------------------------------------------------------
// Key Bindings
// -----------------------------------------------------------------------------

// KeyMap defines all keyboard shortcuts for the application. Tree movement
// keys are handled by the tree view itself and listed here for help only.
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Extend key.Binding

	// Tree actions
	Select key.Binding
	Toggle key.Binding
	Tab    key.Binding

	// View
	Prune           key.Binding
	Stricter        key.Binding
	Looser          key.Binding
	PrimaryMetric   key.Binding
	SecondaryMetric key.Binding
	ColorScheme     key.Binding
	Legend          key.Binding
	ActiveTree      key.Binding
	ResetView       key.Binding

	// Application
	Quit   key.Binding
	Help   key.Binding
	Reload key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Extend: key.NewBinding(
			key.WithKeys("shift+up", "shift+down", "K", "J"),
			key.WithHelp("⇧↑/⇧↓", "extend selection"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter/x", "load / collapse"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		Prune: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prune outliers"),
		),
		Stricter: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "stricter"),
		),
		Looser: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "looser"),
		),
		PrimaryMetric: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "color metric"),
		),
		SecondaryMetric: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "size metric"),
		),
		ColorScheme: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "color scheme"),
		),
		Legend: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unified legend"),
		),
		ActiveTree: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "next tree"),
		),
		ResetView: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset view"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// ShortHelp returns abbreviated help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Select, k.Toggle, k.Prune, k.PrimaryMetric, k.Help, k.Quit}
}

// FullHelp returns complete help.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Extend, k.Select, k.Toggle},
		{k.Prune, k.Stricter, k.Looser, k.ResetView},
		{k.PrimaryMetric, k.SecondaryMetric, k.ColorScheme, k.Legend, k.ActiveTree},
		{k.Tab, k.Reload, k.Help, k.Quit},
	}
}
