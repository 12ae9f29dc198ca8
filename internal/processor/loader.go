// Package processor provides async forest loading, file listing and reload
// watching for the TUI.
package processor

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ijuttt/cctview/internal/config"
	"github.com/ijuttt/cctview/internal/model"
)

// -----------------------------------------------------------------------------
// Messages
// -----------------------------------------------------------------------------

// LoadResultMsg is sent when a forest file has been loaded.
type LoadResultMsg struct {
	Path   string
	Forest *model.Forest
	Err    error
	// Reload is set when the load was triggered by a file change.
	Reload bool
}

// FileListMsg is sent when the file list has been refreshed.
type FileListMsg struct {
	Files []FileInfo
	Err   error
}

// -----------------------------------------------------------------------------
// Commands
// -----------------------------------------------------------------------------

// LoadForestCmd creates a command to load a forest file asynchronously.
func LoadForestCmd(path string) tea.Cmd {
	return loadCmd(path, false)
}

// ReloadForestCmd is LoadForestCmd for a file that changed on disk.
func ReloadForestCmd(path string) tea.Cmd {
	return loadCmd(path, true)
}

func loadCmd(path string, reload bool) tea.Cmd {
	return func() tea.Msg {
		f, err := model.LoadForest(path)
		return LoadResultMsg{
			Path:   path,
			Forest: f,
			Err:    err,
			Reload: reload,
		}
	}
}

// RefreshFilesCmd creates a command to refresh the file list from dirs.
func RefreshFilesCmd(dirs []string) tea.Cmd {
	return func() tea.Msg {
		files, err := config.ListForestsIn(dirs)
		if err != nil {
			return FileListMsg{Err: err}
		}
		return FileListMsg{Files: toFileInfo(files)}
	}
}
