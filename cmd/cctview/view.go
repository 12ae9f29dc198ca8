package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/ijuttt/cctview/internal/app"
	"github.com/ijuttt/cctview/internal/config"
	"github.com/ijuttt/cctview/internal/forest"
	"github.com/ijuttt/cctview/internal/model"
	"github.com/ijuttt/cctview/internal/ui/bubbletea"
	"github.com/ijuttt/cctview/internal/ui/render"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runView starts the TUI, or prints the summary when stdout is not a
// terminal.
func runView(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	if !stdoutIsTerminal() {
		if path == "" {
			latest, err := config.DiscoverLatestForest()
			if err != nil {
				return err
			}
			path = latest
		}
		return printSummary(path)
	}

	if path == "" {
		// An empty data path is fine here; the explorer shows it.
		if latest, err := config.DiscoverLatestForest(); err == nil {
			path = latest
		}
	}

	ui := bubbletea.NewApp(bubbletea.Options{
		Settings: settings,
		DataDirs: config.GetDataPaths(),
		Path:     path,
		Watch:    watch,
		Logger:   logger,
	})
	defer ui.Close()

	p := tea.NewProgram(
		ui,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "run TUI")
	}
	return nil
}

// loadController loads path and applies the settings to it.
func loadController(path string, adjust func(*forest.SessionState)) (*app.Controller, error) {
	in, err := model.LoadForest(path)
	if err != nil {
		return nil, err
	}
	f, err := forest.New(in, forest.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	s := app.SessionFromSettings(in, settings)
	if adjust != nil {
		adjust(&s)
	}
	return app.NewController(f, s, logger)
}

func printSummary(path string) error {
	c, err := loadController(path, nil)
	if err != nil {
		return err
	}
	render.Summary(os.Stdout, c.Forest(), c.State(), render.NoColor())
	return nil
}
