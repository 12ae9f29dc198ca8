/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// Package config provides configuration constants, the settings file and
// path discovery for cctview.
package config

import (
	"os"
	"path/filepath"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	// AppName is the application identifier.
	AppName = "cctview"

	// DefaultDataDir is the system-wide forest directory.
	DefaultDataDir = "/var/lib/cctview"

	// ForestFileExtension is the expected extension for forest files.
	ForestFileExtension = ".json"

	// SettingsFileName is the settings file inside the config directory.
	SettingsFileName = "config.yaml"
)

// -----------------------------------------------------------------------------
// UI Constants
// -----------------------------------------------------------------------------

const (
	// DefaultBins is the number of distribution bins in the details panel.
	DefaultBins = 20

	// StrictnessStep is the increment of the +/- strictness keys.
	StrictnessStep = 0.25
)

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	// EnvDataDir overrides the default data directory.
	EnvDataDir = "CCTVIEW_DATA_DIR"

	// EnvXDGDataHome is the XDG data home environment variable.
	EnvXDGDataHome = "XDG_DATA_HOME"

	// EnvXDGConfigHome is the XDG config home environment variable.
	EnvXDGConfigHome = "XDG_CONFIG_HOME"
)

// -----------------------------------------------------------------------------
// Path Resolution
// -----------------------------------------------------------------------------

// GetDataPaths returns an ordered list of directories to search for forests.
// Priority order:
//  1. $CCTVIEW_DATA_DIR (if set)
//  2. $XDG_DATA_HOME/cctview (or ~/.local/share/cctview)
//  3. /var/lib/cctview (system default)
func GetDataPaths() []string {
	var paths []string

	if envDir := os.Getenv(EnvDataDir); envDir != "" {
		paths = append(paths, envDir)
	}

	xdgDataHome := os.Getenv(EnvXDGDataHome)
	if xdgDataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			xdgDataHome = filepath.Join(home, ".local", "share")
		}
	}
	if xdgDataHome != "" {
		paths = append(paths, filepath.Join(xdgDataHome, AppName))
	}

	paths = append(paths, DefaultDataDir)

	return paths
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/cctview/config.yaml, falling
// back to ~/.config. It returns "" when no home directory is known.
func DefaultSettingsPath() string {
	dir := os.Getenv(EnvXDGConfigHome)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName, SettingsFileName)
}
