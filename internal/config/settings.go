/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Settings is the user settings file. Empty fields fall back to defaults or
// to the forest's own columns.
type Settings struct {
	Metric          string  `yaml:"metric"`
	SecondaryMetric string  `yaml:"secondary_metric"`
	Strictness      float64 `yaml:"strictness" validate:"gte=0,lte=100"`
	PruneMode       string  `yaml:"prune_mode" validate:"oneof=none zeros flag-zeros outliers flag-outliers"`
	Prune           bool    `yaml:"prune"`
	Legend          string  `yaml:"legend" validate:"oneof=unified individual"`
	ColorScheme     int     `yaml:"color_scheme" validate:"gte=0,lte=1"`
	Bins            int     `yaml:"bins" validate:"gte=1,lte=200"`
	LogLevel        string  `yaml:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.applyDefaults()
	return s
}

// LoadSettings reads and validates a YAML settings file. A missing file at
// the default location is not an error.
func LoadSettings(path string) (Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsPath()
	}
	if path == "" {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return Settings{}, errors.Wrapf(err, "read settings %s", path)
	}
	return ParseSettings(data)
}

// ParseSettings decodes, defaults and validates settings.
func ParseSettings(data []byte) (Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Wrap(err, "parse settings")
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks every field against its constraints.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Newf("invalid setting %s=%v (%s %s)",
				strings.ToLower(fe.Field()), fe.Value(), fe.Tag(), fe.Param())
		}
		return errors.Wrap(err, "validate settings")
	}
	return nil
}

// SlogLevel returns the log level as a slog.Level.
func (s Settings) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func (s *Settings) applyDefaults() {
	if s.Strictness == 0 {
		s.Strictness = 1.5
	}
	if s.PruneMode == "" {
		s.PruneMode = "flag-zeros"
	}
	if s.Legend == "" {
		s.Legend = "unified"
	}
	if s.Bins == 0 {
		s.Bins = DefaultBins
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}
