/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

// cctview is a terminal viewer for forests of calling-context trees. It
// prunes uninteresting subtrees into surrogate nodes, colors the rest by a
// chosen metric and builds call-path queries from selections.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ijuttt/cctview/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	logLevel    string
	logFile     string
	metricsAddr string
	watch       bool
)

var rootCmd = &cobra.Command{
	Use:   "cctview [forest.json]",
	Short: "calling-context tree forest viewer",
	Long: `cctview shows a forest of calling-context trees with uninteresting
subtrees folded into surrogate nodes.

Without an argument the newest forest file in the data paths is opened.
When stdout is not a terminal a plain summary is printed instead of the TUI.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	RunE:              runView,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "settings file (default "+config.DefaultSettingsPath()+")")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides settings)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the forest when its file changes")

	rootCmd.SetUsageTemplate(rootCmd.UsageTemplate() + usageFooter())
	rootCmd.AddCommand(statsCmd, queryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// usageFooter lists the discovery paths and environment variables.
func usageFooter() string {
	var b strings.Builder
	b.WriteString("\nAuto-discovery paths (searched in order):\n")
	for i, p := range config.GetDataPaths() {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, p)
	}
	b.WriteString("\nEnvironment variables:\n")
	fmt.Fprintf(&b, "  %s  Override the data directory\n", config.EnvDataDir)
	return b.String()
}

// -----------------------------------------------------------------------------
// Shared setup
// -----------------------------------------------------------------------------

var (
	settings   config.Settings
	logger     *slog.Logger
	logCloser  io.Closer
	metricsSrv *http.Server
)

// setup loads the settings, configures logging and starts the metrics
// server.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	settings, err = config.LoadSettings(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
		if err := settings.Validate(); err != nil {
			return err
		}
	}

	// The TUI owns the terminal; without a log file its logs are dropped.
	var w io.Writer = os.Stderr
	if !cmd.HasParent() && logFile == "" && stdoutIsTerminal() {
		w = io.Discard
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrapf(err, "open log file %s", logFile)
		}
		w, logCloser = f, f
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: settings.SlogLevel()}))
	slog.SetDefault(logger)

	if metricsAddr != "" {
		startMetrics(metricsAddr)
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(ctx)
	}
	if logCloser != nil {
		_ = logCloser.Close()
	}
}

func startMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics: listening", "addr", addr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics: server failed", "error", err)
		}
	}()
}
