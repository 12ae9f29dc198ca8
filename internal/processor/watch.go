/* SPDX-License-Identifier: GPL-2.0-only */
/* Copyright (C) 2026 ijuttt */

package processor

import (
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a watched file must stay quiet before a change
// is reported.
const DefaultSettle = 150 * time.Millisecond

// ForestChangedMsg is sent when the watched forest file was rewritten.
type ForestChangedMsg struct {
	Path string
}

// WatchErrorMsg is sent when the watcher reports an error.
type WatchErrorMsg struct {
	Err error
}

// Watcher reports changes to one forest file. It watches the parent
// directory so that editors and tools that replace the file by rename are
// noticed too.
type Watcher struct {
	path   string
	settle time.Duration
	fsw    *fsnotify.Watcher
}

// NewWatcher starts watching path.
func NewWatcher(path string, settle time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "watch %s", path)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	slog.Debug("processor: watching", "path", abs)
	return &Watcher{path: abs, settle: settle, fsw: fsw}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Next returns a command that blocks until the file changes and settles.
// The command yields nil once the watcher is closed.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return nil
				}
				if !w.relevant(ev) {
					continue
				}
				if !w.waitQuiet() {
					return nil
				}
				slog.Debug("processor: forest changed", "path", w.path, "op", ev.Op.String())
				return ForestChangedMsg{Path: w.path}

			case err, ok := <-w.fsw.Errors:
				if !ok {
					return nil
				}
				return WatchErrorMsg{Err: err}
			}
		}
	}
}

// waitQuiet swallows further events for the file until none arrive for the
// settle period. It reports false when the watcher closed meanwhile.
func (w *Watcher) waitQuiet() bool {
	timer := time.NewTimer(w.settle)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return false
			}
			if w.relevant(ev) {
				timer.Reset(w.settle)
			}
		case <-timer.C:
			return true
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
