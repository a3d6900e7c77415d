// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package options

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/mention-tui/internal/model"
)

// DefaultDebounce is how long a file must be quiet before it is reloaded.
const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc receives the reloaded universe, or the error that prevented
// loading it. It is called from the watcher goroutine.
type ReloadFunc func(*model.Universe, error)

// =============================================================================
// WATCHER INTERFACE
// =============================================================================

// Watcher reloads an options file when it changes.
type Watcher interface {
	// Watch starts watching for changes
	Watch() error

	// Close stops watching and releases resources
	Close() error
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// FsnotifyWatcher watches the directory holding the options file so that
// editors replacing the file by rename are noticed.
type FsnotifyWatcher struct {
	path     string
	onReload ReloadFunc
	log      *slog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
	mu       sync.Mutex
	pending  time.Time // last change, zero when nothing is pending
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewFsnotifyWatcher creates a new fsnotify-based watcher
func NewFsnotifyWatcher(path string, debounce time.Duration, onReload ReloadFunc, logger *slog.Logger) (*FsnotifyWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &FsnotifyWatcher{
		path:     filepath.Clean(path),
		onReload: onReload,
		log:      logger.With("component", "options-watcher"),
		watcher:  watcher,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching for changes
func (fw *FsnotifyWatcher) Watch() error {
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return err
	}

	go fw.processEvents()
	go fw.processPending()

	return nil
}

// processEvents records changes to the watched file
func (fw *FsnotifyWatcher) processEvents() {
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fw.mu.Lock()
			fw.pending = time.Now()
			fw.mu.Unlock()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn("watch error", "path", fw.path, "error", err)
		}
	}
}

// processPending reloads once the file has been quiet for the debounce period
func (fw *FsnotifyWatcher) processPending() {
	ticker := time.NewTicker(fw.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case <-ticker.C:
			fw.mu.Lock()
			ready := !fw.pending.IsZero() && time.Since(fw.pending) >= fw.debounce
			if ready {
				fw.pending = time.Time{}
			}
			fw.mu.Unlock()

			if ready {
				reload(fw.path, fw.onReload, fw.log)
			}
		}
	}
}

// Close stops watching and releases resources
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	if fw.watcher != nil {
		return fw.watcher.Close()
	}
	return nil
}

// =============================================================================
// POLLING WATCHER (FALLBACK)
// =============================================================================

// PollingWatcher reloads when the file modification time changes.
type PollingWatcher struct {
	path     string
	onReload ReloadFunc
	log      *slog.Logger
	interval time.Duration
	modTime  time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewPollingWatcher creates a new polling-based watcher
func NewPollingWatcher(path string, interval time.Duration, onReload ReloadFunc, logger *slog.Logger) *PollingWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &PollingWatcher{
		path:     path,
		onReload: onReload,
		log:      logger.With("component", "options-watcher"),
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Watch starts watching for changes
func (pw *PollingWatcher) Watch() error {
	info, err := os.Stat(pw.path)
	if err != nil {
		return err
	}
	pw.modTime = info.ModTime()

	go pw.poll()
	return nil
}

// poll periodically checks the modification time
func (pw *PollingWatcher) poll() {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(pw.path)
			if err != nil || info.ModTime().Equal(pw.modTime) {
				continue
			}
			pw.modTime = info.ModTime()
			reload(pw.path, pw.onReload, pw.log)
		}
	}
}

// Close stops watching
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	return nil
}

// =============================================================================
// WATCHER FACTORY
// =============================================================================

// Watch starts a watcher for path, falling back to polling when fsnotify is
// unavailable.
func Watch(path string, onReload ReloadFunc, logger *slog.Logger) (Watcher, error) {
	fw, err := NewFsnotifyWatcher(path, DefaultDebounce, onReload, logger)
	if err == nil {
		if err := fw.Watch(); err == nil {
			return fw, nil
		}
		fw.Close()
	}

	pw := NewPollingWatcher(path, 2*time.Second, onReload, logger)
	if err := pw.Watch(); err != nil {
		return nil, err
	}
	return pw, nil
}

func reload(path string, onReload ReloadFunc, log *slog.Logger) {
	u, err := Load(path)
	if err != nil {
		log.Warn("options reload failed", "path", path, "error", err)
	} else {
		log.Info("options reloaded", "path", path, "count", u.Len())
	}
	if onReload != nil {
		onReload(u, err)
	}
}
