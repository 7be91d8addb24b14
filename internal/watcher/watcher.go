// Package watcher reloads the layer file when it changes on disk.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/macropadd/internal/layer"
)

// Events within this window of the previous trigger are ignored so editor
// save bursts coalesce into one reload.
const debounce = 500 * time.Millisecond

// Load reads and parses the layer file.
func Load(path string, logger *slog.Logger) (*layer.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return layer.ParseTable(data, logger)
}

// Watch monitors the layer file until ctx is cancelled and calls apply with
// each successfully parsed table. A failed parse is logged and the previous
// table stays active untouched.
//
// The parent directory is watched rather than the file itself so that
// atomic-save editors (write temp file, rename over target) keep triggering
// reloads.
func Watch(ctx context.Context, path string, logger *slog.Logger, apply func(*layer.Table)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", abs))

	var lastTrigger time.Time

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if time.Since(lastTrigger) < debounce {
				continue
			}
			lastTrigger = time.Now()

			logger.Info("watcher: reloading layer file", slog.String("path", abs))
			table, loadErr := Load(abs, logger)
			if loadErr != nil {
				logger.Warn("watcher: reload failed, keeping previous layers",
					slog.String("error", loadErr.Error()))
				continue
			}
			apply(table)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
