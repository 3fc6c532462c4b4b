package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toyz/measuregen/internal/utils"
)

// DefaultDebounce is how long the watcher waits for changes to settle
const DefaultDebounce = 300 * time.Millisecond

// RunFunc performs one generation run
type RunFunc func(ctx context.Context) (*GenerationSummary, error)

// Watcher re-runs generation whenever a Go source file below the watched
// directories changes. Changes to generated wrappers and tests are ignored.
type Watcher struct {
	scanner     *DirectoryScanner
	run         RunFunc
	diagnostics *utils.DiagnosticSystem
	debounce    time.Duration

	// OnRun, when set, is called after every run
	OnRun func(*GenerationSummary, error)
}

// NewWatcher creates a watcher calling run after each settled batch of changes
func NewWatcher(scanner *DirectoryScanner, run RunFunc, diagnostics *utils.DiagnosticSystem, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		scanner:     scanner,
		run:         run,
		diagnostics: diagnostics,
		debounce:    debounce,
	}
}

// Watch runs generation once and then after every change until ctx is done
func (w *Watcher) Watch(ctx context.Context, patterns []string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer fw.Close()

	dirs, err := w.scanner.WatchDirectories(patterns)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	w.diagnostics.Info("Watching %d directories", len(dirs))

	w.runOnce(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(fw, event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.diagnostics.Warn("watch error: %v", err)

		case <-timer.C:
			w.runOnce(ctx)
		}
	}
}

// handleEvent reports whether event should trigger a run. New directories
// are added to the watch list.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
			if err := fw.Add(event.Name); err != nil {
				w.diagnostics.Warn("failed to watch %s: %v", event.Name, err)
			}
			return false
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if !w.scanner.IsSourceFile(filepath.Base(event.Name)) {
		return false
	}

	w.diagnostics.Debug("change detected: %s", event)
	return true
}

func (w *Watcher) runOnce(ctx context.Context) {
	summary, err := w.run(ctx)
	if w.OnRun != nil {
		w.OnRun(summary, err)
	}
}
