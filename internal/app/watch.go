package app

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/davidllorente/haproxygen/internal/ctxlog"
	"github.com/davidllorente/haproxygen/internal/memberstore"
)

// debounce batches the burst of filesystem events an editor save produces
// into a single re-assembly.
const debounce = 250 * time.Millisecond

// watch re-runs assembly whenever a grid file changes. A failing
// re-assembly is logged and watching continues: an intermediate save with
// a syntax error must not kill the watcher. The context ends the watch.
func (a *App) watch(ctx context.Context, store memberstore.Store) error {
	logger := ctxlog.FromContext(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addWatchTargets(w, a.cfg.GridPath); err != nil {
		return err
	}
	logger.Info("Watching grid path for changes.", "grid_path", a.cfg.GridPath)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			logger.Debug("Grid change detected.", "file", event.Name, "op", event.Op.String())
			// A new subdirectory needs its own watch before files inside
			// it produce events.
			if event.Op.Has(fsnotify.Create) {
				_ = addWatchTargets(w, event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := a.assembleOnce(ctx, store); err != nil {
				logger.Error("Re-assembly failed, keeping previous artifacts.", "error", err)
				continue
			}
			logger.Info("Re-assembled after grid change.")

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error.", "error", err)
		}
	}
}

// relevantEvent filters for changes that can alter the declaration set.
func relevantEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	if event.Op.Has(fsnotify.Create) {
		return true // might be a directory; checked by the caller
	}
	return strings.HasSuffix(event.Name, ".hcl")
}

// addWatchTargets registers path and, when it is a directory, every
// subdirectory beneath it. fsnotify watches are not recursive. A
// single-file grid is watched through its parent directory: editors
// replace files by rename, which silently drops a watch on the file
// itself.
func addWatchTargets(w *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
