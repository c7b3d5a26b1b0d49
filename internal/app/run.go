package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/davidllorente/haproxygen/internal/assemble"
	"github.com/davidllorente/haproxygen/internal/ctxlog"
	"github.com/davidllorente/haproxygen/internal/memberstore"
	"github.com/davidllorente/haproxygen/internal/writer"
)

// Run executes one assembly invocation: load the grid, assemble every
// target file, and write (or print) the artifacts. With Watch enabled it
// then stays alive and re-assembles on grid changes.
func (a *App) Run(ctx context.Context) error {
	ctx, _ = a.runContext(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Assembly run started.", "grid_path", a.cfg.GridPath)

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := a.assembleOnce(ctx, store); err != nil {
		return err
	}
	logger.Info("Assembly run finished.")

	if a.cfg.Watch {
		return a.watch(ctx, store)
	}
	return nil
}

// assembleOnce performs one full load, assemble and write pass. Artifacts
// are rendered completely in memory before the first byte reaches disk,
// so a failing run never leaves partial output behind.
func (a *App) assembleOnce(ctx context.Context, store memberstore.Store) error {
	logger := ctxlog.FromContext(ctx)

	grid, warnings, err := a.loader.Load(ctx, a.cfg.GridPath)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("Declaration warning.", "field", w.Field, "detail", w.Detail)
	}

	result, err := assemble.Run(ctx, grid, store, assemble.Options{
		Resolve:         a.runtime.TargetFile,
		SortOptions:     a.runtime.SortAlphabetic(),
		RequireNonEmpty: a.cfg.RequireNonEmpty || a.runtime.Writer.RequireNonEmpty,
	})
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(result.Artifacts))
	for path := range result.Artifacts {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	if a.cfg.Stdout {
		for _, path := range paths {
			fmt.Fprintf(a.outW, "# target file: %s\n%s", path, result.Artifacts[path])
		}
		return nil
	}

	mode, err := a.runtime.FileMode()
	if err != nil {
		return err
	}
	for _, path := range paths {
		content := result.Artifacts[path]
		if err := writer.Write(path, content, mode); err != nil {
			return err
		}
		logger.Info("Wrote assembled configuration.", "target_file", path, "bytes", len(content))
	}
	return nil
}
