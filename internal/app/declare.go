package app

import (
	"context"
	"fmt"

	"github.com/davidllorente/haproxygen/internal/ctxlog"
	"github.com/davidllorente/haproxygen/internal/model"
)

// DeclareMembers publishes members into the shared store. This is the
// remote-host half of the declare/collect pattern: the members become
// visible to every assembly run that collects their sections.
func (a *App) DeclareMembers(ctx context.Context, members []*model.Member) error {
	ctx, runID := a.runContext(ctx)
	logger := ctxlog.FromContext(ctx)

	if len(members) == 0 {
		return fmt.Errorf("no members to declare")
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, m := range members {
		if err := store.Declare(ctx, runID, m); err != nil {
			return err
		}
		logger.Info("Declared member.", "section", m.Section, "member", m.Name)
	}
	return nil
}

// LoadMembers reads member declarations from a grid file for bulk
// declaration. The file must contain only member blocks; sections belong
// to the assembling host, not to declaring ones.
func (a *App) LoadMembers(ctx context.Context, path string) ([]*model.Member, error) {
	ctx, _ = a.runContext(ctx)

	grid, _, err := a.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(grid.Sections) > 0 {
		return nil, fmt.Errorf("declare file %s contains %d section block(s), only member blocks may be declared remotely",
			path, len(grid.Sections))
	}
	return grid.Members, nil
}

// ListMembers returns the members currently declared in the store, all of
// them or only those of one section.
func (a *App) ListMembers(ctx context.Context, section string) ([]*model.Member, error) {
	ctx, _ = a.runContext(ctx)

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if section != "" {
		return store.CollectFor(ctx, section)
	}
	return store.All(ctx)
}
