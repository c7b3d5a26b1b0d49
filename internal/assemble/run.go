package assemble

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/davidllorente/haproxygen/internal/ctxlog"
	"github.com/davidllorente/haproxygen/internal/fragment"
	"github.com/davidllorente/haproxygen/internal/memberstore"
	"github.com/davidllorente/haproxygen/internal/model"
	"github.com/davidllorente/haproxygen/internal/render"
)

// ErrEmptyTargetFile reports a run that was asked to require non-empty
// output but produced a target file with zero fragments. It is a
// caller-selected policy, not a hard rule of assembly.
var ErrEmptyTargetFile = errors.New("target file has no fragments")

// Options configures one assembly run.
type Options struct {
	// Resolve maps a declaration's instance and optional override to its
	// target file path.
	Resolve func(instance, override string) string

	// SortOptions orders each section's rendered options alphabetically
	// instead of declaration order.
	SortOptions bool

	// RequireNonEmpty fails the run when a target file would be written
	// with zero fragments.
	RequireNonEmpty bool
}

// Result holds the assembled artifacts of one run, keyed by target file
// path. Content is final: sorted fragments concatenated verbatim.
type Result struct {
	Artifacts map[string]string
}

// Run processes the grid's declarations into assembled artifacts.
// Declarations register in deterministic input order; sections flagged for
// collection then pull their remote members from the store; finally every
// target file's registry is concatenated. The first fatal error aborts
// the whole run.
func Run(ctx context.Context, grid *model.Grid, store memberstore.Store, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	registries := make(map[string]*fragment.Registry)
	var paths []string // registry creation order, for deterministic iteration
	registryFor := func(path string) *fragment.Registry {
		if reg, ok := registries[path]; ok {
			return reg
		}
		reg := fragment.NewRegistry(path)
		registries[path] = reg
		paths = append(paths, path)
		return reg
	}

	for _, s := range grid.Sections {
		frag, err := render.SectionFragment(s, opts.SortOptions)
		if err != nil {
			return nil, err
		}
		reg := registryFor(opts.Resolve(s.Instance, s.TargetFile))
		if err := registerFragment(ctx, reg, frag); err != nil {
			return nil, err
		}
	}

	for _, m := range grid.Members {
		frag, err := render.MemberFragment(m)
		if err != nil {
			return nil, err
		}
		reg := registryFor(opts.Resolve(m.Instance, m.TargetFile))
		if err := registerFragment(ctx, reg, frag); err != nil {
			return nil, err
		}
	}

	if err := collectMembers(ctx, grid, store, opts, registryFor); err != nil {
		return nil, err
	}

	if opts.RequireNonEmpty && len(registries) == 0 {
		return nil, fmt.Errorf("%w: no declarations produced any fragment", ErrEmptyTargetFile)
	}

	// Target files are independent; concatenate them in parallel. Each
	// registry is read-only from here on.
	result := &Result{Artifacts: make(map[string]string, len(registries))}
	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	for _, path := range paths {
		reg := registries[path]
		g.Go(func() error {
			if opts.RequireNonEmpty && reg.Len() == 0 {
				return fmt.Errorf("%w: %s", ErrEmptyTargetFile, reg.Path())
			}
			content := reg.Content()
			mu.Lock()
			result.Artifacts[reg.Path()] = content
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Assembly complete.", "target_files", len(result.Artifacts))
	return result, nil
}

// collectionKey scopes the once-per-run collection dedupe. Sections of
// different instances can share a name while assembling into different
// target files, and each of those files needs the collected members.
type collectionKey struct {
	path    string
	section string
}

// collectMembers pulls remotely declared members for every section flagged
// collect=true. Collection happens after all local registrations so a
// conflict surfaces the same way regardless of which side declared first.
// Each (target file, section) pair is collected once per run; re-collection
// would be a no-op anyway because member fragment names are unique within
// a registry.
func collectMembers(ctx context.Context, grid *model.Grid, store memberstore.Store, opts Options, registryFor func(string) *fragment.Registry) error {
	logger := ctxlog.FromContext(ctx)

	collected := make(map[collectionKey]bool)
	for _, s := range grid.Sections {
		if !s.Collect {
			continue
		}
		path := opts.Resolve(s.Instance, s.TargetFile)
		key := collectionKey{path: path, section: s.Name}
		if collected[key] {
			continue
		}
		collected[key] = true

		members, err := store.CollectFor(ctx, s.Name)
		if err != nil {
			return fmt.Errorf("collecting members for section %q: %w", s.Name, err)
		}
		logger.Debug("Collected members for section.", "section", s.Name, "count", len(members))

		reg := registryFor(path)
		for _, m := range members {
			// A collected member sorts inside the collecting section's
			// band, so it inherits the section's defaults group unless it
			// declared its own.
			if m.DefaultsGroup == "" {
				m.DefaultsGroup = s.DefaultsGroup
			}
			frag, err := render.MemberFragment(m)
			if err != nil {
				return err
			}
			if err := registerFragment(ctx, reg, frag); err != nil {
				return err
			}
		}
	}
	return nil
}

// registerFragment registers one fragment, logging the last-write-wins
// overwrite that idempotent re-runs produce.
func registerFragment(ctx context.Context, reg *fragment.Registry, frag fragment.Fragment) error {
	if prev, ok := reg.Lookup(frag.Name); ok && prev.Kind == frag.Kind {
		ctxlog.FromContext(ctx).Debug("Fragment re-registered, last write wins.",
			"name", frag.Name, "target_file", reg.Path())
	}
	return reg.Register(frag)
}
