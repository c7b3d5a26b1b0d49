package loader

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/davidllorente/haproxygen/internal/ctxlog"
	"github.com/davidllorente/haproxygen/internal/fragment"
	"github.com/davidllorente/haproxygen/internal/model"
	"github.com/davidllorente/haproxygen/internal/schema"
)

// translateBlock dispatches one top-level block by type, decodes its body
// through the matching schema struct, and appends the resulting
// declaration to the grid.
func (l *Loader) translateBlock(ctx context.Context, grid *model.Grid, block *hclsyntax.Block) ([]model.Warning, error) {
	switch block.Type {
	case "global":
		if err := wantLabels(block, 0); err != nil {
			return nil, err
		}
		return nil, l.translateGlobal(grid, block)

	case "defaults":
		if len(block.Labels) > 1 {
			return nil, fmt.Errorf("defaults block takes at most one label (the group name), got %d", len(block.Labels))
		}
		return nil, l.translateDefaults(grid, block)

	case "frontend":
		if err := wantLabels(block, 1); err != nil {
			return nil, err
		}
		return l.translateService(ctx, grid, fragment.KindFrontend, block)

	case "listen":
		if err := wantLabels(block, 1); err != nil {
			return nil, err
		}
		return l.translateService(ctx, grid, fragment.KindListen, block)

	case "backend":
		if err := wantLabels(block, 1); err != nil {
			return nil, err
		}
		return nil, l.translateBackend(grid, block)

	case "member":
		if err := wantLabels(block, 2); err != nil {
			return nil, err
		}
		return nil, l.translateMember(grid, block)

	default:
		return nil, fmt.Errorf("unsupported block type %q", block.Type)
	}
}

func wantLabels(block *hclsyntax.Block, n int) error {
	if len(block.Labels) != n {
		return fmt.Errorf("%s block takes %d label(s), got %d", block.Type, n, len(block.Labels))
	}
	for _, label := range block.Labels {
		if label == "" {
			return fmt.Errorf("%s block label must not be empty", block.Type)
		}
	}
	return nil
}

func (l *Loader) translateGlobal(grid *model.Grid, block *hclsyntax.Block) error {
	var sc schema.Global
	if diags := gohcl.DecodeBody(block.Body, nil, &sc); diags.HasErrors() {
		return fmt.Errorf("decoding global block: %w", diags)
	}
	options, err := optionsFromExpr(sc.Options)
	if err != nil {
		return fmt.Errorf("global block: %w", err)
	}
	grid.Sections = append(grid.Sections, &model.Section{
		Kind:       fragment.KindGlobal,
		Options:    options,
		Instance:   orDefault(sc.Instance),
		TargetFile: sc.TargetFile,
	})
	return nil
}

func (l *Loader) translateDefaults(grid *model.Grid, block *hclsyntax.Block) error {
	var group string
	if len(block.Labels) == 1 {
		group = block.Labels[0]
	}
	var sc schema.Defaults
	if diags := gohcl.DecodeBody(block.Body, nil, &sc); diags.HasErrors() {
		return fmt.Errorf("decoding defaults block: %w", diags)
	}
	mode, err := model.ParseMode(sc.Mode)
	if err != nil {
		return fmt.Errorf("defaults block: %w", err)
	}
	options, err := optionsFromExpr(sc.Options)
	if err != nil {
		return fmt.Errorf("defaults block: %w", err)
	}
	grid.Sections = append(grid.Sections, &model.Section{
		Kind:       fragment.KindDefaults,
		Name:       group,
		Mode:       mode,
		Options:    options,
		Instance:   orDefault(sc.Instance),
		TargetFile: sc.TargetFile,
	})
	return nil
}

func (l *Loader) translateService(ctx context.Context, grid *model.Grid, kind fragment.Kind, block *hclsyntax.Block) ([]model.Warning, error) {
	name := block.Labels[0]
	var sc schema.Service
	if diags := gohcl.DecodeBody(block.Body, nil, &sc); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s %q: %w", kind, name, diags)
	}

	ports, err := stringsFromExpr(sc.Ports)
	if err != nil {
		return nil, fmt.Errorf("%s %q: ports: %w", kind, name, err)
	}
	binds, err := bindsFromExpr(sc.Bind)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, name, err)
	}

	binding, warnings, err := model.NewBinding(sc.IPAddress, ports, binds, sc.BindOptions)
	if err != nil {
		return warnings, fmt.Errorf("%s %q: %w", kind, name, err)
	}
	logger := ctxlog.FromContext(ctx)
	for _, w := range warnings {
		logger.Warn("Deprecated declaration field in use.",
			"section", name, "field", w.Field, "detail", w.Detail)
	}

	mode, err := model.ParseMode(sc.Mode)
	if err != nil {
		return warnings, fmt.Errorf("%s %q: %w", kind, name, err)
	}
	options, err := optionsFromExpr(sc.Options)
	if err != nil {
		return warnings, fmt.Errorf("%s %q: %w", kind, name, err)
	}

	grid.Sections = append(grid.Sections, &model.Section{
		Kind:          kind,
		Name:          name,
		Binding:       binding,
		Mode:          mode,
		Options:       options,
		Collect:       sc.Collect,
		DefaultsGroup: sc.Defaults,
		Instance:      orDefault(sc.Instance),
		TargetFile:    sc.TargetFile,
	})
	return warnings, nil
}

func (l *Loader) translateBackend(grid *model.Grid, block *hclsyntax.Block) error {
	name := block.Labels[0]
	var sc schema.Backend
	if diags := gohcl.DecodeBody(block.Body, nil, &sc); diags.HasErrors() {
		return fmt.Errorf("decoding backend %q: %w", name, diags)
	}
	mode, err := model.ParseMode(sc.Mode)
	if err != nil {
		return fmt.Errorf("backend %q: %w", name, err)
	}
	options, err := optionsFromExpr(sc.Options)
	if err != nil {
		return fmt.Errorf("backend %q: %w", name, err)
	}
	grid.Sections = append(grid.Sections, &model.Section{
		Kind:          fragment.KindBackend,
		Name:          name,
		Mode:          mode,
		Options:       options,
		Collect:       sc.Collect,
		DefaultsGroup: sc.Defaults,
		Instance:      orDefault(sc.Instance),
		TargetFile:    sc.TargetFile,
	})
	return nil
}

func (l *Loader) translateMember(grid *model.Grid, block *hclsyntax.Block) error {
	section, name := block.Labels[0], block.Labels[1]
	var sc schema.Member
	if diags := gohcl.DecodeBody(block.Body, nil, &sc); diags.HasErrors() {
		return fmt.Errorf("decoding member %q of section %q: %w", name, section, diags)
	}
	port, err := optionalStringFromExpr(sc.Port)
	if err != nil {
		return fmt.Errorf("member %q of section %q: port: %w", name, section, err)
	}
	grid.Members = append(grid.Members, &model.Member{
		Section:       section,
		Name:          name,
		ServerNames:   sc.ServerNames,
		Addresses:     sc.Addresses,
		Port:          port,
		Options:       sc.Options,
		DefaultsGroup: sc.Defaults,
		Instance:      orDefault(sc.Instance),
		TargetFile:    sc.TargetFile,
	})
	return nil
}

func orDefault(instance string) string {
	if instance == "" {
		return model.DefaultInstance
	}
	return instance
}
