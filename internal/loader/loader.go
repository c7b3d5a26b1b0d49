package loader

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/davidllorente/haproxygen/internal/ctxlog"
	"github.com/davidllorente/haproxygen/internal/fsutil"
	"github.com/davidllorente/haproxygen/internal/model"
)

// Loader reads grid files into a model.Grid.
type Loader struct{}

// New creates a grid file loader.
func New() *Loader {
	return &Loader{}
}

// Load parses every .hcl file reachable from the given paths and returns
// the combined declaration model plus any non-fatal validation warnings.
// The first fatal problem aborts the load.
func (l *Loader) Load(ctx context.Context, paths ...string) (*model.Grid, []model.Warning, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Grid loader started.", "path_count", len(paths))

	files, err := l.findGridFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered grid files.", "count", len(files))

	grid := &model.Grid{}
	var warnings []model.Warning
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse grid file %s: %w", file, diags)
		}

		body, ok := hclFile.Body.(*hclsyntax.Body)
		if !ok {
			return nil, nil, fmt.Errorf("grid file %s: unexpected body type %T", file, hclFile.Body)
		}
		if len(body.Attributes) > 0 {
			names := make([]string, 0, len(body.Attributes))
			for name := range body.Attributes {
				names = append(names, name)
			}
			sort.Strings(names)
			return nil, nil, fmt.Errorf("grid file %s: top-level attributes %s are not allowed, declarations are blocks",
				file, strings.Join(names, ", "))
		}

		for _, block := range body.Blocks {
			warns, err := l.translateBlock(ctx, grid, block)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", block.DefRange().String(), err)
			}
			warnings = append(warnings, warns...)
		}
	}

	logger.Debug("Grid loading complete.",
		"sections", len(grid.Sections),
		"members", len(grid.Members),
		"warnings", len(warnings),
	)
	return grid, warnings, nil
}

// findGridFiles expands each path into its .hcl files. A directory
// contributes its files in lexical walk order; a plain file is taken
// as-is so a grid path may point at a single declaration file.
func (l *Loader) findGridFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("grid path %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("searching grid path %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}
