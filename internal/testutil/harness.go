package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidllorente/haproxygen/internal/app"
	"github.com/davidllorente/haproxygen/internal/model"
)

// Options tunes one harness run. The zero value is a plain assembly with
// an in-process member store.
type Options struct {
	// Seed declares these members into a SQLite member store before the
	// run, so sections flagged collect=true find them. Seeding implies a
	// shared store.
	Seed []*model.Member

	// RequireNonEmpty passes the corresponding flag through to the run.
	RequireNonEmpty bool

	// ExtraConfig is appended verbatim to the generated runtime
	// configuration.
	ExtraConfig string
}

// Result holds the outcomes of a harness run.
type Result struct {
	// Artifacts maps target file base names to written content,
	// e.g. "haproxy.cfg".
	Artifacts map[string]string

	LogOutput string
	Stdout    string
	Err       error
}

// Run writes the given grid files into a temporary directory and drives a
// full assembly through the app: runtime config, store selection,
// loading, collection, and the writer. Target files land in a temporary
// output directory via the runtime config's instance table.
func Run(t *testing.T, files map[string]string, opts *Options) *Result {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}

	tmpDir := t.TempDir()
	gridDir := filepath.Join(tmpDir, "grid")
	outDir := filepath.Join(tmpDir, "out")
	require.NoError(t, os.Mkdir(gridDir, 0o755))
	require.NoError(t, os.Mkdir(outDir, 0o755))

	for name, content := range files {
		path := filepath.Join(gridDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	// The generated runtime config points the default instance into the
	// output directory; tests never touch /etc.
	configYAML := fmt.Sprintf("instances:\n  haproxy: %s\n", filepath.Join(outDir, "haproxy.cfg"))
	if len(opts.Seed) > 0 {
		configYAML += fmt.Sprintf("store:\n  dsn: %s\n", filepath.Join(tmpDir, "members.db"))
	}
	if opts.ExtraConfig != "" {
		configYAML += opts.ExtraConfig
	}
	configPath := filepath.Join(tmpDir, "haproxygen.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0o644))

	logBuffer := &SafeBuffer{}
	stdout := &bytes.Buffer{}
	appConfig := &app.Config{
		GridPath:        gridDir,
		ConfigPath:      configPath,
		RequireNonEmpty: opts.RequireNonEmpty,
		LogLevel:        "debug",
		LogFormat:       "text",
	}

	var runErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				runErr = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		a := app.NewApp(stdout, logBuffer, appConfig)
		if len(opts.Seed) > 0 {
			runErr = a.DeclareMembers(context.Background(), opts.Seed)
			if runErr != nil {
				return
			}
		}
		runErr = a.Run(context.Background())
	}()

	result := &Result{
		Artifacts: map[string]string{},
		LogOutput: logBuffer.String(),
		Stdout:    stdout.String(),
		Err:       runErr,
	}
	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(outDir, path)
		if err != nil {
			return err
		}
		result.Artifacts[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return result
}
