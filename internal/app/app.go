package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/davidllorente/haproxygen/internal/config"
	"github.com/davidllorente/haproxygen/internal/ctxlog"
	"github.com/davidllorente/haproxygen/internal/loader"
	"github.com/davidllorente/haproxygen/internal/memberstore"
)

// Config holds everything an App needs for one invocation. CLI flags land
// here; the YAML runtime configuration is loaded by NewApp itself.
type Config struct {
	GridPath   string
	ConfigPath string

	// StoreDSN overrides the runtime configuration's member store DSN.
	StoreDSN string

	// Stdout prints assembled artifacts instead of writing target files.
	Stdout bool

	// RequireNonEmpty fails the run when a target file would carry zero
	// fragments. The runtime configuration can also switch this on.
	RequireNonEmpty bool

	// Watch keeps the run alive and re-assembles on grid file changes.
	Watch bool

	LogLevel  string
	LogFormat string
}

// App encapsulates the assembler's dependencies and lifecycle. Artifacts
// requested on stdout go to outW; logs go to logW so the two streams never
// interleave.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	cfg     *Config
	runtime *config.Config
	loader  *loader.Loader
}

// NewApp constructs a fully initialized App with its own isolated logger.
// A runtime configuration that cannot be loaded is a fatal startup error
// and panics; the front end recovers and converts it to a clean exit.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	runtime, err := config.Load(cfg.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load runtime configuration: %w", err))
	}

	level := cfg.LogLevel
	if level == "" {
		level = runtime.Log.Level
	}
	format := cfg.LogFormat
	if format == "" {
		format = runtime.Log.Format
	}
	logger := newLogger(level, format, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:    outW,
		logger:  logger,
		cfg:     cfg,
		runtime: runtime,
		loader:  loader.New(),
	}
}

// Runtime returns the loaded runtime configuration. This is primarily for
// testing.
func (a *App) Runtime() *config.Config {
	return a.runtime
}

// runContext attaches the app logger, tagged with a fresh run id, to the
// context every library call logs through.
func (a *App) runContext(ctx context.Context) (context.Context, string) {
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)
	return ctxlog.WithLogger(ctx, logger), runID
}

// openStore selects the member store: a DSN from the flag or runtime
// configuration opens the shared database store, no DSN at all keeps the
// store in-process.
func (a *App) openStore(ctx context.Context) (memberstore.Store, error) {
	dsn := a.cfg.StoreDSN
	if dsn == "" {
		dsn = a.runtime.Store.DSN
	}
	if dsn == "" {
		ctxlog.FromContext(ctx).Debug("No store DSN configured, using in-process member store.")
		return memberstore.NewInMemory(), nil
	}
	return memberstore.Open(ctx, dsn)
}
