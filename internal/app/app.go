package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/specialistvlad/gltfloader/internal/config"
	"github.com/specialistvlad/gltfloader/internal/ctxlog"
	"github.com/specialistvlad/gltfloader/internal/host"
	"github.com/specialistvlad/gltfloader/internal/transform"
)

// precompressMinSize is the smallest artifact that gets a gzip sidecar.
const precompressMinSize = 1024

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	options *config.Options
	emitter transform.Emitter
	memory  *host.MemoryEmitter

	mu        sync.RWMutex
	lastBuild error
	builds    int
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. A nil loader means
// default options.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	opts, err := loadOptions(ctx, appConfig.ConfigPath, loader)
	if err != nil {
		// A failure to load options is a fatal startup error.
		panic(fmt.Errorf("failed to load options: %w", err))
	}
	logger.Debug("Options loaded.", "name", opts.Name, "asset_name", opts.Assets.Name)

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  appConfig,
		options: opts,
	}

	if appConfig.DryRun {
		a.memory = host.NewMemoryEmitter()
		a.emitter = a.memory
	} else {
		a.emitter = host.NewDirEmitter(appConfig.OutDir)
	}
	if appConfig.Precompress {
		a.emitter = host.NewGzipEmitter(a.emitter, precompressMinSize)
	}
	logger.Debug("Emitter configured.", "out_dir", appConfig.OutDir, "dry_run", appConfig.DryRun, "precompress", appConfig.Precompress)

	return a
}

// Options returns the loaded options. This is primarily for testing.
func (a *App) Options() *config.Options {
	return a.options
}

// Artifacts lists the paths emitted so far by a dry run, or nil when the
// app writes to disk.
func (a *App) Artifacts() []string {
	if a.memory == nil {
		return nil
	}
	return a.memory.Paths()
}
