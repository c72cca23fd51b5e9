package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths      []string // .gltf files or directories
	ConfigPath string   // options file: .hcl, .yaml or .yml

	OutDir      string
	RootContext string

	LogFormat       string
	LogLevel        string
	WorkerCount     int
	HealthcheckPort int

	DryRun      bool
	Precompress bool
	Watch       bool
}

// NewConfig validates cfg and returns a copy with its paths made absolute.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one document path is required")
	}
	if cfg.OutDir == "" && !cfg.DryRun {
		return nil, errors.New("OutDir is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.HealthcheckPort < 0 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}
	if cfg.HealthcheckPort > 0 && !cfg.Watch {
		return nil, errors.New("the health check server is only available in watch mode")
	}
	if cfg.ConfigPath != "" {
		if _, err := selectLoader(cfg.ConfigPath); err != nil {
			return nil, err
		}
	}

	rootContext := cfg.RootContext
	if rootContext == "" {
		rootContext = "."
	}
	abs, err := filepath.Abs(rootContext)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve context %q: %w", rootContext, err)
	}
	cfg.RootContext = abs

	if cfg.OutDir != "" {
		if cfg.OutDir, err = filepath.Abs(cfg.OutDir); err != nil {
			return nil, fmt.Errorf("failed to resolve output directory: %w", err)
		}
	}

	paths := make([]string, 0, len(cfg.Paths))
	for _, p := range cfg.Paths {
		if strings.TrimSpace(p) == "" {
			return nil, errors.New("document paths cannot be empty")
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", p, err)
		}
		paths = append(paths, abs)
	}
	cfg.Paths = paths

	return &cfg, nil
}
