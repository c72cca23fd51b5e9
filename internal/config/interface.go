package config

import (
	"context"
)

// Loader is the interface for a format-specific options loader.
type Loader interface {
	// Load reads and validates the options file at path and translates it
	// into the format-agnostic model. Unknown settings are a validation
	// error, not silently ignored.
	Load(ctx context.Context, path string) (*Options, error)
}
