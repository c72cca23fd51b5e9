// Package yamlconfig provides a YAML implementation of the config.Loader
// interface. YAML carries literal options only; per-artifact path functions
// need the HCL format.
package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/gltfloader/internal/config"
	"github.com/specialistvlad/gltfloader/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// file mirrors the options schema using the bundler's option names.
type file struct {
	Name       string `yaml:"name"`
	Context    string `yaml:"context"`
	RegExp     string `yaml:"regExp"`
	OutputPath string `yaml:"outputPath"`
	PublicPath string `yaml:"publicPath"`
	Assets     struct {
		Name       string `yaml:"name"`
		OutputPath string `yaml:"outputPath"`
	} `yaml:"assets"`
}

// Loader reads options from YAML files.
type Loader struct{}

// NewLoader creates a new YAML options loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the options file at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Options, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file %s: %w", path, err)
	}
	return l.Decode(ctx, path, src)
}

// Decode parses YAML source; filename is used in error messages only.
// Unknown keys and multiple documents are rejected.
func (l *Loader) Decode(ctx context.Context, filename string, src []byte) (*config.Options, error) {
	ctxlog.FromContext(ctx).Debug("YAML options loader started.", "file", filename)

	var f file
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}
	var extra any
	if err := dec.Decode(&extra); err == nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: multiple documents are not supported", filename)
	} else if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}

	opts := config.Default()
	if f.Name != "" {
		opts.Name = f.Name
	}
	opts.Context = f.Context
	opts.RegExp = f.RegExp
	opts.OutputPath = config.Literal(f.OutputPath)
	opts.PublicPath = config.Literal(f.PublicPath)
	if f.Assets.Name != "" {
		opts.Assets.Name = f.Assets.Name
	}
	opts.Assets.OutputPath = f.Assets.OutputPath

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options in %s: %w", filename, err)
	}
	return opts, nil
}
