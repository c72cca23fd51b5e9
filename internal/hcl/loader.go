package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/gltfloader/internal/config"
	"github.com/specialistvlad/gltfloader/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL options loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the options file at path and translates it into the
// format-agnostic model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Options, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file %s: %w", path, err)
	}
	return l.Decode(ctx, path, src)
}

// Decode parses HCL source; filename is used for diagnostics only.
func (l *Loader) Decode(ctx context.Context, filename string, src []byte) (*config.Options, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL options loader started.", "file", filename)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, staticEvalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	opts, diags := l.translate(&root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid options in %s: %w", filename, diags)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options in %s: %w", filename, err)
	}

	logger.Debug("HCL options loaded.",
		"name", opts.Name,
		"output_path_func", opts.OutputPath.IsFunc(),
		"public_path_func", opts.PublicPath.IsFunc(),
	)
	return opts, nil
}

// translate converts the HCL-specific schema into the agnostic model.
func (l *Loader) translate(root *fileRoot) (*config.Options, hcl.Diagnostics) {
	opts := config.Default()
	var diags hcl.Diagnostics

	if b := root.Loader; b != nil {
		if b.Name != nil && *b.Name != "" {
			opts.Name = *b.Name
		}
		opts.Context = b.Context
		opts.RegExp = b.RegExp

		outputPath, moreDiags := translatePathOption("output_path", b.OutputPath)
		diags = append(diags, moreDiags...)
		opts.OutputPath = outputPath

		publicPath, moreDiags := translatePathOption("public_path", b.PublicPath)
		diags = append(diags, moreDiags...)
		opts.PublicPath = publicPath
	}

	if b := root.Assets; b != nil {
		if b.Name != nil && *b.Name != "" {
			opts.Assets.Name = *b.Name
		}
		opts.Assets.OutputPath = b.OutputPath
	}

	return opts, diags
}
