package host

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/gltfloader/internal/config"
	"github.com/specialistvlad/gltfloader/internal/ctxlog"
	"github.com/specialistvlad/gltfloader/internal/interpolate"
	"github.com/specialistvlad/gltfloader/internal/transform"
)

// Asset is the module handle FileResolver returns for a resolved request.
type Asset struct {
	SourcePath string
	OutputPath string
	Size       int
}

// FileResolver resolves relative asset requests against the importing
// document's directory, emits the file under a content-derived name and
// answers with a module exporting the file's runtime URL. Nothing is cached:
// requesting the same file twice reads and emits it twice.
type FileResolver struct {
	opts        config.AssetOptions
	emitter     transform.Emitter
	nameContext string
}

// NewFileResolver returns a FileResolver. nameContext is the directory
// [path] name tokens are computed relative to.
func NewFileResolver(opts config.AssetOptions, emitter transform.Emitter, nameContext string) *FileResolver {
	return &FileResolver{opts: opts, emitter: emitter, nameContext: nameContext}
}

// Resolve implements transform.Resolver.
func (r *FileResolver) Resolve(ctx context.Context, importer, request string) (transform.Resolution, error) {
	if err := ctx.Err(); err != nil {
		return transform.Resolution{}, err
	}
	if !strings.HasPrefix(request, "./") && !strings.HasPrefix(request, "../") {
		return transform.Resolution{}, fmt.Errorf("unsupported request %q: only relative paths can be resolved", request)
	}

	sourcePath := filepath.Join(filepath.Dir(importer), filepath.FromSlash(request))
	info, err := os.Stat(sourcePath)
	if err != nil {
		return transform.Resolution{}, fmt.Errorf("module not found: %q from %s: %w", request, importer, err)
	}
	if !info.Mode().IsRegular() {
		return transform.Resolution{}, fmt.Errorf("module %q from %s is not a regular file", request, importer)
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		return transform.Resolution{}, fmt.Errorf("failed to read asset %s: %w", sourcePath, err)
	}

	url, err := interpolate.Name(r.opts.Name, interpolate.Params{
		ResourcePath: sourcePath,
		Context:      r.nameContext,
		Content:      content,
	})
	if err != nil {
		return transform.Resolution{}, fmt.Errorf("failed to name asset %s: %w", sourcePath, err)
	}
	outputPath := url
	if r.opts.OutputPath != "" {
		outputPath = path.Join(r.opts.OutputPath, url)
	}

	if err := r.emitter.Emit(ctx, outputPath, content); err != nil {
		return transform.Resolution{}, fmt.Errorf("failed to emit asset %s: %w", outputPath, err)
	}
	ctxlog.FromContext(ctx).Debug("Asset emitted.", "source", sourcePath, "output_path", outputPath, "size", len(content))

	return transform.Resolution{
		Source: transform.ExportModule(transform.RuntimeRelative(outputPath)),
		Module: &Asset{SourcePath: sourcePath, OutputPath: outputPath, Size: len(content)},
	}, nil
}
