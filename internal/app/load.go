package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specialistvlad/gltfloader/internal/config"
	"github.com/specialistvlad/gltfloader/internal/ctxlog"
	"github.com/specialistvlad/gltfloader/internal/fsutil"
	"github.com/specialistvlad/gltfloader/internal/hcl"
	"github.com/specialistvlad/gltfloader/internal/yamlconfig"
)

// DocumentExtensions are the file extensions discovered in directory
// arguments.
var DocumentExtensions = []string{".gltf"}

// LoaderFor returns the options loader for the file at path, chosen by its
// extension. An empty path yields a nil loader, meaning default options.
func LoaderFor(path string) (config.Loader, error) {
	if path == "" {
		return nil, nil
	}
	return selectLoader(path)
}

func selectLoader(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hcl.NewLoader(), nil
	case ".yaml", ".yml":
		return yamlconfig.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported options file %q: expected .hcl, .yaml or .yml", path)
	}
}

func loadOptions(ctx context.Context, path string, loader config.Loader) (*config.Options, error) {
	if path == "" || loader == nil {
		ctxlog.FromContext(ctx).Debug("No options file given, using defaults.")
		return config.Default(), nil
	}
	return loader.Load(ctx, path)
}

// discover expands the configured paths into a sorted, de-duplicated list
// of documents. Files given explicitly are taken whatever their extension.
func (a *App) discover(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	seen := make(map[string]struct{})
	var docs []string

	for _, p := range a.config.Paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", p, err)
		}
		found := []string{p}
		if info.IsDir() {
			if found, err = fsutil.FindFilesByExtension(p, DocumentExtensions...); err != nil {
				return nil, fmt.Errorf("failed to search %s: %w", p, err)
			}
			found = a.skipOutput(found)
			logger.Debug("Searched directory for documents.", "path", p, "found", len(found))
		}
		for _, doc := range found {
			if _, ok := seen[doc]; ok {
				continue
			}
			seen[doc] = struct{}{}
			docs = append(docs, doc)
		}
	}

	sort.Strings(docs)
	return docs, nil
}

// skipOutput drops files beneath the output directory, so a build never
// picks up its own artifacts.
func (a *App) skipOutput(files []string) []string {
	if a.config.OutDir == "" {
		return files
	}
	kept := files[:0]
	for _, f := range files {
		if !a.inOutDir(f) {
			kept = append(kept, f)
		}
	}
	return kept
}

func (a *App) inOutDir(path string) bool {
	if a.config.OutDir == "" {
		return false
	}
	rel, err := filepath.Rel(a.config.OutDir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
