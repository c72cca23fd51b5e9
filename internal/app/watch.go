package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/gltfloader/internal/transform"
)

// watchDebounce is how long the tree must stay quiet before a rebuild.
const watchDebounce = 300 * time.Millisecond

// watchExtensions are the files whose changes trigger a rebuild.
var watchExtensions = []string{".gltf", ".gif", ".png", ".bin", ".jpg", ".jpeg"}

// watch builds once, then rebuilds whenever a watched file changes, until
// ctx is cancelled. Build failures are logged and do not stop the loop.
func (a *App) watch(ctx context.Context) error {
	if a.config.HealthcheckPort > 0 {
		stop := a.startHealthcheckServer(ctx, a.config.HealthcheckPort)
		defer stop()
	}

	results, err := a.Build(ctx)
	if err != nil {
		a.logger.Error("Build failed.", "error", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]struct{})
	a.addWatches(watcher, watched, results)
	a.logger.Info("👀 Watching for changes...", "directories", len(watched))

	ticker := time.NewTicker(watchDebounce / 3)
	defer ticker.Stop()

	var (
		pending   bool
		lastEvent time.Time
	)
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Watch stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !a.relevant(event) {
				continue
			}
			a.logger.Debug("Change detected.", "path", event.Name, "op", event.Op.String())
			pending = true
			lastEvent = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("File watcher error.", "error", err)

		case <-ticker.C:
			if !pending || time.Since(lastEvent) < watchDebounce {
				continue
			}
			pending = false
			a.logger.Info("Rebuilding...")
			rebuilt, err := a.Build(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Error("Build failed.", "error", err)
			} else {
				results = rebuilt
			}
			// New documents and assets may live in directories not watched yet.
			a.addWatches(watcher, watched, results)
		}
	}
}

// addWatches registers every non-hidden directory beneath the directory
// arguments, the directory of every file argument, and the directory of
// every asset the last build referenced. fsnotify does not recurse, so each
// directory is added on its own. The output directory is never watched.
func (a *App) addWatches(watcher *fsnotify.Watcher, watched map[string]struct{}, results []*transform.Result) {
	dirs := make(map[string]struct{})
	for _, p := range a.config.Paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			dirs[filepath.Dir(p)] = struct{}{}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if path != p && (strings.HasPrefix(d.Name(), ".") || a.inOutDir(path)) {
				return filepath.SkipDir
			}
			dirs[path] = struct{}{}
			return nil
		})
		if err != nil {
			a.logger.Warn("Failed to list directories to watch.", "path", p, "error", err)
		}
	}
	for _, dir := range referencedDirs(results) {
		dirs[dir] = struct{}{}
	}

	sorted := make([]string, 0, len(dirs))
	for dir := range dirs {
		sorted = append(sorted, dir)
	}
	sort.Strings(sorted)

	for _, dir := range sorted {
		if _, ok := watched[dir]; ok || a.inOutDir(dir) {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			a.logger.Debug("Skipping missing directory.", "path", dir)
			continue
		}
		if err := watcher.Add(dir); err != nil {
			a.logger.Warn("Failed to watch directory.", "path", dir, "error", err)
			continue
		}
		watched[dir] = struct{}{}
		a.logger.Debug("Watching directory.", "path", dir)
	}
}

// referencedDirs lists the directories of built documents and of every
// asset request they issued, resolved against the document.
func referencedDirs(results []*transform.Result) []string {
	var dirs []string
	for _, res := range results {
		if res == nil {
			continue
		}
		docDir := filepath.Dir(res.ResourcePath)
		dirs = append(dirs, docDir)
		for _, ref := range res.References {
			asset := filepath.Join(docDir, filepath.FromSlash(ref.Request))
			dirs = append(dirs, filepath.Dir(asset))
		}
	}
	return dirs
}

func (a *App) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if a.inOutDir(event.Name) {
		return false
	}
	name := strings.ToLower(event.Name)
	for _, ext := range watchExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
