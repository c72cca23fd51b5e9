package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/specialistvlad/gltfloader/internal/ctxlog"
	"github.com/specialistvlad/gltfloader/internal/host"
	"github.com/specialistvlad/gltfloader/internal/rewriter"
	"github.com/specialistvlad/gltfloader/internal/transform"
	"golang.org/x/sync/errgroup"
)

// Run executes the main application logic: a single build, or a build
// followed by rebuilds on change in watch mode.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Watch {
		return a.watch(ctx)
	}

	if _, err := a.Build(ctx); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// Build transforms every discovered document, emitting each one together
// with its accessor module. Results are returned in document order. The
// first document that fails cancels the others and fails the build.
func (a *App) Build(ctx context.Context) (results []*transform.Result, err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	defer func() { a.recordBuild(err) }()

	docs, err := a.discover(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		a.logger.Warn("No documents found, nothing to build.", "paths", a.config.Paths)
		return nil, nil
	}

	started := time.Now()
	a.logger.Info("Building documents...", "count", len(docs), "workers", a.config.WorkerCount)

	resolver := host.NewFileResolver(a.options.Assets, a.emitter, a.config.RootContext)
	transformer := transform.New(a.options, resolver, a.emitter, a.config.RootContext)

	results = make([]*transform.Result, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			res, err := a.buildDocument(gctx, transformer, doc)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logSummary(results, time.Since(started))
	return results, nil
}

func (a *App) buildDocument(ctx context.Context, transformer *transform.Transformer, doc string) (*transform.Result, error) {
	content, err := os.ReadFile(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", doc, err)
	}

	res, err := transformer.Transform(ctx, transform.Source{ResourcePath: doc, Content: content})
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", doc, err)
	}

	modulePath := res.OutputPath + ".js"
	if err := a.emitter.Emit(ctx, modulePath, []byte(res.Module+"\n")); err != nil {
		return nil, fmt.Errorf("failed to emit accessor module for %s: %w", doc, err)
	}
	return res, nil
}

func (a *App) logSummary(results []*transform.Result, elapsed time.Duration) {
	totals := make(map[rewriter.Outcome]int)
	for _, res := range results {
		for outcome, n := range rewriter.Count(res.References) {
			totals[outcome] += n
		}
		a.logger.Debug("Document built.",
			"document", res.ResourcePath,
			"output_path", res.OutputPath,
			"public_path", res.PublicPath,
		)
	}

	a.logger.Info("🏁 Build finished.",
		"documents", len(results),
		"resolved", totals[rewriter.Resolved],
		"unmatched", totals[rewriter.Unmatched],
		"failed", totals[rewriter.Failed],
		"duration", elapsed.Round(time.Millisecond),
	)
	if totals[rewriter.Failed] > 0 {
		a.logger.Warn("Some asset references could not be resolved and were left unchanged.", "count", totals[rewriter.Failed])
	}

	for _, p := range a.Artifacts() {
		a.logger.Info("Artifact (dry run).", "path", p)
	}
}

func (a *App) recordBuild(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastBuild = err
	a.builds++
}

// buildStatus reports how many builds ran and how the last one ended.
func (a *App) buildStatus() (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.builds, a.lastBuild
}
