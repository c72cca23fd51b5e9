package transform

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/specialistvlad/gltfloader/internal/config"
	"github.com/specialistvlad/gltfloader/internal/ctxlog"
	"github.com/specialistvlad/gltfloader/internal/document"
	"github.com/specialistvlad/gltfloader/internal/interpolate"
	"github.com/specialistvlad/gltfloader/internal/rewriter"
)

// Source is one document handed to the transformer.
type Source struct {
	// ResourcePath is the path of the document on disk. Asset requests are
	// resolved relative to it.
	ResourcePath string
	// Content is the raw document. It is hashed for naming and parsed
	// unless Document is set.
	Content []byte
	// Document is an already-parsed tree. When set without Content, its
	// canonical serialization is hashed for naming.
	Document any
}

// Result describes the emitted document.
type Result struct {
	ResourcePath string
	// URL is the interpolated document name.
	URL string
	// OutputPath is where the document was emitted.
	OutputPath string
	// PublicPath is the expression exported by the accessor module.
	PublicPath string
	// Module is the accessor module source.
	Module string
	// Content is the emitted document.
	Content    []byte
	References []*rewriter.Reference
}

// Transformer rewrites documents so their asset references point at built
// artifacts, then emits them.
type Transformer struct {
	opts        *config.Options
	resolver    Resolver
	emitter     Emitter
	rootContext string
}

// New returns a Transformer. rootContext is the naming context used when the
// options do not set one; a relative options context is taken relative to
// it.
func New(opts *config.Options, resolver Resolver, emitter Emitter, rootContext string) *Transformer {
	if opts == nil {
		opts = config.Default()
	}
	return &Transformer{
		opts:        opts,
		resolver:    resolver,
		emitter:     emitter,
		rootContext: rootContext,
	}
}

// Transform resolves every asset reference in the document, emits the
// rewritten document and returns the accessor module exporting its public
// path. Unresolvable references are kept as they are; every other failure
// aborts the call before anything is emitted.
func (t *Transformer) Transform(ctx context.Context, src Source) (*Result, error) {
	ctx = ctxlog.With(ctx, "document", src.ResourcePath)
	logger := ctxlog.FromContext(ctx)
	nameContext := t.nameContext()

	doc, content, err := load(src)
	if err != nil {
		return nil, err
	}

	url, err := interpolate.Name(t.opts.Name, interpolate.Params{
		ResourcePath: src.ResourcePath,
		Context:      nameContext,
		Content:      content,
		RegExp:       t.opts.RegExp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to interpolate document name: %w", err)
	}

	outputPath, err := t.outputPath(url, src.ResourcePath, nameContext)
	if err != nil {
		return nil, err
	}
	publicPath, err := t.publicPath(url, outputPath, src.ResourcePath, nameContext)
	if err != nil {
		return nil, err
	}
	logger.Debug("Document named.", "url", url, "output_path", outputPath)

	resolve := func(ctx context.Context, request string) (string, error) {
		res, err := t.resolver.Resolve(ctx, src.ResourcePath, request)
		return res.Source, err
	}
	refs, err := rewriter.Rewrite(ctx, doc, path.Dir(outputPath), resolve)
	if err != nil {
		return nil, fmt.Errorf("asset resolution interrupted: %w", err)
	}

	out, err := document.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := t.emitter.Emit(ctx, outputPath, out); err != nil {
		return nil, fmt.Errorf("failed to emit %s: %w", outputPath, err)
	}

	counts := rewriter.Count(refs)
	logger.Info("Document emitted.",
		"output_path", outputPath,
		"resolved", counts[rewriter.Resolved],
		"unmatched", counts[rewriter.Unmatched],
		"failed", counts[rewriter.Failed],
	)

	return &Result{
		ResourcePath: src.ResourcePath,
		URL:          url,
		OutputPath:   outputPath,
		PublicPath:   publicPath,
		Module:       ExportModule(publicPath),
		Content:      out,
		References:   refs,
	}, nil
}

func load(src Source) (doc any, content []byte, err error) {
	switch {
	case src.Document != nil:
		content = src.Content
		if content == nil {
			if content, err = document.Marshal(src.Document); err != nil {
				return nil, nil, err
			}
		}
		return src.Document, content, nil
	case src.Content != nil:
		doc, err = document.Parse(src.Content)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse %s: %w", src.ResourcePath, err)
		}
		return doc, src.Content, nil
	default:
		return nil, nil, errors.New("source has neither content nor a parsed document")
	}
}

func (t *Transformer) nameContext() string {
	switch {
	case t.opts.Context == "":
		return t.rootContext
	case filepath.IsAbs(t.opts.Context) || t.rootContext == "":
		return t.opts.Context
	default:
		return filepath.Join(t.rootContext, t.opts.Context)
	}
}

func (t *Transformer) outputPath(url, resourcePath, nameContext string) (string, error) {
	opt := t.opts.OutputPath
	switch {
	case opt.IsFunc():
		p, err := opt.Func(url, resourcePath, nameContext)
		if err != nil {
			return "", fmt.Errorf("failed to compute output path: %w", err)
		}
		return p, nil
	case opt.IsSet():
		return path.Join(opt.Literal, url), nil
	default:
		return url, nil
	}
}

func (t *Transformer) publicPath(url, outputPath, resourcePath, nameContext string) (string, error) {
	opt := t.opts.PublicPath
	switch {
	case opt.IsFunc():
		p, err := opt.Func(url, resourcePath, nameContext)
		if err != nil {
			return "", fmt.Errorf("failed to compute public path: %w", err)
		}
		return QuoteJS(p), nil
	case opt.IsSet():
		return QuoteJS(withTrailingSlash(opt.Literal) + url), nil
	default:
		return RuntimeRelative(outputPath), nil
	}
}
