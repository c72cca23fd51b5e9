package rewriter

import (
	"context"
	"path/filepath"

	"github.com/specialistvlad/gltfloader/internal/ctxlog"
	"github.com/specialistvlad/gltfloader/internal/document"
	"golang.org/x/sync/errgroup"
)

// ResolveFunc resolves a normalized module request and returns the source
// of the resolved module. The source is expected to hold the output path of
// the request as a double-quoted string literal.
type ResolveFunc func(ctx context.Context, request string) (string, error)

// Outcome describes what happened to a single reference.
type Outcome int

const (
	// Resolved means the leaf now holds the relative output path.
	Resolved Outcome = iota + 1
	// Unmatched means resolution succeeded but yielded no usable path; the
	// leaf keeps its original value.
	Unmatched
	// Failed means resolution returned an error; the leaf keeps its
	// original value.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Unmatched:
		return "unmatched"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Reference is an eligible file reference found in a document.
type Reference struct {
	// Pointer is the JSON pointer of the leaf holding the reference.
	Pointer string
	// Original is the leaf value before rewriting.
	Original string
	// Request is Original in explicit relative form, as sent to the resolver.
	Request string
	// Resolved is the value written back into the leaf, if any.
	Resolved string
	Outcome  Outcome
	Err      error

	leaf   document.Leaf
	source string
}

// Rewrite replaces every eligible file reference in doc with the resolved
// output path, expressed relative to anchorDir. Each reference is resolved
// on its own goroutine as soon as the walk finds it; the call returns once
// all of them have settled. A failed resolution is logged and leaves its
// leaf untouched. The tree is only written after the join, so resolve
// callbacks never touch it.
//
// The returned references are in walk order. The only error is the
// context's, when it was cancelled before the join completed.
func Rewrite(ctx context.Context, doc any, anchorDir string, resolve ResolveFunc) ([]*Reference, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		g    errgroup.Group
		refs []*Reference
	)
	document.Walk(doc, func(leaf document.Leaf) {
		if !IsEligible(leaf.Value) {
			return
		}
		original := leaf.Value.(string)
		ref := &Reference{
			Pointer:  leaf.Pointer,
			Original: original,
			Request:  Normalize(original),
			leaf:     leaf,
		}
		refs = append(refs, ref)

		logger.Debug("Resolving asset reference.", "pointer", ref.Pointer, "request", ref.Request)
		g.Go(func() error {
			ref.source, ref.Err = resolve(ctx, ref.Request)
			return nil
		})
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return refs, err
	}

	for _, ref := range refs {
		apply(ctx, ref, anchorDir)
	}
	return refs, nil
}

func apply(ctx context.Context, ref *Reference, anchorDir string) {
	logger := ctxlog.FromContext(ctx).With("pointer", ref.Pointer, "request", ref.Request)

	if ref.Err != nil {
		ref.Outcome = Failed
		logger.Warn("Asset reference could not be resolved; keeping original value.", "error", ref.Err)
		return
	}

	target, ok := ExtractPath(ref.source)
	if !ok {
		ref.Outcome = Unmatched
		logger.Debug("Resolved module holds no quoted path; keeping original value.")
		return
	}

	rel, err := relativeTo(anchorDir, target)
	if err != nil {
		ref.Outcome = Unmatched
		logger.Warn("Resolved path cannot be made relative to the document; keeping original value.", "target", target, "error", err)
		return
	}

	ref.leaf.Set(rel)
	ref.Resolved = rel
	ref.Outcome = Resolved
	logger.Debug("Asset reference rewritten.", "resolved", rel)
}

// relativeTo expresses target relative to dir using forward slashes.
// Absolute URLs are returned unchanged.
func relativeTo(dir, target string) (string, error) {
	if IsExternalURL(target) {
		return target, nil
	}
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(target))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Count tallies references by outcome.
func Count(refs []*Reference) map[Outcome]int {
	counts := make(map[Outcome]int, 3)
	for _, ref := range refs {
		counts[ref.Outcome]++
	}
	return counts
}
