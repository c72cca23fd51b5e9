package transform

import (
	"context"
)

// Resolution is what the host pipeline returns for a module request.
type Resolution struct {
	// Source is the generated source of the resolved module. It holds the
	// output path of the request as a double-quoted string literal.
	Source string
	// Module is an opaque handle owned by the host.
	Module any
}

// Resolver resolves module requests issued by a document through the host
// pipeline's module graph, building and emitting the target as needed.
type Resolver interface {
	// Resolve resolves request relative to importer, the path of the
	// document that issued it.
	Resolve(ctx context.Context, importer, request string) (Resolution, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, importer, request string) (Resolution, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, importer, request string) (Resolution, error) {
	return f(ctx, importer, request)
}

// Emitter registers named output artifacts with the host pipeline.
type Emitter interface {
	Emit(ctx context.Context, path string, content []byte) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(ctx context.Context, path string, content []byte) error

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, path string, content []byte) error {
	return f(ctx, path, content)
}
