// Package transform is the document build step. It names a scene document,
// rewrites its asset references through the host's Resolver, emits the
// result through the host's Emitter and produces the accessor module that
// exports the document's public path.
//
// Both host capabilities are passed in explicitly; the package holds no
// global state.
package transform
