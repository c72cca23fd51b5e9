package config

import (
	"errors"
	"fmt"
	"regexp"
)

// PathFunc computes a path from the interpolated artifact url, the source
// document path and the naming context.
type PathFunc func(url, resourcePath, context string) (string, error)

// PathOption is either a literal string or a function of the artifact being
// built. An option with neither set is treated as absent.
type PathOption struct {
	Literal string
	Func    PathFunc
}

// Literal returns a PathOption holding a fixed string.
func Literal(s string) PathOption {
	return PathOption{Literal: s}
}

// Func returns a PathOption computed per artifact.
func Func(fn PathFunc) PathOption {
	return PathOption{Func: fn}
}

// IsSet reports whether the option carries a value.
func (o PathOption) IsSet() bool {
	return o.Func != nil || o.Literal != ""
}

// IsFunc reports whether the option is computed per artifact.
func (o PathOption) IsFunc() bool {
	return o.Func != nil
}

// Options is the unified, format-agnostic representation of the loader's
// settings.
type Options struct {
	// Name is the output naming template for documents.
	Name string
	// Context is the base directory for name interpolation. Empty means
	// the build's root context.
	Context string
	// RegExp fills the [N] name tokens from the resource path.
	RegExp string
	// OutputPath relocates the emitted document.
	OutputPath PathOption
	// PublicPath overrides the runtime reference exported by the accessor
	// module.
	PublicPath PathOption

	Assets AssetOptions
}

// AssetOptions configures how the file-system host names and places the
// binary and image files a document references.
type AssetOptions struct {
	Name       string
	OutputPath string
}

// DefaultName is the naming template used for documents and assets when
// none is configured.
const DefaultName = "[hash].[ext]"

// Default returns the options used when no options file is given.
func Default() *Options {
	return &Options{
		Name:   DefaultName,
		Assets: AssetOptions{Name: DefaultName},
	}
}

// Validate checks cross-field constraints that a format loader cannot
// express in its schema.
func (o *Options) Validate() error {
	var errs []error
	if o.RegExp != "" {
		if _, err := regexp.Compile(o.RegExp); err != nil {
			errs = append(errs, fmt.Errorf("regExp: %w", err))
		}
	}
	return errors.Join(errs...)
}
