// Package config defines the format-agnostic loader options model along with
// the Loader interface that reads it from an options file.
//
// The `config.Options` value is the single source of truth for the
// `transform` and `host` packages. Concrete implementations of the Loader
// interface, such as for HCL or YAML, are provided in separate packages.
package config
