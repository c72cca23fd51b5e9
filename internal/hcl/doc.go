// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for parsing the options file, validating it
// against the loader's schema, and turning `output_path` / `public_path`
// expressions that reference `url`, `resource_path` or `context` into
// per-artifact functions.
package hcl
