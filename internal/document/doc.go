// Package document holds the untyped JSON tree of a scene description. It
// parses raw bytes into nested maps and slices, walks the tree's primitive
// leaves in a deterministic order, and serializes the result back into text
// that is safe to embed in generated script.
package document
