// Package rewriter finds local binary and image file references in a
// document tree, resolves each of them through an injected resolver, and
// rewrites the references to point at the resolved output files.
//
// A string leaf is a reference when it is not an absolute http(s) URL and
// ends in .gif, .png, .bin, .jpg or .jpeg. Every other leaf is left as-is.
package rewriter
