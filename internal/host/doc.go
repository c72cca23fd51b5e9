// Package host is a minimal file-system build pipeline for the transform
// package. FileResolver turns a document's asset requests into emitted,
// content-hashed files, and the emitters decide where artifacts end up: a
// directory on disk, memory, or either of those plus gzip sidecars.
package host
