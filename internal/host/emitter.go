package host

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/specialistvlad/gltfloader/internal/transform"
)

// DirEmitter writes artifacts beneath a root directory. It is safe for
// concurrent use, including concurrent emits of the same path.
type DirEmitter struct {
	root string
}

// NewDirEmitter returns an emitter rooted at root.
func NewDirEmitter(root string) *DirEmitter {
	return &DirEmitter{root: root}
}

// Emit writes content to root/p via a temporary file and a rename, so
// readers never observe a partially written artifact.
func (e *DirEmitter) Emit(ctx context.Context, p string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := e.target(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".emit-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move artifact into place at %s: %w", target, err)
	}
	return nil
}

// target maps an artifact path to a file beneath the root, refusing paths
// that are absolute, empty or climb out of it.
func (e *DirEmitter) target(p string) (string, error) {
	if p == "" || filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("invalid artifact path %q: must be relative", p)
	}
	clean := filepath.Clean(filepath.FromSlash(p))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid artifact path %q: escapes the output directory", p)
	}
	return filepath.Join(e.root, clean), nil
}

// MemoryEmitter keeps artifacts in memory. It backs dry runs and tests.
type MemoryEmitter struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemoryEmitter returns an empty MemoryEmitter.
func NewMemoryEmitter() *MemoryEmitter {
	return &MemoryEmitter{files: make(map[string][]byte)}
}

// Emit records a copy of content under p, replacing any previous artifact.
func (e *MemoryEmitter) Emit(ctx context.Context, p string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.files[p] = bytes.Clone(content)
	return nil
}

// Get returns the artifact emitted under p.
func (e *MemoryEmitter) Get(p string) ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.files[p]
	return b, ok
}

// Paths lists every emitted artifact path in sorted order.
func (e *MemoryEmitter) Paths() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	paths := make([]string, 0, len(e.files))
	for p := range e.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// GzipEmitter forwards every artifact to another emitter and, for
// artifacts of at least MinSize bytes, also emits a gzip-compressed copy
// under the same path with a ".gz" suffix.
type GzipEmitter struct {
	next    transform.Emitter
	minSize int
}

// NewGzipEmitter wraps next.
func NewGzipEmitter(next transform.Emitter, minSize int) *GzipEmitter {
	return &GzipEmitter{next: next, minSize: minSize}
}

// Emit implements transform.Emitter.
func (e *GzipEmitter) Emit(ctx context.Context, p string, content []byte) error {
	if err := e.next.Emit(ctx, p, content); err != nil {
		return err
	}
	if len(content) < e.minSize {
		return nil
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(content); err != nil {
		return fmt.Errorf("failed to compress %s: %w", p, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to compress %s: %w", p, err)
	}
	return e.next.Emit(ctx, p+".gz", buf.Bytes())
}
