package testutil

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/gltfloader/internal/transform"
)

// StubResolver answers every request with an asset module under Prefix
// (default "assets") and records what it was asked. Requests listed in
// Fail get that error instead. It is safe for concurrent use.
type StubResolver struct {
	Prefix string
	Fail   map[string]error

	mu       sync.Mutex
	requests []string
}

// Resolve implements transform.Resolver.
func (s *StubResolver) Resolve(_ context.Context, _, request string) (transform.Resolution, error) {
	s.mu.Lock()
	s.requests = append(s.requests, request)
	s.mu.Unlock()
	if err := s.Fail[request]; err != nil {
		return transform.Resolution{}, err
	}
	prefix := s.Prefix
	if prefix == "" {
		prefix = "assets"
	}
	out := path.Join(prefix, strings.TrimPrefix(request, "./"))
	return transform.Resolution{Source: transform.ExportModule(transform.RuntimeRelative(out))}, nil
}

// Requests returns the requests seen so far in sorted order.
func (s *StubResolver) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.requests...)
	sort.Strings(out)
	return out
}
