package rewriter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/gltfloader/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a ResolveFunc that records every request and answers from a
// fixed table. Requests missing from the table fail.
type recorder struct {
	mu       sync.Mutex
	requests []string
	answers  map[string]string
}

func (r *recorder) resolve(ctx context.Context, request string) (string, error) {
	r.mu.Lock()
	r.requests = append(r.requests, request)
	r.mu.Unlock()

	out, ok := r.answers[request]
	if !ok {
		return "", fmt.Errorf("module not found: %s", request)
	}
	return out, nil
}

func (r *recorder) sortedRequests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string(nil), r.requests...)
	sort.Strings(out)
	return out
}

func exportsPath(p string) string {
	return fmt.Sprintf("module.exports = __webpack_public_path__ + %q;", p)
}

func mustParse(t *testing.T, src string) any {
	t.Helper()
	doc, err := document.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestRewrite_OnlyLocalFileReferencesAreSubmitted(t *testing.T) {
	doc := mustParse(t, `{"images":[{"uri":"diffuse.png"},{"uri":"http://cdn/x.bin"}]}`)
	r := &recorder{answers: map[string]string{"./diffuse.png": exportsPath("a1b2.png")}}

	refs, err := Rewrite(context.Background(), doc, ".", r.resolve)
	require.NoError(t, err)

	assert.Equal(t, []string{"./diffuse.png"}, r.sortedRequests())
	require.Len(t, refs, 1)
	assert.Equal(t, "/images/0/uri", refs[0].Pointer)
	assert.Equal(t, Resolved, refs[0].Outcome)

	want := mustParse(t, `{"images":[{"uri":"a1b2.png"},{"uri":"http://cdn/x.bin"}]}`)
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
}

func TestRewrite_DocumentWithoutReferencesIsUnchanged(t *testing.T) {
	src := `{"asset":{"version":"2.0"},"nodes":[{"name":"duck.gltf","scale":[1,2.5,3]},null,true],"extras":{"thumb":"https://cdn/t.png","notes":"see diffuse.PNG"}}`
	doc := mustParse(t, src)
	r := &recorder{}

	refs, err := Rewrite(context.Background(), doc, ".", r.resolve)
	require.NoError(t, err)
	assert.Empty(t, refs)
	assert.Empty(t, r.sortedRequests())

	if diff := cmp.Diff(mustParse(t, src), doc); diff != "" {
		t.Errorf("document changed (-want +got):\n%s", diff)
	}
}

func TestRewrite_PathsAreRelativeToAnchor(t *testing.T) {
	doc := mustParse(t, `{"buffers":[{"uri":"../shared/mesh.bin"}],"images":[{"uri":"./tex/wood.jpeg"}]}`)
	r := &recorder{answers: map[string]string{
		"../shared/mesh.bin": exportsPath("assets/9f.bin"),
		"./tex/wood.jpeg":    exportsPath("assets/c4.jpeg"),
	}}

	_, err := Rewrite(context.Background(), doc, "models/boats", r.resolve)
	require.NoError(t, err)

	want := mustParse(t, `{"buffers":[{"uri":"../../assets/9f.bin"}],"images":[{"uri":"../../assets/c4.jpeg"}]}`)
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
}

func TestRewrite_FailedReferenceDoesNotStopOthers(t *testing.T) {
	doc := mustParse(t, `{"images":[{"uri":"missing.png"},{"uri":"found.gif"}]}`)
	r := &recorder{answers: map[string]string{"./found.gif": exportsPath("f00.gif")}}

	refs, err := Rewrite(context.Background(), doc, ".", r.resolve)
	require.NoError(t, err)
	require.Len(t, refs, 2)

	assert.Equal(t, Failed, refs[0].Outcome)
	assert.ErrorContains(t, refs[0].Err, "module not found")
	assert.Equal(t, Resolved, refs[1].Outcome)

	want := mustParse(t, `{"images":[{"uri":"missing.png"},{"uri":"f00.gif"}]}`)
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("rewritten document mismatch (-want +got):\n%s", diff)
	}
}

func TestRewrite_SourceWithoutQuotedPathIsNoop(t *testing.T) {
	doc := mustParse(t, `{"uri":"a.jpg"}`)
	r := &recorder{answers: map[string]string{"./a.jpg": "module.exports = asset;"}}

	refs, err := Rewrite(context.Background(), doc, ".", r.resolve)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, Unmatched, refs[0].Outcome)
	assert.NoError(t, refs[0].Err)
	assert.Equal(t, map[string]any{"uri": "a.jpg"}, doc)
}

func TestRewrite_RootedPathWithRelativeAnchorIsNoop(t *testing.T) {
	doc := mustParse(t, `{"uri":"a.png"}`)
	r := &recorder{answers: map[string]string{"./a.png": exportsPath("/abs/a.png")}}

	refs, err := Rewrite(context.Background(), doc, "models", r.resolve)
	require.NoError(t, err)
	assert.Equal(t, Unmatched, refs[0].Outcome)
	assert.Equal(t, map[string]any{"uri": "a.png"}, doc)
}

func TestRewrite_ExternalResolvedURLIsKeptVerbatim(t *testing.T) {
	doc := mustParse(t, `{"uri":"a.png"}`)
	r := &recorder{answers: map[string]string{"./a.png": exportsPath("https://cdn.example/a.png")}}

	_, err := Rewrite(context.Background(), doc, "models", r.resolve)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"uri": "https://cdn.example/a.png"}, doc)
}

func TestRewrite_EveryOccurrenceIsResolved(t *testing.T) {
	doc := mustParse(t, `{"a":"tex.png","b":["tex.png","tex.png"]}`)
	r := &recorder{answers: map[string]string{"./tex.png": exportsPath("t.png")}}

	refs, err := Rewrite(context.Background(), doc, ".", r.resolve)
	require.NoError(t, err)
	assert.Len(t, refs, 3)
	assert.Equal(t, []string{"./tex.png", "./tex.png", "./tex.png"}, r.sortedRequests())
	assert.Equal(t, map[Outcome]int{Resolved: 3}, Count(refs))
}

func TestRewrite_ResolutionsRunConcurrently(t *testing.T) {
	const n = 8
	var b strings.Builder
	b.WriteString(`{"images":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"uri":"img%d.png"}`, i)
	}
	b.WriteString(`]}`)
	doc := mustParse(t, b.String())

	var (
		mu      sync.Mutex
		arrived int
		release = make(chan struct{})
	)
	resolve := func(ctx context.Context, request string) (string, error) {
		mu.Lock()
		arrived++
		if arrived == n {
			close(release)
		}
		mu.Unlock()

		select {
		case <-release:
			return exportsPath("out/" + strings.TrimPrefix(request, "./")), nil
		case <-time.After(5 * time.Second):
			return "", errors.New("resolutions were serialized")
		}
	}

	refs, err := Rewrite(context.Background(), doc, "out", resolve)
	require.NoError(t, err)
	assert.Equal(t, map[Outcome]int{Resolved: n}, Count(refs))
	for i, ref := range refs {
		assert.Equal(t, fmt.Sprintf("img%d.png", i), ref.Resolved)
	}
}

func TestRewrite_CancelledContext(t *testing.T) {
	doc := mustParse(t, `{"uri":"a.png"}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolve := func(ctx context.Context, request string) (string, error) {
		return "", ctx.Err()
	}

	_, err := Rewrite(ctx, doc, ".", resolve)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, map[string]any{"uri": "a.png"}, doc)
}

func TestRewrite_IsDeterministic(t *testing.T) {
	src := `{"b":[{"uri":"x.png"},{"uri":"y.bin"}],"a":{"uri":"z.jpg"}}`
	answers := map[string]string{
		"./x.png": exportsPath("1.png"),
		"./y.bin": exportsPath("2.bin"),
		"./z.jpg": exportsPath("3.jpg"),
	}

	run := func() string {
		doc := mustParse(t, src)
		_, err := Rewrite(context.Background(), doc, ".", (&recorder{answers: answers}).resolve)
		require.NoError(t, err)
		out, err := document.Marshal(doc)
		require.NoError(t, err)
		return string(out)
	}

	first := run()
	assert.Equal(t, first, run())
	assert.Equal(t, `{"a":{"uri":"3.jpg"},"b":[{"uri":"1.png"},{"uri":"2.bin"}]}`, first)
}

func TestClassification(t *testing.T) {
	testCases := []struct {
		value    any
		eligible bool
	}{
		{"diffuse.png", true},
		{"./mesh.bin", true},
		{"../a/b.jpeg", true},
		{"photo.jpg", true},
		{"anim.gif", true},
		{"https://cdn/x.png", false},
		{"http://cdn/x.bin", false},
		{"ftp://cdn/x.png", true},
		{"upper.PNG", false},
		{"scene.gltf", false},
		{"png", false},
		{"x.png.txt", false},
		{42, false},
		{nil, false},
		{true, false},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprint(tc.value), func(t *testing.T) {
			assert.Equal(t, tc.eligible, IsEligible(tc.value))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "./a.png", Normalize("a.png"))
	assert.Equal(t, "./dir/a.png", Normalize("dir/a.png"))
	assert.Equal(t, "./a.png", Normalize("./a.png"))
	assert.Equal(t, "../a.png", Normalize("../a.png"))
	assert.Equal(t, "./.hidden/a.png", Normalize(".hidden/a.png"))
	assert.Equal(t, ".//abs/a.png", Normalize("/abs/a.png"))
}

func TestExtractPath(t *testing.T) {
	p, ok := ExtractPath(`module.exports = __webpack_public_path__ + "assets/ab.png";`)
	require.True(t, ok)
	assert.Equal(t, "assets/ab.png", p)

	p, ok = ExtractPath(`export default "a" + "b";`)
	require.True(t, ok)
	assert.Equal(t, `a" + "b`, p)

	_, ok = ExtractPath(`module.exports = x;`)
	assert.False(t, ok)

	_, ok = ExtractPath(`""`)
	assert.False(t, ok)
}
