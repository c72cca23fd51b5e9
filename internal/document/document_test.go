package document

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsNumbersVerbatim(t *testing.T) {
	doc, err := Parse([]byte(`{"scale":[1.0, 2.50, 3e2],"count":7}`))
	require.NoError(t, err)

	out, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"count":7,"scale":[1.0,2.50,3e2]}`, string(out))
}

func TestParse_ToleratesCommentsAndTrailingCommas(t *testing.T) {
	doc, err := Parse([]byte(`{
		// hand-edited scene
		"images": [{"uri": "a.png",},],
	}`))
	require.NoError(t, err)

	want := map[string]any{
		"images": []any{map[string]any{"uri": "a.png"}},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("parsed document mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "truncated", input: `{"images": [`},
		{name: "trailing data", input: `{"a":1} {"b":2}`},
		{name: "not json", input: `scene: yes`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			require.Error(t, err)
		})
	}
}

func TestWalk_VisitsLeavesInDeterministicOrder(t *testing.T) {
	doc, err := Parse([]byte(`{
		"z": "last",
		"a": [true, null, {"k/ey": 1, "m~n": "x"}],
		"m": {"inner": ["p", "q"]}
	}`))
	require.NoError(t, err)

	var pointers []string
	Walk(doc, func(l Leaf) { pointers = append(pointers, l.Pointer) })

	want := []string{
		"/a/0",
		"/a/1",
		"/a/2/k~1ey",
		"/a/2/m~0n",
		"/m/inner/0",
		"/m/inner/1",
		"/z",
	}
	assert.Equal(t, want, pointers)
}

func TestWalk_SetReplacesValueInParent(t *testing.T) {
	doc := map[string]any{
		"images":  []any{map[string]any{"uri": "a.png"}},
		"buffers": []any{"b.bin"},
	}

	Walk(doc, func(l Leaf) {
		if s, ok := l.Value.(string); ok {
			l.Set("out/" + s)
		}
	})

	want := map[string]any{
		"images":  []any{map[string]any{"uri": "out/a.png"}},
		"buffers": []any{"out/b.bin"},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch after Set (-want +got):\n%s", diff)
	}
}

func TestWalk_PrimitiveRootIsNotVisited(t *testing.T) {
	visited := 0
	Walk("lonely.png", func(Leaf) { visited++ })
	Walk(json.Number("3"), func(Leaf) { visited++ })
	assert.Zero(t, visited)
}

func TestMarshal_EscapesSeparatorsButNotHTML(t *testing.T) {
	doc := map[string]any{"name": "a\u2028b\u2029c<d>&"}

	out, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"a\u2028b\u2029c<d>&"}`, string(out))
}

func TestEscapeLineSeparators(t *testing.T) {
	in := []byte("\"x\u2028y\u2029\"")
	assert.Equal(t, `"x\u2028y\u2029"`, string(EscapeLineSeparators(in)))
}

func TestEscapeLineSeparators_IdempotentOnMarshalOutput(t *testing.T) {
	out, err := Marshal([]any{"p\u2028q"})
	require.NoError(t, err)

	assert.NotContains(t, string(out), "\u2028")
	assert.Equal(t, string(out), string(EscapeLineSeparators(out)))
}
