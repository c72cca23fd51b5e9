package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubResolver(t *testing.T) {
	r := &StubResolver{Prefix: "static", Fail: map[string]error{"./bad.png": errors.New("nope")}}

	res, err := r.Resolve(context.Background(), "/doc.gltf", "./tex/a.png")
	require.NoError(t, err)
	assert.Equal(t, `module.exports = __webpack_public_path__ + "static/tex/a.png";`, res.Source)

	_, err = r.Resolve(context.Background(), "/doc.gltf", "./bad.png")
	assert.EqualError(t, err, "nope")

	assert.Equal(t, []string{"./bad.png", "./tex/a.png"}, r.Requests())
}
