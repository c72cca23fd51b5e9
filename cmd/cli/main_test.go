package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An options file with a syntax error is guaranteed to cause a panic
	// during the loading phase inside app.NewApp().
	invalidHCL := `
		loader {
			name = "[hash].[ext]"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	optionsPath := filepath.Join(tempDir, "options.hcl")
	require.NoError(t, os.WriteFile(optionsPath, []byte(invalidHCL), 0600), "failed to set up test file")

	args := []string{"-c", optionsPath, "-o", filepath.Join(tempDir, "dist"), tempDir}
	out := &bytes.Buffer{}

	// --- Act ---
	// Call the run function, which should recover the panic and return it as an error.
	runErr := run(context.Background(), out, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")

	errStr := runErr.Error()
	require.True(t, strings.Contains(errStr, "application startup panicked"), "The error message should indicate that a panic was recovered.")
	require.True(t, strings.Contains(errStr, "failed to parse"), "The error message should contain the underlying reason for the panic.")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_BuildsDocuments(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "src")
	outDir := filepath.Join(tempDir, "dist")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "box.gltf"), []byte(`{"buffers":[{"uri":"box.bin"}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "box.bin"), []byte{0, 1, 2}, 0o644))

	optionsPath := filepath.Join(tempDir, "options.yaml")
	require.NoError(t, os.WriteFile(optionsPath, []byte("name: \"[name].[ext]\"\nassets:\n  name: \"[name].[ext]\"\n"), 0o644))

	args := []string{"-c", optionsPath, "-o", outDir, "--context", src, "--log-format", "json", src}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.NoError(t, err)
	doc, err := os.ReadFile(filepath.Join(outDir, "box.gltf"))
	require.NoError(t, err)
	require.JSONEq(t, `{"buffers":[{"uri":"box.bin"}]}`, string(doc))
	module, err := os.ReadFile(filepath.Join(outDir, "box.gltf.js"))
	require.NoError(t, err)
	require.Equal(t, "module.exports = __webpack_public_path__ + \"box.gltf\";\n", string(module))
	require.Contains(t, out.String(), "Build finished.")
}
