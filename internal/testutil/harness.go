package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/gltfloader/internal/app"
	"github.com/specialistvlad/gltfloader/internal/transform"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteTree writes files, keyed by slash-separated paths relative to root,
// creating directories as needed.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// ReadFile reads a file beneath root, failing the test if it is missing.
func ReadFile(t *testing.T, root, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(b)
}

// HarnessResult holds the outcomes of an end-to-end build.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Results   []*transform.Result
	// Root is the temporary project directory. SrcDir and OutDir live
	// beneath it.
	Root   string
	SrcDir string
	OutDir string
}

// RunBuild writes files into a temporary project's "src" directory and
// builds it into "dist". An optional "options.hcl" or "options.yaml" in files
// is used as the options file. mutate may adjust the configuration before
// it is validated.
func RunBuild(t *testing.T, files map[string]string, mutate func(*app.Config)) *HarnessResult {
	t.Helper()
	return RunBuildWithContext(context.Background(), t, files, mutate)
}

// RunBuildWithContext is RunBuild with a caller-provided context.
func RunBuildWithContext(ctx context.Context, t *testing.T, files map[string]string, mutate func(*app.Config)) *HarnessResult {
	t.Helper()

	root := t.TempDir()
	srcDir := filepath.Join(root, "src")
	outDir := filepath.Join(root, "dist")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))

	cfg := app.Config{
		Paths:       []string{srcDir},
		OutDir:      outDir,
		RootContext: srcDir,
		LogLevel:    "debug",
		LogFormat:   "text",
		WorkerCount: 4,
	}
	docs := make(map[string]string, len(files))
	for name, content := range files {
		switch name {
		case "options.hcl", "options.yaml":
			p := filepath.Join(root, name)
			require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
			cfg.ConfigPath = p
		default:
			docs[name] = content
		}
	}
	WriteTree(t, srcDir, docs)

	if mutate != nil {
		mutate(&cfg)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)
	loader, err := app.LoaderFor(appConfig.ConfigPath)
	require.NoError(t, err)

	result := &HarnessResult{Root: root, SrcDir: srcDir, OutDir: outDir}
	logBuffer := &SafeBuffer{}

	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		result.App = app.NewApp(logBuffer, appConfig, loader)
	}()

	if panicErr != nil {
		result.LogOutput = logBuffer.String()
		result.Err = fmt.Errorf("application startup panicked | %v", panicErr)
		result.App = nil
		return result
	}

	result.Results, result.Err = result.App.Build(ctx)

	if os.Getenv("GLTFLOADER_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}
	result.LogOutput = logBuffer.String()
	return result
}
