package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/gltfloader/internal/app"
	"github.com/spf13/pflag"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("gltfloader", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
gltfloader - Builds glTF scene documents, emitting every referenced image
and buffer under a content-derived name and rewriting the references.

Usage:
  gltfloader [options] PATH...

Arguments:
  PATH
    A .gltf document, or a directory searched recursively for them.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.StringP("config", "c", "", "Options file (.hcl, .yaml or .yml).")
	outDirFlag := flagSet.StringP("out-dir", "o", "dist", "Directory artifacts are written to.")
	contextFlag := flagSet.String("context", "", "Base directory for name interpolation. Defaults to the working directory.")
	workersFlag := flagSet.IntP("workers", "w", 4, "Number of documents built in parallel.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Build in memory and list the artifacts without writing them.")
	precompressFlag := flagSet.Bool("precompress", false, "Also write gzip-compressed copies of larger artifacts.")
	watchFlag := flagSet.Bool("watch", false, "Rebuild whenever a document or asset changes.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server in watch mode. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := flagSet.Args()
	if len(paths) == 0 {
		slog.Debug("No document path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Paths:           paths,
		ConfigPath:      *configFlag,
		OutDir:          *outDirFlag,
		RootContext:     *contextFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		WorkerCount:     *workersFlag,
		HealthcheckPort: *healthPortFlag,
		DryRun:          *dryRunFlag,
		Precompress:     *precompressFlag,
		Watch:           *watchFlag,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
