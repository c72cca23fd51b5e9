// Package cli parses the gltfloader command line into an app.Config. It
// owns usage text, flag validation and the ExitError type that carries a
// process exit code back to main.
package cli
