// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the build lifecycle that turns scene
// documents on disk into emitted artifacts, decoupled from any specific
// entrypoint like a CLI.
package app
