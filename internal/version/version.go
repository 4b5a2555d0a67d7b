// Package version exposes build version information.
package version

// Version is set at build time via -ldflags. Defaults to dev.
var Version = "dev"
