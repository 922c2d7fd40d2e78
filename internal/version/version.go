// Package version exposes the build version injected at link time.
package version

// Version is set via -ldflags "-X github.com/namegate/namegate/internal/version.Version=v1.2.3".
// Defaults to "dev" for local builds.
var Version = "dev"
