package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the installer release, overridden with -ldflags at build time
	Version = "0.1.0-dev"

	// GitCommit is the git commit hash (set during build)
	GitCommit = "unknown"

	// BuildDate is the build date (set during build)
	BuildDate = "unknown"
)

// Info returns formatted version information
func Info() string {
	return fmt.Sprintf("nixopus-installer version %s (commit: %s, built: %s, %s/%s)",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number
func Short() string {
	return Version
}

// UserAgent is sent with every HTTP request the installer makes.
func UserAgent() string {
	return "nixopus-installer/" + Version
}
