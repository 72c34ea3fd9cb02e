// Package version provides version information for the rollctx binary.
// These variables are set via ldflags during the build process.
package version

// Version is the current version of the binary.
// Set via -ldflags "-X github.com/rollctx/rollctx/version.Version=..."
var Version = "dev"

// GitCommit is the git commit hash used to build the binary.
// Set via -ldflags "-X github.com/rollctx/rollctx/version.GitCommit=..."
var GitCommit = "unknown"

// String returns a formatted version string.
func String() string {
	return Version
}

// FullString returns a detailed version string including build info.
func FullString() string {
	if Version == "dev" {
		return "rollctx development version"
	}
	return "rollctx " + Version
}
