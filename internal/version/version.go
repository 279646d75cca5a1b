// Package version carries build metadata stamped in at link time via
// -ldflags "-X ...".
package version

var (
	// Version is the release version of the landmark report tooling.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)
