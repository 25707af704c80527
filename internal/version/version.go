// Package version holds build metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/conzex/statuspulse/internal/version.Version=v1.2.3"
package version

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// GitCommit is the short hash of the commit the binary was built from.
	GitCommit = "unknown"
	// BuildDate is the UTC timestamp of the build.
	BuildDate = "unknown"
)
