package version

import "fmt"

var (
	// Version is the semantic version, set at build time with -ldflags.
	Version = "0.1.0"

	// GitCommit is the commit the binary was built from.
	GitCommit = ""
)

// String returns the human-readable version.
func String() string {
	if GitCommit == "" {
		return fmt.Sprintf("sen v%s", Version)
	}
	return fmt.Sprintf("sen v%s (%s)", Version, GitCommit)
}
