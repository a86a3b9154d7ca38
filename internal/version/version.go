// Package version carries build metadata set through ldflags:
// go build -ldflags "-X git.home.luguber.info/inful/docmark/internal/version.Version=v0.3.0".
package version

import "fmt"

var Version = "dev"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	if GitCommit == "unknown" {
		return "docmark " + Version
	}
	return fmt.Sprintf("docmark %s (%s, built %s)", Version, GitCommit, BuildTime)
}
