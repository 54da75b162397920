// Package version provides build information for the govtx CLI.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags:
//
//	-X github.com/agoric-labs/govtx/internal/version.Version={{.Version}}
//	-X github.com/agoric-labs/govtx/internal/version.GitCommit={{.FullCommit}}
//	-X github.com/agoric-labs/govtx/internal/version.BuildDate={{.Date}}
var (
	// Version is the semantic version, "0.1.0-dev" for local builds.
	Version = "0.1.0-dev"

	// GitCommit is the git commit hash of the build.
	GitCommit = "unknown"

	// BuildDate is the date the binary was built.
	BuildDate = "unknown"
)

// Info carries the resolved build information.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
}

// New resolves the build information for this binary.
func New() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("govtx %s (commit %s, built %s, %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion)
}

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), New())
		},
	}
}
