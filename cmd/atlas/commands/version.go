// ABOUTME: Version command reporting build metadata and platform
// ABOUTME: Values are injected at link time via SetVersion
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersion records the build metadata stamped in by the linker
func SetVersion(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the Atlas version, commit hash, build date, and platform.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Atlas %s\n", buildVersion)
			fmt.Fprintf(out, "Commit: %s\n", buildCommit)
			fmt.Fprintf(out, "Built:  %s\n", buildDate)
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
