// ABOUTME: Root CLI command with global flags and banner
// ABOUTME: Wires all subcommands and enforces flag exclusivity
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 █████╗ ████████╗██╗      █████╗ ███████╗
██╔══██╗╚══██╔══╝██║     ██╔══██╗██╔════╝
███████║   ██║   ██║     ███████║███████╗
██╔══██║   ██║   ██║     ██╔══██║╚════██║
██║  ██║   ██║   ███████╗██║  ██║███████║
╚═╝  ╚═╝   ╚═╝   ╚══════╝╚═╝  ╚═╝╚══════╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atlas",
		Short: "Personal places memory with semantic search and recommendations",
		Long: banner + `
Atlas remembers the places you save, how you felt about them, and when
you visited. It answers semantic searches, recommends places to match
your mood, and analyzes your preferences over time.

Retrieval is tiered: vector similarity (Qdrant) when available, graph
queries (Neo4j) next, and an always-on in-memory fallback.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewMCPCmd(),
		NewPlacesCmd(),
		NewSearchCmd(),
		NewRecommendCmd(),
		NewNearbyCmd(),
		NewInsightsCmd(),
		NewAnalyzeCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
