// ABOUTME: CLI command for the full preference breakdown
// ABOUTME: Categories, locations, distributions, patterns, and trends
package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/2389-research/atlas/internal/models"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze your place preferences",
		Long: `Analyze your saved places: top categories and locations, rating and
sentiment distributions, visit patterns, and trends.

Examples:
  atlas analyze
  atlas analyze --format json`,
		RunE: runAnalyze,
	}

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	library, cleanup, err := buildLibrary(ctx, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	analysis, err := library.Preferences(ctx)
	if err != nil {
		return fmt.Errorf("analyzing preferences: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), analysis)
	}

	out := cmd.OutOrStdout()

	if len(analysis.TopCategories) > 0 {
		fmt.Fprintf(out, "Top categories:\n")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, c := range analysis.TopCategories {
			fmt.Fprintf(w, "  %s\t%d place(s)\tavg %.1f\n", c.Category, c.Count, c.AvgRating)
		}
		w.Flush()
	}
	if len(analysis.TopLocations) > 0 {
		fmt.Fprintf(out, "\nTop locations:\n")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, l := range analysis.TopLocations {
			fmt.Fprintf(w, "  %s\t%d place(s)\tavg %.1f\n", l.Location, l.Count, l.AvgRating)
		}
		w.Flush()
	}

	if len(analysis.SentimentDistribution) > 0 {
		fmt.Fprintf(out, "\nSentiment:\n")
		for _, s := range []string{"positive", "neutral", "negative"} {
			if n := analysis.SentimentDistribution[models.Sentiment(s)]; n > 0 {
				fmt.Fprintf(out, "  %s: %d\n", s, n)
			}
		}
	}

	if analysis.Patterns.FavoriteTimeOfDay != "" {
		fmt.Fprintf(out, "\nUsual visit time: %s\n", analysis.Patterns.FavoriteTimeOfDay)
	}
	if len(analysis.Trends.RecentFavorites) > 0 {
		fmt.Fprintf(out, "\nRecent favorites:\n")
		for _, p := range analysis.Trends.RecentFavorites {
			fmt.Fprintf(out, "  %s\n", p.Name)
		}
	}
	return nil
}
