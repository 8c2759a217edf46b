// ABOUTME: CLI command to print high-level place insights
// ABOUTME: Totals, favorites, trends, and general recommendations
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewInsightsCmd creates the insights command
func NewInsightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Summarize your place collection",
		Long: `Print a high-level summary of your places: totals, average rating,
favorites, recent discoveries, trends, and general recommendations.

Examples:
  atlas insights
  atlas insights --format json`,
		RunE: runInsights,
	}

	return cmd
}

func runInsights(cmd *cobra.Command, args []string) error {
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

	insights, err := library.Insights(ctx)
	if err != nil {
		return fmt.Errorf("building insights: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), insights)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Places:         %d\n", insights.TotalPlaces)
	fmt.Fprintf(out, "Visits:         %d\n", insights.TotalVisits)
	fmt.Fprintf(out, "Average rating: %.1f\n", insights.AverageRating)
	fmt.Fprintf(out, "Visit pace:     %s\n", insights.Patterns.VisitFrequency)
	if insights.Trends.MostVisitedCategory != "" {
		fmt.Fprintf(out, "Top category:   %s\n", insights.Trends.MostVisitedCategory)
	}
	fmt.Fprintf(out, "Rating trend:   %s\n", insights.Trends.RatingTrend)

	if len(insights.FavoritePlaces) > 0 {
		fmt.Fprintf(out, "\nFavorites:\n")
		for _, p := range insights.FavoritePlaces {
			fmt.Fprintf(out, "  %.1f  %s\n", p.EffectiveRating(), p.Name)
		}
	}
	if len(insights.RecentDiscoveries) > 0 {
		fmt.Fprintf(out, "\nRecent discoveries:\n")
		for _, p := range insights.RecentDiscoveries {
			fmt.Fprintf(out, "  %s\n", p.Name)
		}
	}
	if len(insights.Recommendations) > 0 {
		fmt.Fprintf(out, "\nWorth another look:\n")
		for _, rec := range insights.Recommendations {
			fmt.Fprintf(out, "  %.2f  %s\n", rec.Confidence, rec.Place.Name)
		}
	}
	return nil
}
