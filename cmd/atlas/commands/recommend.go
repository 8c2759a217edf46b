// ABOUTME: CLI command for mood-aware place recommendations
// ABOUTME: Scores saved places and prints them with confidence and reasons
package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/2389-research/atlas/internal/core"
	"github.com/2389-research/atlas/internal/models"
)

var (
	recommendMood     string
	recommendCategory string
	recommendLimit    int
)

// NewRecommendCmd creates the recommend command
func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend places from your collection",
		Long: fmt.Sprintf(`Recommend saved places scored by rating, visit history,
sentiment, recency, and mood fit.

Supported moods: %s

Examples:
  atlas recommend --mood relaxed
  atlas recommend --mood social --category Restaurant
  atlas recommend --format json`, strings.Join(core.Moods(), ", ")),
		RunE: runRecommend,
	}

	cmd.Flags().StringVar(&recommendMood, "mood", "", "Mood to match places against")
	cmd.Flags().StringVar(&recommendCategory, "category", "", "Restrict recommendations to this category")
	cmd.Flags().IntVar(&recommendLimit, "limit", 5, "Maximum recommendations")

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(recommendLimit, "limit"); err != nil {
		return err
	}

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

	recs, err := library.Recommend(ctx, models.RecommendParams{
		Mood:     recommendMood,
		Category: recommendCategory,
		Limit:    recommendLimit,
	})
	if err != nil {
		return fmt.Errorf("building recommendations: %w", err)
	}

	if len(recs) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing to recommend yet - save some places first\n")
		}
		return nil
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), recs)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CONFIDENCE\tNAME\tCATEGORY\tREASONS\n")
	fmt.Fprintf(w, "----------\t----\t--------\t-------\n")
	for _, rec := range recs {
		fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\n",
			rec.Confidence,
			truncate(rec.Place.Name, 30),
			truncate(rec.Place.Category, 15),
			truncate(strings.Join(rec.Reasons, "; "), 60))
	}
	w.Flush()
	return nil
}
