// ABOUTME: CLI command to list saved places
// ABOUTME: Shows the collection with ratings, visits, and sentiment
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/atlas/internal/models"
)

var (
	placesCategory string
	placesLimit    int
)

// NewPlacesCmd creates the places command
func NewPlacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "List saved places",
		Long: `List the user's saved places, highest rated first.

Examples:
  atlas places
  atlas places --category Restaurant
  atlas places --format json`,
		RunE: runPlaces,
	}

	cmd.Flags().StringVar(&placesCategory, "category", "", "Only show places in this category")
	cmd.Flags().IntVar(&placesLimit, "limit", 0, "Maximum places to show (0 for all)")

	return cmd
}

func runPlaces(cmd *cobra.Command, args []string) error {
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

	places, err := library.List(ctx, models.ListParams{
		Category: placesCategory,
		Limit:    placesLimit,
	})
	if err != nil {
		return fmt.Errorf("listing places: %w", err)
	}

	if len(places) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No places saved yet\n")
		}
		return nil
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), places)
	}

	printPlaceTable(cmd.OutOrStdout(), places)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d place(s)\n", len(places))
	}
	return nil
}
