// ABOUTME: CLI command to search saved places
// ABOUTME: Tiered semantic search with optional category and rating filters
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/atlas/internal/models"
)

var (
	searchLimit     int
	searchCategory  string
	searchMinRating float64
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search saved places",
		Long: `Search saved places by meaning.

Uses vector similarity when Qdrant is configured, graph text matching
when Neo4j is configured, and in-memory matching otherwise.

Examples:
  atlas search "quiet coffee spot"
  atlas search --category Restaurant "good for groups"
  atlas search --format json "beach"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results to return")
	cmd.Flags().StringVar(&searchCategory, "category", "", "Restrict results to this category")
	cmd.Flags().Float64Var(&searchMinRating, "min-rating", 0, "Minimum effective rating (0-5)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
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

	query := args[0]
	places, err := library.Search(ctx, models.SearchParams{
		Query:     query,
		Category:  searchCategory,
		MinRating: searchMinRating,
		Limit:     searchLimit,
	})
	if err != nil {
		return fmt.Errorf("searching places: %w", err)
	}

	if len(places) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No places found for query: %s\n", query)
		}
		return nil
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), places)
	}

	printPlaceTable(cmd.OutOrStdout(), places)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(places))
	}
	return nil
}
