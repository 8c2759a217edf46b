// ABOUTME: CLI command to find saved places near a coordinate
// ABOUTME: Haversine ordering through the graph tier or in memory
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/atlas/internal/models"
)

var (
	nearbyLat    float64
	nearbyLng    float64
	nearbyRadius float64
	nearbyLimit  int
)

// NewNearbyCmd creates the nearby command
func NewNearbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Find saved places near a coordinate",
		Long: `Find saved places within a radius of a coordinate, closest first.

Examples:
  atlas nearby --lat -33.8568 --lng 151.2153
  atlas nearby --lat -33.8568 --lng 151.2153 --radius 10000`,
		RunE: runNearby,
	}

	cmd.Flags().Float64Var(&nearbyLat, "lat", 0, "Latitude in degrees")
	cmd.Flags().Float64Var(&nearbyLng, "lng", 0, "Longitude in degrees")
	cmd.Flags().Float64Var(&nearbyRadius, "radius", 0, "Radius in meters (default: 5000)")
	cmd.Flags().IntVar(&nearbyLimit, "limit", 10, "Maximum places to show")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")

	return cmd
}

func runNearby(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(nearbyLimit, "limit"); err != nil {
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

	places, err := library.Nearby(ctx, models.LocationFilter{
		Lat:    nearbyLat,
		Lng:    nearbyLng,
		Radius: nearbyRadius,
	}, nearbyLimit)
	if err != nil {
		return fmt.Errorf("finding nearby places: %w", err)
	}

	if len(places) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No saved places within range\n")
		}
		return nil
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), places)
	}

	printPlaceTable(cmd.OutOrStdout(), places)
	return nil
}
