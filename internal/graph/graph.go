// ABOUTME: Graph store interface for relationship-aware place retrieval
// ABOUTME: Implemented by the Neo4j adapter
package graph

import (
	"context"

	"github.com/2389-research/atlas/internal/models"
)

// SearchFilters narrow a graph query. Zero values mean no constraint.
type SearchFilters struct {
	Category  string
	Sentiment models.Sentiment
	MinRating float64
}

// Store persists places and visits as a graph keyed by user
type Store interface {
	// UpsertPlace writes a place node and links it to the user
	UpsertPlace(ctx context.Context, userID string, place models.Place) error

	// RecordVisit adds a visit edge and refreshes the place's visit
	// counters
	RecordVisit(ctx context.Context, userID, placeID string, visit models.Visit) error

	// ListPlaces returns the user's saved places, optionally filtered
	ListPlaces(ctx context.Context, userID string, f SearchFilters, limit int) ([]models.Place, error)

	// SearchPlaces matches query text against name, address, notes, and
	// tags, case-insensitively
	SearchPlaces(ctx context.Context, userID, query string, f SearchFilters, limit int) ([]models.Place, error)

	// Nearby returns places within radiusMeters ordered nearest first,
	// ties broken by descending user rating
	Nearby(ctx context.Context, userID string, lat, lng, radiusMeters float64, limit int) ([]models.Place, error)

	// Related returns places sharing the given place's category, ordered
	// by descending user rating then descending public rating
	Related(ctx context.Context, userID, placeID string, limit int) ([]models.Place, error)

	// DeletePlace detaches and removes a place node
	DeletePlace(ctx context.Context, userID, placeID string) error
}
