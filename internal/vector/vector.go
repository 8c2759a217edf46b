// ABOUTME: Vector index interface for semantic place search
// ABOUTME: Implemented by the Qdrant adapter and an in-memory index
package vector

import (
	"context"

	"github.com/2389-research/atlas/internal/models"
)

// MinScore is the similarity floor below which matches are discarded
const MinScore = 0.3

// Filters narrow a similarity search to structurally matching places.
// Zero values mean no constraint.
type Filters struct {
	Category  string
	Sentiment models.Sentiment
	MinRating float64
}

// ScoredPlace pairs a place with its similarity to the query vector
type ScoredPlace struct {
	Place models.Place
	Score float64
}

// Entry is one place with its embedding, as consumed by UpsertBatch
type Entry struct {
	Place models.Place
	Vec   []float64
}

// Index stores place embeddings and answers similarity queries
type Index interface {
	// Upsert writes or replaces the vector and snapshot for a place
	Upsert(ctx context.Context, place models.Place, vec []float64) error

	// UpsertBatch writes many places in a single round trip
	UpsertBatch(ctx context.Context, entries []Entry) error

	// Search returns up to limit places ordered by descending similarity,
	// excluding anything below MinScore
	Search(ctx context.Context, vec []float64, f Filters, limit int) ([]ScoredPlace, error)

	// Delete removes a place from the index; deleting an absent place is
	// not an error
	Delete(ctx context.Context, placeID string) error

	// RetrieveVector returns the stored embedding for a place, or nil
	// when the place is not indexed
	RetrieveVector(ctx context.Context, placeID string) ([]float64, error)
}

func matchesFilters(p models.Place, f Filters) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Sentiment != "" && p.Sentiment != f.Sentiment {
		return false
	}
	if f.MinRating > 0 && p.EffectiveRating() < f.MinRating {
		return false
	}
	return true
}
