// ABOUTME: Tests for the in-memory vector index
// ABOUTME: Covers similarity ordering, filters, and the score floor
package vector

import (
	"context"
	"math"
	"testing"

	"github.com/2389-research/atlas/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 0, 0}, []float64{1, 0, 0}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0.0},
		{"length mismatch", []float64{1}, []float64{1, 0}, 0.0},
		{"empty", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func place(id, name, category string, userRating float64) models.Place {
	return models.Place{
		PlaceID:    id,
		Name:       name,
		Category:   category,
		UserRating: userRating,
		Sentiment:  models.SentimentPositive,
	}
}

func TestMemoryIndexSearchOrdering(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	idx.Upsert(ctx, place("a", "Exact", "Cafe", 5), []float64{1, 0, 0})
	idx.Upsert(ctx, place("b", "Close", "Cafe", 4), []float64{0.9, 0.1, 0})
	idx.Upsert(ctx, place("c", "Far", "Cafe", 3), []float64{0, 0, 1})

	results, err := idx.Search(ctx, []float64{1, 0, 0}, Filters{}, 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results above the score floor, got %d", len(results))
	}
	if results[0].Place.PlaceID != "a" || results[1].Place.PlaceID != "b" {
		t.Errorf("wrong order: %q then %q", results[0].Place.PlaceID, results[1].Place.PlaceID)
	}
	if results[0].Score < results[1].Score {
		t.Error("scores not descending")
	}
}

func TestMemoryIndexFilters(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	cafe := place("a", "Quiet Cafe", "Cafe", 5)
	bar := place("b", "Loud Bar", "Bar", 3)
	bar.Sentiment = models.SentimentNegative
	idx.Upsert(ctx, cafe, []float64{1, 0})
	idx.Upsert(ctx, bar, []float64{1, 0})

	tests := []struct {
		name    string
		filters Filters
		wantIDs []string
	}{
		{"no filters", Filters{}, []string{"a", "b"}},
		{"category", Filters{Category: "Cafe"}, []string{"a"}},
		{"sentiment", Filters{Sentiment: models.SentimentNegative}, []string{"b"}},
		{"min rating", Filters{MinRating: 4}, []string{"a"}},
		{"no match", Filters{Category: "Museum"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := idx.Search(ctx, []float64{1, 0}, tt.filters, 10)
			if err != nil {
				t.Fatalf("Search() error: %v", err)
			}
			if len(results) != len(tt.wantIDs) {
				t.Fatalf("expected %d results, got %d", len(tt.wantIDs), len(results))
			}
			got := map[string]bool{}
			for _, r := range results {
				got[r.Place.PlaceID] = true
			}
			for _, id := range tt.wantIDs {
				if !got[id] {
					t.Errorf("missing place %q", id)
				}
			}
		})
	}
}

func TestMemoryIndexLimit(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	for _, id := range []string{"a", "b", "c"} {
		idx.Upsert(ctx, place(id, id, "Cafe", 4), []float64{1, 0})
	}

	results, err := idx.Search(ctx, []float64{1, 0}, Filters{}, 2)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected limit of 2, got %d", len(results))
	}
}

func TestMemoryIndexRetrieveVector(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	idx.Upsert(ctx, place("a", "Cafe", "Cafe", 4), []float64{0.1, 0.2, 0.3})

	vec, err := idx.RetrieveVector(ctx, "a")
	if err != nil {
		t.Fatalf("RetrieveVector() error: %v", err)
	}
	want := []float64{0.1, 0.2, 0.3}
	if len(vec) != len(want) {
		t.Fatalf("vector length = %d, want %d", len(vec), len(want))
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Fatalf("vector = %v, want %v", vec, want)
		}
	}

	// Mutating the returned slice must not touch the stored copy.
	vec[0] = 99
	again, _ := idx.RetrieveVector(ctx, "a")
	if again[0] != 0.1 {
		t.Error("returned vector should be a copy")
	}

	missing, err := idx.RetrieveVector(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("absent place should yield nil, nil; got %v, %v", missing, err)
	}
}

func TestMemoryIndexUpsertReplacesAndDelete(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()

	idx.Upsert(ctx, place("a", "Before", "Cafe", 3), []float64{1, 0})
	idx.Upsert(ctx, place("a", "After", "Cafe", 5), []float64{1, 0})
	if idx.Len() != 1 {
		t.Fatalf("expected 1 entry after re-upsert, got %d", idx.Len())
	}

	results, _ := idx.Search(ctx, []float64{1, 0}, Filters{}, 1)
	if results[0].Place.Name != "After" {
		t.Errorf("upsert did not replace: got %q", results[0].Place.Name)
	}

	if err := idx.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := idx.Delete(ctx, "a"); err != nil {
		t.Fatalf("deleting an absent place should not error, got %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("expected empty index, got %d entries", idx.Len())
	}
}
