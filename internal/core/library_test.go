// ABOUTME: Tests for the tiered place library
// ABOUTME: Uses failing backend fakes to exercise tier fall-through
package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/2389-research/atlas/internal/graph"
	"github.com/2389-research/atlas/internal/models"
	"github.com/2389-research/atlas/internal/vector"
)

type failingIndex struct{}

func (failingIndex) Upsert(context.Context, models.Place, []float64) error {
	return errors.New("qdrant down")
}

func (failingIndex) UpsertBatch(context.Context, []vector.Entry) error {
	return errors.New("qdrant down")
}

func (failingIndex) Search(context.Context, []float64, vector.Filters, int) ([]vector.ScoredPlace, error) {
	return nil, errors.New("qdrant down")
}

func (failingIndex) Delete(context.Context, string) error {
	return errors.New("qdrant down")
}

func (failingIndex) RetrieveVector(context.Context, string) ([]float64, error) {
	return nil, errors.New("qdrant down")
}

// queryRecorder wraps the in-memory index and remembers the last query
// vector it was searched with
type queryRecorder struct {
	*vector.MemoryIndex
	lastQuery []float64
}

func (q *queryRecorder) Search(ctx context.Context, vec []float64, f vector.Filters, limit int) ([]vector.ScoredPlace, error) {
	q.lastQuery = append([]float64(nil), vec...)
	return q.MemoryIndex.Search(ctx, vec, f, limit)
}

type failingGraph struct{}

func (failingGraph) UpsertPlace(context.Context, string, models.Place) error {
	return errors.New("neo4j down")
}

func (failingGraph) RecordVisit(context.Context, string, string, models.Visit) error {
	return errors.New("neo4j down")
}

func (failingGraph) ListPlaces(context.Context, string, graph.SearchFilters, int) ([]models.Place, error) {
	return nil, errors.New("neo4j down")
}

func (failingGraph) SearchPlaces(context.Context, string, string, graph.SearchFilters, int) ([]models.Place, error) {
	return nil, errors.New("neo4j down")
}

func (failingGraph) Nearby(context.Context, string, float64, float64, float64, int) ([]models.Place, error) {
	return nil, errors.New("neo4j down")
}

func (failingGraph) Related(context.Context, string, string, int) ([]models.Place, error) {
	return nil, errors.New("neo4j down")
}

func (failingGraph) DeletePlace(context.Context, string, string) error {
	return errors.New("neo4j down")
}

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	return NewLibrary(Options{
		Logger:     zap.NewNop(),
		SampleData: true,
	})
}

func TestNewLibrarySeedsSampleData(t *testing.T) {
	lib := newTestLibrary(t)
	if len(lib.All()) != 2 {
		t.Fatalf("expected 2 sample places, got %d", len(lib.All()))
	}
	if _, err := lib.Get("ChIJ3S-JXmauEmsRUcIaWtf4MzE"); err != nil {
		t.Errorf("Bondi Beach should be seeded: %v", err)
	}
}

func TestSearchFallsThroughToMemory(t *testing.T) {
	lib := NewLibrary(Options{
		Logger:     zap.NewNop(),
		SampleData: true,
		Vector:     failingIndex{},
		Graph:      failingGraph{},
	})

	places, err := lib.Search(context.Background(), models.SearchParams{Query: "beach"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(places) != 1 || places[0].Name != "Bondi Beach" {
		t.Fatalf("expected Bondi Beach from the in-memory tier, got %v", places)
	}
}

func TestSearchEmptyVectorResultDoesNotFallThrough(t *testing.T) {
	lib := NewLibrary(Options{
		Logger:     zap.NewNop(),
		SampleData: true,
		Vector:     vector.NewMemoryIndex(),
	})

	// The index is empty, so the vector tier legitimately finds nothing.
	// That answer stands; the in-memory tier only covers failures.
	places, err := lib.Search(context.Background(), models.SearchParams{Query: "beach"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("expected no results from the empty index, got %v", places)
	}
}

func TestSearchMatchesTagsAndNotes(t *testing.T) {
	lib := newTestLibrary(t)

	tests := []struct {
		query string
		want  string
	}{
		{"surfing", "Bondi Beach"},
		{"architecture", "Sydney Opera House"},
		{"great views", "Sydney Opera House"},
		{"BONDI", "Bondi Beach"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			places, err := lib.Search(context.Background(), models.SearchParams{Query: tt.query})
			if err != nil {
				t.Fatalf("Search() error: %v", err)
			}
			if len(places) != 1 || places[0].Name != tt.want {
				t.Errorf("Search(%q) = %v, want %s", tt.query, places, tt.want)
			}
		})
	}
}

func TestSearchFilters(t *testing.T) {
	lib := newTestLibrary(t)

	places, err := lib.Search(context.Background(), models.SearchParams{
		Query:     "sydney",
		Category:  "Landmark",
		MinRating: 4.5,
	})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(places) != 1 || places[0].Category != "Landmark" {
		t.Errorf("expected only the Landmark, got %v", places)
	}
}

func TestSearchRejectsInvalidParams(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.Search(context.Background(), models.SearchParams{
		Query:     "x",
		MinRating: 9,
	})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestListSortsByRating(t *testing.T) {
	lib := newTestLibrary(t)

	places, err := lib.List(context.Background(), models.ListParams{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(places))
	}
	if places[0].Name != "Sydney Opera House" {
		t.Errorf("expected highest user rating first, got %q", places[0].Name)
	}
}

func TestNearbyOrdersByDistance(t *testing.T) {
	lib := newTestLibrary(t)

	// Close to the Opera House, far from Bondi.
	places, err := lib.Nearby(context.Background(), models.LocationFilter{
		Lat:    -33.8568,
		Lng:    151.2153,
		Radius: 20000,
	}, 10)
	if err != nil {
		t.Fatalf("Nearby() error: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("expected both places within 20km, got %d", len(places))
	}
	if places[0].Name != "Sydney Opera House" {
		t.Errorf("expected the closest place first, got %q", places[0].Name)
	}
}

func TestNearbyDefaultRadiusExcludesFarPlaces(t *testing.T) {
	lib := newTestLibrary(t)

	places, err := lib.Nearby(context.Background(), models.LocationFilter{
		Lat: -33.8568,
		Lng: 151.2153,
	}, 10)
	if err != nil {
		t.Fatalf("Nearby() error: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("expected only the Opera House within 5km, got %d", len(places))
	}
}

func TestBySentiment(t *testing.T) {
	lib := newTestLibrary(t)

	neg := models.Place{
		PlaceID:   "neg",
		Name:      "Bad Diner",
		Location:  models.Location{Lat: -33.9, Lng: 151.2},
		Sentiment: models.SentimentNegative,
	}
	if err := lib.SavePlace(context.Background(), neg); err != nil {
		t.Fatalf("SavePlace() error: %v", err)
	}

	places, err := lib.BySentiment(context.Background(), models.SentimentParams{
		Sentiment: models.SentimentNegative,
	})
	if err != nil {
		t.Fatalf("BySentiment() error: %v", err)
	}
	if len(places) != 1 || places[0].PlaceID != "neg" {
		t.Errorf("expected only the negative place, got %v", places)
	}
}

func TestSimilarFallsBackToCategory(t *testing.T) {
	lib := newTestLibrary(t)

	second := models.Place{
		PlaceID:    "manly",
		Name:       "Manly Beach",
		Category:   "Beach",
		UserRating: 4,
		Location:   models.Location{Lat: -33.7971, Lng: 151.2878},
		Sentiment:  models.SentimentPositive,
	}
	if err := lib.SavePlace(context.Background(), second); err != nil {
		t.Fatalf("SavePlace() error: %v", err)
	}

	places, err := lib.Similar(context.Background(), "ChIJ3S-JXmauEmsRUcIaWtf4MzE", 5)
	if err != nil {
		t.Fatalf("Similar() error: %v", err)
	}
	if len(places) != 1 || places[0].PlaceID != "manly" {
		t.Errorf("expected the other beach, got %v", places)
	}
}

func TestSimilarQueriesWithStoredVector(t *testing.T) {
	idx := &queryRecorder{MemoryIndex: vector.NewMemoryIndex()}
	lib := NewLibrary(Options{
		Logger: zap.NewNop(),
		Vector: idx,
	})

	place := models.Place{
		PlaceID:  "p1",
		Name:     "Corner Cafe",
		Category: "Cafe",
		Location: models.Location{Lat: 0, Lng: 0},
	}
	if err := lib.SavePlace(context.Background(), place); err != nil {
		t.Fatalf("SavePlace() error: %v", err)
	}
	// Overwrite the indexed vector so it no longer matches what a fresh
	// embedding of the place would produce.
	stored := []float64{0.5, -0.25, 0.75, 0.1}
	if err := idx.Upsert(context.Background(), place, stored); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	if _, err := lib.Similar(context.Background(), "p1", 5); err != nil {
		t.Fatalf("Similar() error: %v", err)
	}
	if len(idx.lastQuery) != len(stored) {
		t.Fatalf("query vector length = %d, want %d", len(idx.lastQuery), len(stored))
	}
	for i := range stored {
		if idx.lastQuery[i] != stored[i] {
			t.Fatalf("query vector = %v, want the stored vector %v", idx.lastQuery, stored)
		}
	}
}

func TestSimilarUnknownPlace(t *testing.T) {
	lib := newTestLibrary(t)

	if _, err := lib.Similar(context.Background(), "nope", 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSavePlaceValidates(t *testing.T) {
	lib := newTestLibrary(t)

	err := lib.SavePlace(context.Background(), models.Place{Name: "No ID"})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestSavePlaceSurvivesBackendFailures(t *testing.T) {
	lib := NewLibrary(Options{
		Logger:     zap.NewNop(),
		SampleData: false,
		Vector:     failingIndex{},
		Graph:      failingGraph{},
	})

	place := models.Place{
		PlaceID:  "p1",
		Name:     "Test Cafe",
		Location: models.Location{Lat: 0, Lng: 0},
	}
	if err := lib.SavePlace(context.Background(), place); err != nil {
		t.Fatalf("SavePlace() should not fail on backend errors: %v", err)
	}
	if _, err := lib.Get("p1"); err != nil {
		t.Errorf("place should be in the in-memory tier: %v", err)
	}
}

func TestRecordVisitUpdatesPlace(t *testing.T) {
	lib := newTestLibrary(t)

	date := time.Date(2026, 8, 1, 18, 0, 0, 0, time.UTC)
	updated, err := lib.RecordVisit(context.Background(), "ChIJ3S-JXmauEmsRUcIaWtf4MzE", models.Visit{
		Date:      date,
		Rating:    5,
		Sentiment: models.SentimentPositive,
		Notes:     "Perfect waves",
	})
	if err != nil {
		t.Fatalf("RecordVisit() error: %v", err)
	}
	if updated.VisitCount != 6 {
		t.Errorf("VisitCount = %d, want 6", updated.VisitCount)
	}
	if updated.UserRating != 5 {
		t.Errorf("UserRating = %v, want 5", updated.UserRating)
	}
	if updated.LastVisited == nil || !updated.LastVisited.Equal(date) {
		t.Errorf("LastVisited = %v", updated.LastVisited)
	}
}

func TestRecordVisitUnknownPlace(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.RecordVisit(context.Background(), "nope", models.Visit{Date: time.Now()})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePlace(t *testing.T) {
	lib := newTestLibrary(t)

	if err := lib.DeletePlace(context.Background(), "ChIJ3S-JXmauEmsRUcIaWtf4MzE"); err != nil {
		t.Fatalf("DeletePlace() error: %v", err)
	}
	if _, err := lib.Get("ChIJ3S-JXmauEmsRUcIaWtf4MzE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("place should be gone, got %v", err)
	}
	if err := lib.DeletePlace(context.Background(), "ChIJ3S-JXmauEmsRUcIaWtf4MzE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete should return ErrNotFound, got %v", err)
	}
}

func TestReindexFillsVectorIndex(t *testing.T) {
	idx := vector.NewMemoryIndex()
	lib := NewLibrary(Options{
		Logger:     zap.NewNop(),
		SampleData: true,
		Vector:     idx,
	})

	if err := lib.Reindex(context.Background()); err != nil {
		t.Fatalf("Reindex() error: %v", err)
	}
	if idx.Len() != 2 {
		t.Errorf("indexed %d places, want 2", idx.Len())
	}
}

func TestReindexWithoutVectorBackend(t *testing.T) {
	lib := newTestLibrary(t)

	if err := lib.Reindex(context.Background()); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestBackendCallErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := callErr("qdrant", "search", inner)
	if !errors.Is(err, inner) {
		t.Error("BackendCallError should unwrap to the inner error")
	}
	var cerr *BackendCallError
	if !errors.As(err, &cerr) || cerr.Backend != "qdrant" {
		t.Errorf("unexpected error shape: %v", err)
	}
}
