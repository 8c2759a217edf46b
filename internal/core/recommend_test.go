// ABOUTME: Tests for recommendation scoring and ranking
// ABOUTME: Covers component ceilings, mood matching, and stable ordering
package core

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/2389-research/atlas/internal/models"
)

func daysAgo(n int) *time.Time {
	t := time.Now().AddDate(0, 0, -n)
	return &t
}

func TestScorePlaceConfidenceBounds(t *testing.T) {
	now := time.Now()

	maxed := models.Place{
		PlaceID:     "max",
		Name:        "Perfect Beach",
		Category:    "Beach",
		UserRating:  5,
		Tags:        []string{"beach", "relaxing", "spa"},
		Sentiment:   models.SentimentPositive,
		LastVisited: daysAgo(5),
		VisitCount:  10,
	}
	rec, total := scorePlace(maxed, models.RecommendParams{Mood: "relaxed"}, now)
	if rec.Confidence != 1.0 {
		t.Errorf("fully loaded place should cap at 1.0, got %v", rec.Confidence)
	}
	if total <= 100 {
		t.Errorf("fully loaded place should exceed 100 raw points, got %v", total)
	}

	bare := models.Place{PlaceID: "bare", Name: "Nothing"}
	rec, _ = scorePlace(bare, models.RecommendParams{}, now)
	if rec.Confidence != 0 {
		t.Errorf("bare place should score 0, got %v", rec.Confidence)
	}
}

func TestScorePlaceComponents(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		place models.Place
		want  float64
	}{
		{
			"rating only, capped at 30",
			models.Place{UserRating: 5},
			0.30,
		},
		{
			"single visit",
			models.Place{VisitCount: 1},
			0.05,
		},
		{
			"moderate visits",
			models.Place{VisitCount: 3},
			0.15,
		},
		{
			"frequent visits",
			models.Place{VisitCount: 4},
			0.25,
		},
		{
			"positive sentiment",
			models.Place{Sentiment: models.SentimentPositive},
			0.20,
		},
		{
			"neutral sentiment",
			models.Place{Sentiment: models.SentimentNeutral},
			0.10,
		},
		{
			"negative sentiment scores nothing",
			models.Place{Sentiment: models.SentimentNegative},
			0,
		},
		{
			"visited this month",
			models.Place{LastVisited: daysAgo(10)},
			0.25,
		},
		{
			"visited this quarter",
			models.Place{LastVisited: daysAgo(60)},
			0.15,
		},
		{
			"visited this half year",
			models.Place{LastVisited: daysAgo(150)},
			0.05,
		},
		{
			"visited long ago",
			models.Place{LastVisited: daysAgo(400)},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := scorePlace(tt.place, models.RecommendParams{}, now)
			if rec.Confidence != tt.want {
				t.Errorf("confidence = %v, want %v", rec.Confidence, tt.want)
			}
		})
	}
}

func TestMoodMatchScore(t *testing.T) {
	tests := []struct {
		name  string
		place models.Place
		mood  string
		want  float64
	}{
		{
			"category in mood set",
			models.Place{Category: "Beach"},
			"relaxed",
			35, // 30 category + 5 floor is not additive; 30 then >5 keeps 30
		},
		{
			"no match gets the floor",
			models.Place{Category: "Gym"},
			"relaxed",
			5,
		},
		{
			"tags add five each",
			models.Place{Category: "Beach", Tags: []string{"relaxing beach", "spa day"}},
			"relaxed",
			40,
		},
		{
			"capped at fifty",
			models.Place{Category: "Cafe", Tags: []string{"cafe", "park", "spa", "library", "beach"}},
			"relaxed",
			50,
		},
		{
			"unknown mood gets the floor",
			models.Place{Category: "Beach"},
			"melancholy",
			5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := moodMatchScore(tt.place, tt.mood)
			if tt.name == "category in mood set" {
				if got != 30 {
					t.Errorf("moodMatchScore() = %v, want 30", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("moodMatchScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecommendRelaxedMood(t *testing.T) {
	lib := newTestLibrary(t)

	third := models.Place{
		PlaceID:    "gym1",
		Name:       "Iron Temple",
		Category:   "Gym",
		UserRating: 4,
		Location:   models.Location{Lat: -33.87, Lng: 151.21},
		Sentiment:  models.SentimentNeutral,
		VisitCount: 2,
	}
	if err := lib.SavePlace(context.Background(), third); err != nil {
		t.Fatalf("SavePlace() error: %v", err)
	}

	recs, err := lib.Recommend(context.Background(), models.RecommendParams{
		Mood:  "relaxed",
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	for _, rec := range recs {
		if rec.Place.PlaceID == "gym1" {
			t.Error("the gym should not beat the beach for a relaxed mood")
		}
		if rec.Confidence < 0 || rec.Confidence > 1 {
			t.Errorf("confidence out of bounds: %v", rec.Confidence)
		}
	}
	if recs[0].Confidence < recs[1].Confidence {
		t.Error("recommendations not in descending confidence order")
	}
}

func TestRecommendCategoryFilter(t *testing.T) {
	lib := newTestLibrary(t)

	recs, err := lib.Recommend(context.Background(), models.RecommendParams{
		Category: "Beach",
	})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if len(recs) != 1 || recs[0].Place.Category != "Beach" {
		t.Errorf("expected only Beach places, got %v", recs)
	}
	if recs[0].CategoryMatch != "Beach" {
		t.Errorf("CategoryMatch = %q", recs[0].CategoryMatch)
	}
}

func TestRecommendLocationFilter(t *testing.T) {
	lib := newTestLibrary(t)

	recs, err := lib.Recommend(context.Background(), models.RecommendParams{
		Location: &models.LocationFilter{Lat: -33.8915, Lng: 151.2767, Radius: 1000},
	})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if len(recs) != 1 || recs[0].Place.Name != "Bondi Beach" {
		t.Fatalf("expected only Bondi within 1km, got %v", recs)
	}
	if !recs[0].LocationMatch {
		t.Error("LocationMatch should be set")
	}
}

func TestRecommendStableOrderForTies(t *testing.T) {
	lib := NewLibrary(Options{Logger: zap.NewNop()})

	for _, id := range []string{"a", "b", "c"} {
		p := models.Place{
			PlaceID:    id,
			Name:       "Twin " + id,
			Category:   "Cafe",
			UserRating: 4,
			Location:   models.Location{Lat: 0, Lng: 0},
		}
		if err := lib.SavePlace(context.Background(), p); err != nil {
			t.Fatalf("SavePlace() error: %v", err)
		}
	}

	recs, err := lib.Recommend(context.Background(), models.RecommendParams{Limit: 10})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	// Identical scores must come back in candidate order, untouched.
	for i, want := range []string{"a", "b", "c"} {
		if recs[i].Place.PlaceID != want {
			t.Errorf("recs[%d] = %q, want %q", i, recs[i].Place.PlaceID, want)
		}
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Confidence != recs[i].Confidence {
			t.Error("identical places should tie on confidence")
		}
	}
}

func TestRecommendRanksByRawScoreBeyondCap(t *testing.T) {
	lib := NewLibrary(Options{Logger: zap.NewNop()})

	// Both places clear 100 raw points, so both report a confidence of
	// 1.0. The stronger mood match must still win the top slot.
	strong := models.Place{
		PlaceID:     "strong",
		Name:        "Hidden Cove",
		Category:    "Beach",
		UserRating:  4.9,
		Tags:        []string{"quiet park walk", "spa nearby"},
		Sentiment:   models.SentimentPositive,
		LastVisited: daysAgo(5),
		VisitCount:  10,
	}
	runnerUp := models.Place{
		PlaceID:     "runner-up",
		Name:        "Main Beach",
		Category:    "Beach",
		UserRating:  5,
		Sentiment:   models.SentimentPositive,
		LastVisited: daysAgo(5),
		VisitCount:  10,
	}
	for _, p := range []models.Place{strong, runnerUp} {
		if err := lib.SavePlace(context.Background(), p); err != nil {
			t.Fatalf("SavePlace() error: %v", err)
		}
	}

	recs, err := lib.Recommend(context.Background(), models.RecommendParams{Mood: "relaxed"})
	if err != nil {
		t.Fatalf("Recommend() error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Place.PlaceID != "strong" {
		t.Errorf("top recommendation = %q, want %q", recs[0].Place.PlaceID, "strong")
	}
	if recs[0].Confidence != 1.0 || recs[1].Confidence != 1.0 {
		t.Errorf("both should cap confidence at 1.0, got %v and %v",
			recs[0].Confidence, recs[1].Confidence)
	}
}

func TestMoods(t *testing.T) {
	moods := Moods()
	if len(moods) != 8 {
		t.Fatalf("expected 8 moods, got %d", len(moods))
	}
	for i := 1; i < len(moods); i++ {
		if moods[i-1] >= moods[i] {
			t.Error("moods not sorted")
		}
	}
}
