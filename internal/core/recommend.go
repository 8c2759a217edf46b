// ABOUTME: Mood and context aware recommendation scoring over saved places
// ABOUTME: Additive scoring capped into a 0-1 confidence, stable ordering
package core

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/2389-research/atlas/internal/geo"
	"github.com/2389-research/atlas/internal/models"
)

// moodKeywords maps each supported mood to the place categories and tag
// fragments that satisfy it
var moodKeywords = map[string][]string{
	"relaxed":     {"beach", "park", "spa", "cafe", "library"},
	"adventurous": {"hiking", "outdoor", "sports", "adventure"},
	"social":      {"restaurant", "bar", "cafe", "entertainment", "nightlife"},
	"cultural":    {"museum", "gallery", "theater", "landmark", "historic"},
	"romantic":    {"restaurant", "park", "beach", "viewpoint", "cafe"},
	"active":      {"gym", "sports", "hiking", "outdoor", "fitness"},
	"quiet":       {"library", "park", "cafe", "museum", "gallery"},
	"energetic":   {"nightlife", "sports", "entertainment", "festival"},
}

// Moods lists the supported mood names in a stable order
func Moods() []string {
	moods := make([]string, 0, len(moodKeywords))
	for m := range moodKeywords {
		moods = append(moods, m)
	}
	sort.Strings(moods)
	return moods
}

// Recommend scores the user's saved places against the requested mood,
// category, and location and returns them in descending confidence order.
// A stable sort keeps ties in their original relative order.
func (l *Library) Recommend(ctx context.Context, params models.RecommendParams) ([]models.Recommendation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 5
	}

	candidates, err := l.List(ctx, models.ListParams{Category: params.Category})
	if err != nil {
		return nil, err
	}
	if params.Location != nil {
		candidates = l.applyLocationFilter(candidates, params.Location)
	}

	// Rank on the raw total, not the capped confidence: two strong places
	// can share a confidence of 1.0 while their totals still differ.
	type scored struct {
		rec   models.Recommendation
		total float64
	}
	now := time.Now()
	candidatesScored := make([]scored, 0, len(candidates))
	for _, place := range candidates {
		rec, total := scorePlace(place, params, now)
		candidatesScored = append(candidatesScored, scored{rec: rec, total: total})
	}

	sort.SliceStable(candidatesScored, func(i, j int) bool {
		return candidatesScored[i].total > candidatesScored[j].total
	})
	if len(candidatesScored) > limit {
		candidatesScored = candidatesScored[:limit]
	}

	recs := make([]models.Recommendation, 0, len(candidatesScored))
	for _, s := range candidatesScored {
		recs = append(recs, s.rec)
	}
	return recs, nil
}

// scorePlace computes the additive score for one place and returns it
// alongside the result. Each component has a fixed ceiling: rating 30,
// visits 25, sentiment 20, recency 25, mood 50.
func scorePlace(place models.Place, params models.RecommendParams, now time.Time) (models.Recommendation, float64) {
	rec := models.Recommendation{Place: place}
	var score float64

	if r := place.EffectiveRating(); r > 0 {
		component := math.Min(r*6, 30)
		score += component
		if r >= 4 {
			rec.Reasons = append(rec.Reasons, fmt.Sprintf("Highly rated (%.1f)", r))
		}
	}

	switch {
	case place.VisitCount > 3:
		score += 25
		rec.Reasons = append(rec.Reasons, fmt.Sprintf("Visited %d times", place.VisitCount))
	case place.VisitCount > 1:
		score += 15
		rec.Reasons = append(rec.Reasons, fmt.Sprintf("Visited %d times", place.VisitCount))
	case place.VisitCount == 1:
		score += 5
	}

	switch place.Sentiment {
	case models.SentimentPositive:
		score += 20
		rec.Reasons = append(rec.Reasons, "Positive past experience")
	case models.SentimentNeutral:
		score += 10
	}

	if place.LastVisited != nil {
		days := now.Sub(*place.LastVisited).Hours() / 24
		switch {
		case days < 30:
			score += 25
			rec.Reasons = append(rec.Reasons, "Visited recently")
		case days < 90:
			score += 15
		case days < 180:
			score += 5
		}
	}

	if params.Mood != "" {
		moodScore := moodMatchScore(place, params.Mood)
		score += moodScore
		if moodScore > 5 {
			rec.MoodMatch = params.Mood
			rec.Reasons = append(rec.Reasons, fmt.Sprintf("Matches your %s mood", params.Mood))
		}
	}

	if params.Category != "" && place.Category == params.Category {
		rec.CategoryMatch = params.Category
	}
	if params.Location != nil {
		dist := geo.Distance(params.Location.Lat, params.Location.Lng, place.Location.Lat, place.Location.Lng)
		rec.LocationMatch = dist <= params.Location.RadiusOrDefault()
	}

	rec.Confidence = math.Round(math.Min(score/100, 1)*100) / 100
	return rec, score
}

// moodMatchScore rates how well a place fits a mood: 30 for a category in
// the mood's keyword set, 5 per tag touching a keyword, floor of 5 for any
// place when a mood was requested, capped at 50. Unknown moods only get
// the floor.
func moodMatchScore(place models.Place, mood string) float64 {
	keywords := moodKeywords[strings.ToLower(mood)]

	var score float64
	category := strings.ToLower(place.Category)
	for _, kw := range keywords {
		if category == kw {
			score += 30
			break
		}
	}
	for _, tag := range place.Tags {
		tag = strings.ToLower(tag)
		for _, kw := range keywords {
			if strings.Contains(tag, kw) {
				score += 5
				break
			}
		}
	}
	if score < 5 {
		score = 5
	}
	return math.Min(score, 50)
}
