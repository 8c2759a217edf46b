// ABOUTME: On-demand preference analysis and insight aggregation
// ABOUTME: Pure functions over the place collection, no stored state
package core

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/2389-research/atlas/internal/models"
)

const recentWindow = 30 * 24 * time.Hour

// AnalyzePreferences computes the full preference breakdown for a set of
// places as of the given time
func AnalyzePreferences(places []models.Place, now time.Time) models.PreferenceAnalysis {
	analysis := models.PreferenceAnalysis{
		TopCategories:         topCategories(places, 5),
		TopLocations:          topLocations(places, 5),
		RatingDistribution:    make(map[int]int),
		SentimentDistribution: make(map[models.Sentiment]int),
	}

	for _, p := range places {
		// Unrated places land in the 0 bucket so the histogram always
		// accounts for every place.
		analysis.RatingDistribution[int(math.Round(p.EffectiveRating()))]++
		if p.Sentiment != "" {
			analysis.SentimentDistribution[p.Sentiment]++
		}
	}

	analysis.Patterns = visitPatterns(places)
	analysis.Trends = visitTrends(places, now)
	return analysis
}

// BuildInsights produces the high-level summary for a set of places as of
// the given time. Recommendations are attached by the caller.
func BuildInsights(places []models.Place, now time.Time) models.Insights {
	insights := models.Insights{
		TotalPlaces: len(places),
	}

	// Unrated places count as 0 so the average reflects the whole
	// collection, not just the rated slice of it.
	var ratingSum float64
	for _, p := range places {
		insights.TotalVisits += p.VisitCount
		ratingSum += p.EffectiveRating()
	}
	if len(places) > 0 {
		insights.AverageRating = math.Round(ratingSum/float64(len(places))*10) / 10
	}

	insights.FavoritePlaces = favoritePlaces(places, 10)
	insights.RecentDiscoveries = recentDiscoveries(places, now, 5)
	insights.Trends = insightTrends(places, now)
	insights.Patterns = insightPatterns(places)
	return insights
}

func topCategories(places []models.Place, limit int) []models.CategoryStat {
	type bucket struct {
		count int
		sum   float64
	}
	buckets := make(map[string]*bucket)
	for _, p := range places {
		if p.Category == "" {
			continue
		}
		b := buckets[p.Category]
		if b == nil {
			b = &bucket{}
			buckets[p.Category] = b
		}
		b.count++
		b.sum += p.EffectiveRating()
	}

	stats := make([]models.CategoryStat, 0, len(buckets))
	for category, b := range buckets {
		stats = append(stats, models.CategoryStat{
			Category:  category,
			Count:     b.count,
			AvgRating: math.Round(b.sum/float64(b.count)*10) / 10,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Category < stats[j].Category
	})
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

func topLocations(places []models.Place, limit int) []models.LocationStat {
	type bucket struct {
		count int
		sum   float64
	}
	buckets := make(map[string]*bucket)
	for _, p := range places {
		loc := extractLocality(p.Address)
		if loc == "" {
			continue
		}
		b := buckets[loc]
		if b == nil {
			b = &bucket{}
			buckets[loc] = b
		}
		b.count++
		b.sum += p.EffectiveRating()
	}

	stats := make([]models.LocationStat, 0, len(buckets))
	for loc, b := range buckets {
		stats = append(stats, models.LocationStat{
			Location:  loc,
			Count:     b.count,
			AvgRating: math.Round(b.sum/float64(b.count)*10) / 10,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Location < stats[j].Location
	})
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// extractLocality pulls the city segment out of a formatted address, the
// second-to-last comma-separated part
func extractLocality(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-2])
}

func visitPatterns(places []models.Place) models.Patterns {
	timeOfDay := make(map[string]int)
	dayOfWeek := make(map[string]int)
	seasons := make(map[string]int)

	for _, p := range places {
		if p.LastVisited == nil {
			continue
		}
		t := *p.LastVisited
		timeOfDay[timeOfDayLabel(t.Hour())]++
		dayOfWeek[t.Weekday().String()]++
		seasons[seasonLabel(t.Month())]++
	}

	var patterns models.Patterns
	patterns.FavoriteTimeOfDay = maxKey(timeOfDay)
	patterns.FavoriteDayOfWeek = maxKey(dayOfWeek)
	for _, season := range []string{"winter", "spring", "summer", "fall"} {
		if n := seasons[season]; n > 0 {
			patterns.SeasonalPreferences = append(patterns.SeasonalPreferences, models.SeasonCount{
				Season: season,
				Count:  n,
			})
		}
	}
	return patterns
}

func timeOfDayLabel(hour int) string {
	switch {
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

func seasonLabel(month time.Month) string {
	switch {
	case month <= time.March:
		return "winter"
	case month <= time.June:
		return "spring"
	case month <= time.September:
		return "summer"
	default:
		return "fall"
	}
}

func maxKey(counts map[string]int) string {
	var best string
	var bestN int
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best
}

func visitTrends(places []models.Place, now time.Time) models.Trends {
	trends := models.Trends{
		RecentFavorites:   []models.Place{},
		DecliningInterest: []models.Place{},
	}

	for _, p := range places {
		if p.LastVisited == nil {
			continue
		}
		age := now.Sub(*p.LastVisited)
		if age <= recentWindow {
			if p.EffectiveRating() >= 4 {
				trends.RecentFavorites = append(trends.RecentFavorites, p)
			}
		} else if p.VisitCount > 1 {
			trends.DecliningInterest = append(trends.DecliningInterest, p)
		}
	}

	sort.SliceStable(trends.RecentFavorites, func(i, j int) bool {
		return trends.RecentFavorites[i].LastVisited.After(*trends.RecentFavorites[j].LastVisited)
	})
	sort.SliceStable(trends.DecliningInterest, func(i, j int) bool {
		return trends.DecliningInterest[i].LastVisited.Before(*trends.DecliningInterest[j].LastVisited)
	})

	if len(trends.RecentFavorites) > 5 {
		trends.RecentFavorites = trends.RecentFavorites[:5]
	}
	if len(trends.DecliningInterest) > 5 {
		trends.DecliningInterest = trends.DecliningInterest[:5]
	}

	// Emerging categories are whatever the recent favorites span, in
	// favorite order.
	trends.EmergingCategories = []string{}
	seen := make(map[string]bool)
	for _, p := range trends.RecentFavorites {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		trends.EmergingCategories = append(trends.EmergingCategories, p.Category)
	}
	return trends
}

func favoritePlaces(places []models.Place, limit int) []models.Place {
	var favorites []models.Place
	for _, p := range places {
		if p.EffectiveRating() >= 4 {
			favorites = append(favorites, p)
		}
	}
	// Weight by actual visit count, so a never-visited five-star place
	// ranks below a favorite that keeps drawing return trips.
	sort.SliceStable(favorites, func(i, j int) bool {
		si := favorites[i].EffectiveRating() * float64(favorites[i].VisitCount)
		sj := favorites[j].EffectiveRating() * float64(favorites[j].VisitCount)
		return si > sj
	})
	if len(favorites) > limit {
		favorites = favorites[:limit]
	}
	return favorites
}

func recentDiscoveries(places []models.Place, now time.Time, limit int) []models.Place {
	var discoveries []models.Place
	for _, p := range places {
		if p.LastVisited == nil || p.VisitCount != 1 {
			continue
		}
		if now.Sub(*p.LastVisited) <= recentWindow {
			discoveries = append(discoveries, p)
		}
	}
	sort.SliceStable(discoveries, func(i, j int) bool {
		return discoveries[i].LastVisited.After(*discoveries[j].LastVisited)
	})
	if len(discoveries) > limit {
		discoveries = discoveries[:limit]
	}
	return discoveries
}

func insightTrends(places []models.Place, now time.Time) models.InsightTrends {
	trends := models.InsightTrends{
		MostVisitedCategory: "Unknown",
		RatingTrend:         models.TrendStable,
	}

	if cats := topCategories(places, 5); len(cats) > 0 {
		trends.MostVisitedCategory = cats[0].Category
	}
	for _, stat := range topLocations(places, 5) {
		if len(trends.TrendingLocations) == 3 {
			break
		}
		trends.TrendingLocations = append(trends.TrendingLocations, stat.Location)
	}

	// Rating direction: recent visits vs. everything older, with unrated
	// places counting as 0. Either side empty means there is nothing to
	// compare, so the trend stays stable.
	var recentSum, olderSum float64
	var recentN, olderN int
	for _, p := range places {
		if p.LastVisited == nil {
			continue
		}
		r := p.EffectiveRating()
		if now.Sub(*p.LastVisited) <= recentWindow {
			recentSum += r
			recentN++
		} else {
			olderSum += r
			olderN++
		}
	}
	if recentN > 0 && olderN > 0 {
		diff := recentSum/float64(recentN) - olderSum/float64(olderN)
		switch {
		case diff > 0.2:
			trends.RatingTrend = models.TrendImproving
		case diff < -0.2:
			trends.RatingTrend = models.TrendDeclining
		}
	}
	return trends
}

func insightPatterns(places []models.Place) models.InsightPatterns {
	patterns := models.InsightPatterns{VisitFrequency: "low"}
	if len(places) == 0 {
		return patterns
	}

	var totalVisits int
	for _, p := range places {
		totalVisits += p.VisitCount
	}
	avg := float64(totalVisits) / float64(len(places))
	switch {
	case avg > 3:
		patterns.VisitFrequency = "high"
	case avg > 1.5:
		patterns.VisitFrequency = "medium"
	}

	if tod := visitPatterns(places).FavoriteTimeOfDay; tod != "" {
		patterns.TimePreferences = tod
	} else {
		patterns.TimePreferences = "varied"
	}
	return patterns
}
