// ABOUTME: Aggregate analysis and insight shapes computed on demand
// ABOUTME: Transient results; always a pure function of the place collection
package models

// CategoryStat is a per-category bucket with count and average rating
type CategoryStat struct {
	Category  string  `json:"category"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}

// LocationStat is a per-location bucket keyed by the address's city segment
type LocationStat struct {
	Location  string  `json:"location"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}

// SeasonCount is a seasonal visit bucket
type SeasonCount struct {
	Season string `json:"season"`
	Count  int    `json:"count"`
}

// Patterns captures time-of-day, weekday and seasonal visit habits
type Patterns struct {
	FavoriteTimeOfDay   string        `json:"favorite_time_of_day,omitempty"`
	FavoriteDayOfWeek   string        `json:"favorite_day_of_week,omitempty"`
	SeasonalPreferences []SeasonCount `json:"seasonal_preferences,omitempty"`
}

// Trends captures recent favorites, emerging categories and declining interest
type Trends struct {
	RecentFavorites    []Place  `json:"recent_favorites"`
	EmergingCategories []string `json:"emerging_categories"`
	DecliningInterest  []Place  `json:"declining_interest"`
}

// PreferenceAnalysis is the full on-demand preference breakdown
type PreferenceAnalysis struct {
	TopCategories         []CategoryStat    `json:"top_categories"`
	TopLocations          []LocationStat    `json:"top_locations"`
	RatingDistribution    map[int]int       `json:"rating_distribution"`
	SentimentDistribution map[Sentiment]int `json:"sentiment_distribution"`
	Patterns              Patterns          `json:"patterns"`
	Trends                Trends            `json:"trends"`
}

// RatingTrend describes the direction of recent vs. older ratings
type RatingTrend string

const (
	TrendImproving RatingTrend = "improving"
	TrendDeclining RatingTrend = "declining"
	TrendStable    RatingTrend = "stable"
)

// InsightTrends summarizes high-level direction across the collection
type InsightTrends struct {
	MostVisitedCategory string      `json:"most_visited_category"`
	TrendingLocations   []string    `json:"trending_locations"`
	RatingTrend         RatingTrend `json:"rating_trend"`
}

// InsightPatterns labels the user's habits
type InsightPatterns struct {
	VisitFrequency  string `json:"visit_frequency"`
	TimePreferences string `json:"time_preferences"`
}

// Insights is the comprehensive summary returned by get_insights.
// Recommendations are filled in by the caller, not by the analyzer.
type Insights struct {
	TotalPlaces       int              `json:"total_places"`
	TotalVisits       int              `json:"total_visits"`
	AverageRating     float64          `json:"average_rating"`
	FavoritePlaces    []Place          `json:"favorite_places"`
	RecentDiscoveries []Place          `json:"recent_discoveries"`
	Trends            InsightTrends    `json:"trends"`
	Patterns          InsightPatterns  `json:"patterns"`
	Recommendations   []Recommendation `json:"recommendations"`
}

// Recommendation is a scored place with human-readable reasons
type Recommendation struct {
	Place         Place    `json:"place"`
	Confidence    float64  `json:"confidence"`
	Reasons       []string `json:"reasons"`
	MoodMatch     string   `json:"mood_match,omitempty"`
	CategoryMatch string   `json:"category_match,omitempty"`
	LocationMatch bool     `json:"location_match,omitempty"`
}
