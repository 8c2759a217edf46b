// ABOUTME: Request parameter types for listing, search, sentiment and recommendations
// ABOUTME: Validation mirrors the tool input schemas; geo radius defaults to 5000m
package models

// DefaultRadiusMeters is applied whenever a location filter omits a radius
const DefaultRadiusMeters = 5000

// LocationFilter narrows results to a radius (meters) around a coordinate
type LocationFilter struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Radius float64 `json:"radius,omitempty"`
}

// RadiusOrDefault returns the configured radius, or DefaultRadiusMeters
func (l *LocationFilter) RadiusOrDefault() float64 {
	if l.Radius > 0 {
		return l.Radius
	}
	return DefaultRadiusMeters
}

// Validate checks the filter as a standalone parameter
func (l *LocationFilter) Validate() error {
	return l.validate("location")
}

func (l *LocationFilter) validate(field string) error {
	loc := Location{Lat: l.Lat, Lng: l.Lng}
	if !loc.Valid() {
		return &ValidationError{Field: field, Message: "coordinate out of range"}
	}
	if l.Radius < 0 {
		return &ValidationError{Field: field + ".radius", Message: "must not be negative"}
	}
	return nil
}

// ListParams filters the "all my places" listing
type ListParams struct {
	Category string          `json:"category,omitempty"`
	Location *LocationFilter `json:"location,omitempty"`
	Limit    int             `json:"limit,omitempty"`
}

// Validate checks the listing parameters
func (p *ListParams) Validate() error {
	if p.Location != nil {
		if err := p.Location.validate("location"); err != nil {
			return err
		}
	}
	if p.Limit < 0 {
		return &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	return nil
}

// SearchParams drives the tiered semantic search
type SearchParams struct {
	Query     string          `json:"query,omitempty"`
	Category  string          `json:"category,omitempty"`
	Location  *LocationFilter `json:"location,omitempty"`
	Sentiment Sentiment       `json:"sentiment,omitempty"`
	MinRating float64         `json:"min_rating,omitempty"`
	Limit     int             `json:"limit,omitempty"`
}

// Validate checks the search parameters
func (p *SearchParams) Validate() error {
	if p.Location != nil {
		if err := p.Location.validate("location"); err != nil {
			return err
		}
	}
	if p.Sentiment != "" && !p.Sentiment.Valid() {
		return &ValidationError{Field: "sentiment", Message: "must be positive, negative or neutral"}
	}
	if p.MinRating < 0 || p.MinRating > 5 {
		return &ValidationError{Field: "min_rating", Message: "must be between 0 and 5"}
	}
	if p.Limit < 0 {
		return &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	return nil
}

// SentimentParams filters places by sentiment and minimum rating
type SentimentParams struct {
	Sentiment Sentiment `json:"sentiment"`
	MinRating float64   `json:"min_rating,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}

// Validate checks the sentiment filter parameters
func (p *SentimentParams) Validate() error {
	if !p.Sentiment.Valid() {
		return &ValidationError{Field: "sentiment", Message: "must be positive, negative or neutral"}
	}
	if p.MinRating < 0 || p.MinRating > 5 {
		return &ValidationError{Field: "min_rating", Message: "must be between 0 and 5"}
	}
	if p.Limit < 0 {
		return &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	return nil
}

// RecommendParams drives mood-based recommendation scoring
type RecommendParams struct {
	Mood     string          `json:"mood,omitempty"`
	Category string          `json:"category,omitempty"`
	Location *LocationFilter `json:"location,omitempty"`
	Limit    int             `json:"limit,omitempty"`
}

// Validate checks the recommendation parameters
func (p *RecommendParams) Validate() error {
	if p.Location != nil {
		if err := p.Location.validate("location"); err != nil {
			return err
		}
	}
	if p.Limit < 0 {
		return &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	return nil
}
