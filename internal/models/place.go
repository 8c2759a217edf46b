// ABOUTME: Core place model for the Atlas places memory system
// ABOUTME: Defines Place, Location, Sentiment and place validation rules
package models

import (
	"fmt"
	"strings"
	"time"
)

// Sentiment is the user's overall feeling about a place
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the three known sentiment values
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Location is a geographic coordinate in degrees
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate is within latitude/longitude bounds
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

// Place is a saved place with the user's own ratings, tags and visit history summary.
// PlaceID is externally issued (e.g. by a places provider) and unique per user.
type Place struct {
	PlaceID     string     `json:"place_id"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	Category    string     `json:"category,omitempty"`
	Rating      float64    `json:"rating,omitempty"`      // provider-sourced
	UserRating  float64    `json:"user_rating,omitempty"` // self-reported, 0-5
	Location    Location   `json:"location"`
	Tags        []string   `json:"tags,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Sentiment   Sentiment  `json:"sentiment,omitempty"`
	LastVisited *time.Time `json:"last_visited,omitempty"`
	VisitCount  int        `json:"visit_count,omitempty"`
}

// EffectiveRating returns the self-reported rating when present, falling back
// to the provider rating, then zero. All scoring and aggregation uses this.
func (p *Place) EffectiveRating() float64 {
	if p.UserRating > 0 {
		return p.UserRating
	}
	return p.Rating
}

// EmbeddingText builds the text representation used to embed a place.
// The concatenation order is fixed: name, category, address, tags, notes.
func (p *Place) EmbeddingText() string {
	parts := []string{p.Name}
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	if p.Address != "" {
		parts = append(parts, p.Address)
	}
	parts = append(parts, p.Tags...)
	if p.Notes != "" {
		parts = append(parts, p.Notes)
	}
	return strings.Join(parts, " ")
}

// MatchesText reports whether the query appears (case-insensitive) in the
// place's name, address, tags or notes. Used by the in-memory search tier.
func (p *Place) MatchesText(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Address), q) ||
		strings.Contains(strings.ToLower(p.Notes), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Validate checks the invariants every stored place must hold
func (p *Place) Validate() error {
	if p.PlaceID == "" {
		return &ValidationError{Field: "place_id", Message: "must not be empty"}
	}
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if !p.Location.Valid() {
		return &ValidationError{
			Field:   "location",
			Message: fmt.Sprintf("coordinate out of range: lat=%v lng=%v", p.Location.Lat, p.Location.Lng),
		}
	}
	if p.UserRating < 0 || p.UserRating > 5 {
		return &ValidationError{Field: "user_rating", Message: "must be between 0 and 5"}
	}
	if p.Sentiment != "" && !p.Sentiment.Valid() {
		return &ValidationError{Field: "sentiment", Message: "must be positive, negative or neutral"}
	}
	if p.VisitCount < 0 {
		return &ValidationError{Field: "visit_count", Message: "must not be negative"}
	}
	return nil
}
