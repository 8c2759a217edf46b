// ABOUTME: Visit model for append-only place visit history
// ABOUTME: A visit is owned by the (user, place) relationship and never mutated
package models

import "time"

// Visit is a single occurrence of the user visiting a place
type Visit struct {
	VisitID    string    `json:"visit_id"`
	Date       time.Time `json:"date"`
	Duration   int       `json:"duration,omitempty"` // minutes
	Companions []string  `json:"companions,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Rating     float64   `json:"rating,omitempty"`
	Sentiment  Sentiment `json:"sentiment,omitempty"`
}

// Validate checks the visit's fields before it is recorded
func (v *Visit) Validate() error {
	if v.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "must not be zero"}
	}
	if v.Rating < 0 || v.Rating > 5 {
		return &ValidationError{Field: "rating", Message: "must be between 0 and 5"}
	}
	if v.Sentiment != "" && !v.Sentiment.Valid() {
		return &ValidationError{Field: "sentiment", Message: "must be positive, negative or neutral"}
	}
	return nil
}
