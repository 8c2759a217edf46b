// ABOUTME: Built-in sample places for first-run and demo setups
// ABOUTME: Loaded into the in-memory tier when no stored data exists
package core

import (
	"time"

	"github.com/2389-research/atlas/internal/models"
)

// SamplePlaces returns the starter dataset used when sample data is enabled
// and no persisted places are found
func SamplePlaces() []models.Place {
	operaVisit := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	bondiVisit := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	return []models.Place{
		{
			PlaceID:    "ChIJN1t_tDeuEmsRUsoyG83frY4",
			Name:       "Sydney Opera House",
			Address:    "Bennelong Point, Sydney NSW 2000, Australia",
			Category:   "Landmark",
			Rating:     4.7,
			UserRating: 5,
			Location:   models.Location{Lat: -33.8568, Lng: 151.2153},
			Tags:       []string{"iconic", "architecture", "must-visit"},
			Notes:      "Amazing architecture and great views",
			Sentiment:  models.SentimentPositive,
			LastVisited: &operaVisit,
			VisitCount: 3,
		},
		{
			PlaceID:    "ChIJ3S-JXmauEmsRUcIaWtf4MzE",
			Name:       "Bondi Beach",
			Address:    "Bondi Beach NSW 2026, Australia",
			Category:   "Beach",
			Rating:     4.5,
			UserRating: 4,
			Location:   models.Location{Lat: -33.8915, Lng: 151.2767},
			Tags:       []string{"beach", "surfing", "relaxing"},
			Notes:      "Great for surfing and sunbathing",
			Sentiment:  models.SentimentPositive,
			LastVisited: &bondiVisit,
			VisitCount: 5,
		},
	}
}
