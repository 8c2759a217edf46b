// ABOUTME: Charm KV store for local place snapshots with cloud sync
// ABOUTME: Seeds the in-memory tier and survives backend outages
package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/kv"

	"github.com/2389-research/atlas/internal/models"
)

// Key prefixes for stored entity types
const (
	PlacePrefix = "place:"
	VisitPrefix = "visit:"
)

// Config holds charm KV configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns the default charm KV configuration
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "charm.2389.dev"
	}
	return &Config{
		Host:     host,
		DBName:   "atlas",
		AutoSync: true,
	}
}

// Store wraps charm KV for place and visit persistence
type Store struct {
	kv     *kv.KV
	config *Config
	mu     sync.Mutex
}

// NewStore opens the charm KV database and pulls remote data
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Set CHARM_HOST before opening KV
	os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	s := &Store{
		kv:     db,
		config: cfg,
	}

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}

	return s, nil
}

// Close closes the KV database
func (s *Store) Close() error {
	if s.kv != nil {
		err := s.kv.Close()
		s.kv = nil
		return err
	}
	return nil
}

// syncIfEnabled syncs to cloud after writes
func (s *Store) syncIfEnabled() {
	if s.config.AutoSync {
		_ = s.kv.Sync()
	}
}

// SavePlace stores a place snapshot for a user
func (s *Store) SavePlace(userID string, place models.Place) error {
	data, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("failed to marshal place %s: %w", place.PlaceID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set([]byte(PlaceKey(userID, place.PlaceID)), data); err != nil {
		return fmt.Errorf("failed to store place %s: %w", place.PlaceID, err)
	}
	s.syncIfEnabled()
	return nil
}

// LoadPlace retrieves a place snapshot by ID
func (s *Store) LoadPlace(userID, placeID string) (*models.Place, error) {
	s.mu.Lock()
	data, err := s.kv.Get([]byte(PlaceKey(userID, placeID)))
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("place not found: %s", placeID)
	}

	var place models.Place
	if err := json.Unmarshal(data, &place); err != nil {
		return nil, fmt.Errorf("failed to unmarshal place %s: %w", placeID, err)
	}
	return &place, nil
}

// ListPlaces returns all stored places for a user
func (s *Store) ListPlaces(userID string) ([]models.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	prefix := PlacePrefix + userID + ":"
	var places []models.Place
	for _, key := range keys {
		if !strings.HasPrefix(string(key), prefix) {
			continue
		}
		data, err := s.kv.Get(key)
		if err != nil || data == nil {
			continue
		}
		var place models.Place
		if err := json.Unmarshal(data, &place); err != nil {
			continue
		}
		places = append(places, place)
	}
	return places, nil
}

// DeletePlace removes a place snapshot
func (s *Store) DeletePlace(userID, placeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete([]byte(PlaceKey(userID, placeID))); err != nil {
		return fmt.Errorf("failed to delete place %s: %w", placeID, err)
	}
	s.syncIfEnabled()
	return nil
}

// SaveVisit stores a visit record under its place
func (s *Store) SaveVisit(userID, placeID string, visit models.Visit) error {
	data, err := json.Marshal(visit)
	if err != nil {
		return fmt.Errorf("failed to marshal visit %s: %w", visit.VisitID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set([]byte(VisitKey(userID, placeID, visit.VisitID)), data); err != nil {
		return fmt.Errorf("failed to store visit %s: %w", visit.VisitID, err)
	}
	s.syncIfEnabled()
	return nil
}

// ListVisits returns all stored visits for a place
func (s *Store) ListVisits(userID, placeID string) ([]models.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	prefix := VisitPrefix + userID + ":" + placeID + ":"
	var visits []models.Visit
	for _, key := range keys {
		if !strings.HasPrefix(string(key), prefix) {
			continue
		}
		data, err := s.kv.Get(key)
		if err != nil || data == nil {
			continue
		}
		var visit models.Visit
		if err := json.Unmarshal(data, &visit); err != nil {
			continue
		}
		visits = append(visits, visit)
	}
	return visits, nil
}

// Sync manually triggers a sync with the cloud
func (s *Store) Sync() error {
	return s.kv.Sync()
}

// Reset wipes all local data (nuclear option)
func (s *Store) Reset() error {
	return s.kv.Reset()
}

// PlaceKey generates the storage key for a place snapshot
func PlaceKey(userID, placeID string) string {
	return PlacePrefix + userID + ":" + placeID
}

// VisitKey generates the storage key for a visit record
func VisitKey(userID, placeID, visitID string) string {
	return VisitPrefix + userID + ":" + placeID + ":" + visitID
}
