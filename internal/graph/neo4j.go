// ABOUTME: Neo4j-backed graph store for places, users, and visits
// ABOUTME: One session per call, Cypher MERGE for idempotent writes
package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/2389-research/atlas/internal/geo"
	"github.com/2389-research/atlas/internal/models"
)

// Neo4jStore implements Store against a Neo4j instance. Places live as
// (:Place) nodes linked to (:User) by SAVED and VISITED relationships.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewNeo4jStore connects to Neo4j, verifies connectivity, and ensures the
// uniqueness constraints and indexes exist
func NewNeo4jStore(ctx context.Context, uri, username, password string, logger *zap.Logger) (*Neo4jStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	s := &Neo4jStore{driver: driver, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Neo4jStore) ensureSchema(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	statements := []string{
		"CREATE CONSTRAINT place_id IF NOT EXISTS FOR (p:Place) REQUIRE p.placeId IS UNIQUE",
		"CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.userId IS UNIQUE",
		"CREATE INDEX place_category IF NOT EXISTS FOR (p:Place) ON (p.category)",
	}
	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}

// Close shuts down the underlying driver
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// UpsertPlace merges the user and place nodes and the SAVED relationship
func (s *Neo4jStore) UpsertPlace(ctx context.Context, userID string, place models.Place) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (u:User {userId: $userId})
		MERGE (p:Place {placeId: $placeId})
		SET p.name = $name,
		    p.address = $address,
		    p.category = $category,
		    p.rating = $rating,
		    p.userRating = $userRating,
		    p.lat = $lat,
		    p.lng = $lng,
		    p.location = point({latitude: $lat, longitude: $lng}),
		    p.tags = $tags,
		    p.notes = $notes,
		    p.sentiment = $sentiment,
		    p.lastVisited = $lastVisited,
		    p.visitCount = $visitCount
		MERGE (u)-[:SAVED]->(p)`

	var lastVisited any
	if place.LastVisited != nil {
		lastVisited = place.LastVisited.UTC().Format(time.RFC3339)
	}
	tags := place.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err := session.Run(ctx, query, map[string]any{
		"userId":      userID,
		"placeId":     place.PlaceID,
		"name":        place.Name,
		"address":     place.Address,
		"category":    place.Category,
		"rating":      place.Rating,
		"userRating":  place.UserRating,
		"lat":         place.Location.Lat,
		"lng":         place.Location.Lng,
		"tags":        tags,
		"notes":       place.Notes,
		"sentiment":   string(place.Sentiment),
		"lastVisited": lastVisited,
		"visitCount":  place.VisitCount,
	})
	if err != nil {
		return fmt.Errorf("upserting place %q: %w", place.PlaceID, err)
	}
	return nil
}

// RecordVisit creates a VISITED relationship and bumps the place counters
func (s *Neo4jStore) RecordVisit(ctx context.Context, userID, placeID string, visit models.Visit) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	visitID := visit.VisitID
	if visitID == "" {
		visitID = uuid.New().String()
	}

	query := `
		MATCH (u:User {userId: $userId}), (p:Place {placeId: $placeId})
		CREATE (u)-[v:VISITED {
			visitId: $visitId,
			date: $date,
			duration: $duration,
			companions: $companions,
			notes: $notes,
			rating: $rating,
			sentiment: $sentiment
		}]->(p)
		SET p.visitCount = coalesce(p.visitCount, 0) + 1,
		    p.lastVisited = $date
		RETURN p.placeId AS placeId`

	companions := visit.Companions
	if companions == nil {
		companions = []string{}
	}

	result, err := session.Run(ctx, query, map[string]any{
		"userId":     userID,
		"placeId":    placeID,
		"visitId":    visitID,
		"date":       visit.Date.UTC().Format(time.RFC3339),
		"duration":   visit.Duration,
		"companions": companions,
		"notes":      visit.Notes,
		"rating":     visit.Rating,
		"sentiment":  string(visit.Sentiment),
	})
	if err != nil {
		return fmt.Errorf("recording visit to %q: %w", placeID, err)
	}
	if !result.Next(ctx) {
		return fmt.Errorf("place %q not found for visit", placeID)
	}
	return nil
}

// ListPlaces returns the user's saved places
func (s *Neo4jStore) ListPlaces(ctx context.Context, userID string, f SearchFilters, limit int) ([]models.Place, error) {
	query := `
		MATCH (u:User {userId: $userId})-[:SAVED]->(p:Place)
		WHERE ($category = '' OR p.category = $category)
		  AND ($sentiment = '' OR p.sentiment = $sentiment)
		  AND ($minRating = 0.0 OR coalesce(p.userRating, p.rating, 0.0) >= $minRating)
		RETURN p
		ORDER BY coalesce(p.userRating, 0.0) DESC, coalesce(p.rating, 0.0) DESC
		LIMIT $limit`

	return s.queryPlaces(ctx, query, map[string]any{
		"userId":    userID,
		"category":  f.Category,
		"sentiment": string(f.Sentiment),
		"minRating": f.MinRating,
		"limit":     clampLimit(limit),
	})
}

// SearchPlaces matches query text against the place's text fields
func (s *Neo4jStore) SearchPlaces(ctx context.Context, userID, query string, f SearchFilters, limit int) ([]models.Place, error) {
	cypher := `
		MATCH (u:User {userId: $userId})-[:SAVED]->(p:Place)
		WHERE ($category = '' OR p.category = $category)
		  AND ($sentiment = '' OR p.sentiment = $sentiment)
		  AND ($minRating = 0.0 OR coalesce(p.userRating, p.rating, 0.0) >= $minRating)
		  AND (toLower(p.name) CONTAINS $query
		       OR toLower(p.address) CONTAINS $query
		       OR toLower(p.notes) CONTAINS $query
		       OR any(tag IN p.tags WHERE toLower(tag) CONTAINS $query))
		RETURN p
		ORDER BY coalesce(p.userRating, 0.0) DESC, coalesce(p.rating, 0.0) DESC
		LIMIT $limit`

	return s.queryPlaces(ctx, cypher, map[string]any{
		"userId":    userID,
		"query":     strings.ToLower(query),
		"category":  f.Category,
		"sentiment": string(f.Sentiment),
		"minRating": f.MinRating,
		"limit":     clampLimit(limit),
	})
}

// Nearby returns places within radiusMeters of the given point, closest
// first. If the spatial query fails (point functions are unavailable on
// some deployments), it falls back to fetching the user's places and
// computing distances locally.
func (s *Neo4jStore) Nearby(ctx context.Context, userID string, lat, lng, radiusMeters float64, limit int) ([]models.Place, error) {
	query := `
		MATCH (u:User {userId: $userId})-[:SAVED]->(p:Place)
		WHERE p.location IS NOT NULL
		WITH p, point.distance(p.location, point({latitude: $lat, longitude: $lng})) AS dist
		WHERE dist <= $radius
		RETURN p
		ORDER BY dist ASC, coalesce(p.userRating, 0.0) DESC
		LIMIT $limit`

	places, err := s.queryPlaces(ctx, query, map[string]any{
		"userId": userID,
		"lat":    lat,
		"lng":    lng,
		"radius": radiusMeters,
		"limit":  clampLimit(limit),
	})
	if err == nil {
		return places, nil
	}
	s.logger.Warn("spatial query failed, computing distances locally", zap.Error(err))

	all, err := s.ListPlaces(ctx, userID, SearchFilters{}, 0)
	if err != nil {
		return nil, err
	}
	return filterByDistance(all, lat, lng, radiusMeters, clampLimit(limit)), nil
}

// filterByDistance keeps places within radiusMeters of the point, closest
// first, up to limit
func filterByDistance(places []models.Place, lat, lng, radiusMeters float64, limit int) []models.Place {
	type withDist struct {
		place models.Place
		dist  float64
	}
	var kept []withDist
	for _, p := range places {
		d := geo.Distance(lat, lng, p.Location.Lat, p.Location.Lng)
		if d <= radiusMeters {
			kept = append(kept, withDist{place: p, dist: d})
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].dist < kept[j].dist
	})
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	out := make([]models.Place, 0, len(kept))
	for _, k := range kept {
		out = append(out, k.place)
	}
	return out
}

// Related returns places connected to the given one: places visited by
// users who also visited it rank first, then same-category places
func (s *Neo4jStore) Related(ctx context.Context, userID, placeID string, limit int) ([]models.Place, error) {
	query := `
		MATCH (base:Place {placeId: $placeId})
		MATCH (u:User {userId: $userId})-[:SAVED]->(p:Place)
		WHERE p.placeId <> base.placeId
		WITH p, base,
		     EXISTS { MATCH (base)<-[:VISITED]-(:User)-[:VISITED]->(p) } AS coVisited
		WHERE coVisited OR p.category = base.category
		RETURN p
		ORDER BY coVisited DESC, coalesce(p.userRating, 0.0) DESC, coalesce(p.rating, 0.0) DESC
		LIMIT $limit`

	return s.queryPlaces(ctx, query, map[string]any{
		"userId":  userID,
		"placeId": placeID,
		"limit":   clampLimit(limit),
	})
}

// DeletePlace removes a place node and all of its relationships
func (s *Neo4jStore) DeletePlace(ctx context.Context, userID, placeID string) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {userId: $userId})-[:SAVED]->(p:Place {placeId: $placeId})
		DETACH DELETE p`
	_, err := session.Run(ctx, query, map[string]any{
		"userId":  userID,
		"placeId": placeID,
	})
	if err != nil {
		return fmt.Errorf("deleting place %q: %w", placeID, err)
	}
	return nil
}

func (s *Neo4jStore) queryPlaces(ctx context.Context, query string, params map[string]any) ([]models.Place, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("running place query: %w", err)
	}

	var places []models.Place
	for result.Next(ctx) {
		record := result.Record()
		raw, ok := record.Get("p")
		if !ok {
			continue
		}
		node, ok := raw.(neo4j.Node)
		if !ok {
			continue
		}
		place, err := placeFromProps(node.Props)
		if err != nil {
			s.logger.Warn("skipping malformed place node", zap.Error(err))
			continue
		}
		places = append(places, place)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("reading place records: %w", err)
	}
	return places, nil
}

// placeFromProps rebuilds a Place from flattened node properties
func placeFromProps(props map[string]any) (models.Place, error) {
	var p models.Place
	p.PlaceID, _ = props["placeId"].(string)
	if p.PlaceID == "" {
		return p, fmt.Errorf("place node missing placeId")
	}
	p.Name, _ = props["name"].(string)
	p.Address, _ = props["address"].(string)
	p.Category, _ = props["category"].(string)
	p.Rating = toFloat(props["rating"])
	p.UserRating = toFloat(props["userRating"])
	p.Location.Lat = toFloat(props["lat"])
	p.Location.Lng = toFloat(props["lng"])
	p.Notes, _ = props["notes"].(string)
	if s, ok := props["sentiment"].(string); ok {
		p.Sentiment = models.Sentiment(s)
	}
	if raw, ok := props["tags"].([]any); ok {
		for _, t := range raw {
			if tag, ok := t.(string); ok {
				p.Tags = append(p.Tags, tag)
			}
		}
	}
	if raw, ok := props["lastVisited"].(string); ok && raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			p.LastVisited = &ts
		}
	}
	if n, ok := props["visitCount"].(int64); ok {
		p.VisitCount = int(n)
	}
	return p, nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
