// ABOUTME: Qdrant-backed vector index over gRPC
// ABOUTME: Point IDs are UUIDs derived deterministically from place IDs
package vector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/2389-research/atlas/internal/models"
)

// QdrantIndex stores place embeddings in a Qdrant collection using cosine
// distance. The full place snapshot rides along in the point payload so
// search results need no second lookup.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
	dimension  int
	logger     *zap.Logger
}

// NewQdrantIndex connects to Qdrant and ensures the collection exists
func NewQdrantIndex(ctx context.Context, host string, port int, apiKey, collection string, dimension int, logger *zap.Logger) (*QdrantIndex, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: apiKey != "",
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	idx := &QdrantIndex{
		client:     client,
		collection: collection,
		dimension:  dimension,
		logger:     logger,
	}
	if err := idx.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return idx, nil
}

func (q *QdrantIndex) ensureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("checking collection %q: %w", q.collection, err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(q.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", q.collection, err)
	}
	q.logger.Info("created qdrant collection",
		zap.String("collection", q.collection),
		zap.Int("dimension", q.dimension))
	return nil
}

// Close releases the gRPC connection
func (q *QdrantIndex) Close() error {
	return q.client.Close()
}

// Upsert writes or replaces the point for a place
func (q *QdrantIndex) Upsert(ctx context.Context, place models.Place, vec []float64) error {
	return q.UpsertBatch(ctx, []Entry{{Place: place, Vec: vec}})
}

// UpsertBatch writes all entries in one round trip
func (q *QdrantIndex) UpsertBatch(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(entries))
	for _, e := range entries {
		snapshot, err := json.Marshal(e.Place)
		if err != nil {
			return fmt.Errorf("encoding place %q: %w", e.Place.PlaceID, err)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      pointID(e.Place.PlaceID),
			Vectors: qdrant.NewVectors(toFloat32(e.Vec)...),
			Payload: qdrant.NewValueMap(map[string]any{
				"place_id":         e.Place.PlaceID,
				"category":         e.Place.Category,
				"sentiment":        string(e.Place.Sentiment),
				"effective_rating": e.Place.EffectiveRating(),
				"place":            string(snapshot),
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	return nil
}

// Search runs a cosine similarity query with optional payload filters
func (q *QdrantIndex) Search(ctx context.Context, vec []float64, f Filters, limit int) ([]ScoredPlace, error) {
	var conditions []*qdrant.Condition
	if f.Category != "" {
		conditions = append(conditions, qdrant.NewMatch("category", f.Category))
	}
	if f.Sentiment != "" {
		conditions = append(conditions, qdrant.NewMatch("sentiment", string(f.Sentiment)))
	}
	if f.MinRating > 0 {
		conditions = append(conditions, qdrant.NewRange("effective_rating", &qdrant.Range{
			Gte: qdrant.PtrOf(f.MinRating),
		}))
	}

	query := &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(toFloat32(vec)...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		ScoreThreshold: qdrant.PtrOf(float32(MinScore)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if len(conditions) > 0 {
		query.Filter = &qdrant.Filter{Must: conditions}
	}

	points, err := q.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying collection %q: %w", q.collection, err)
	}

	results := make([]ScoredPlace, 0, len(points))
	for _, point := range points {
		raw := point.Payload["place"].GetStringValue()
		var place models.Place
		if err := json.Unmarshal([]byte(raw), &place); err != nil {
			q.logger.Warn("skipping point with unreadable payload",
				zap.String("place_id", point.Payload["place_id"].GetStringValue()),
				zap.Error(err))
			continue
		}
		results = append(results, ScoredPlace{
			Place: place,
			Score: float64(point.Score),
		})
	}
	return results, nil
}

// RetrieveVector fetches the stored embedding for a place. A missing point
// yields nil rather than an error.
func (q *QdrantIndex) RetrieveVector(ctx context.Context, placeID string) ([]float64, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.collection,
		Ids:            []*qdrant.PointId{pointID(placeID)},
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("retrieving place %q: %w", placeID, err)
	}
	if len(points) == 0 {
		return nil, nil
	}

	data := points[0].GetVectors().GetVector().GetData()
	if len(data) == 0 {
		return nil, nil
	}
	vec := make([]float64, len(data))
	for i, v := range data {
		vec[i] = float64(v)
	}
	return vec, nil
}

// Delete removes the point for a place
func (q *QdrantIndex) Delete(ctx context.Context, placeID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collection,
		Points:         qdrant.NewPointsSelector(pointID(placeID)),
	})
	if err != nil {
		return fmt.Errorf("deleting place %q: %w", placeID, err)
	}
	return nil
}

// pointID maps an external place ID to a stable UUID point ID
func pointID(placeID string) *qdrant.PointId {
	return qdrant.NewIDUUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(placeID)).String())
}

func toFloat32(vec []float64) []float32 {
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
