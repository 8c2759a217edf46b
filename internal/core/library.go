// ABOUTME: Place library orchestrating vector, graph, and in-memory tiers
// ABOUTME: Retrieval falls through tiers; writes fan out to every backend
package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/2389-research/atlas/internal/embedding"
	"github.com/2389-research/atlas/internal/geo"
	"github.com/2389-research/atlas/internal/graph"
	"github.com/2389-research/atlas/internal/kv"
	"github.com/2389-research/atlas/internal/models"
	"github.com/2389-research/atlas/internal/vector"
)

const defaultTimeout = 10 * time.Second

// similarScoreFloor is stricter than the general search threshold; two
// places must actually resemble each other, not just both be places
const similarScoreFloor = 0.5

// Options wires the library's backends. Any backend may be nil, which
// disables its tier; the in-memory tier always works.
type Options struct {
	UserID    string
	Embedder  *embedding.Provider
	Vector    vector.Index
	Graph     graph.Store
	Snapshots *kv.Store
	Timeout   time.Duration
	Logger    *zap.Logger

	// SampleData seeds the starter places when nothing is persisted
	SampleData bool
}

// Library is the single entry point for place storage and retrieval. The
// in-memory map is the tier of last resort and is kept current on every
// write, so reads never fail outright.
type Library struct {
	mu     sync.RWMutex
	places map[string]models.Place

	userID    string
	embedder  *embedding.Provider
	vector    vector.Index
	graph     graph.Store
	snapshots *kv.Store
	timeout   time.Duration
	logger    *zap.Logger
}

// NewLibrary builds a library and warms the in-memory tier from the
// snapshot store, falling back to sample data when enabled
func NewLibrary(opts Options) *Library {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Embedder == nil {
		opts.Embedder = embedding.New(nil, embedding.DefaultDimension, opts.Logger)
	}
	if opts.UserID == "" {
		opts.UserID = "default"
	}

	lib := &Library{
		places:    make(map[string]models.Place),
		userID:    opts.UserID,
		embedder:  opts.Embedder,
		vector:    opts.Vector,
		graph:     opts.Graph,
		snapshots: opts.Snapshots,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
	}

	if lib.snapshots != nil {
		if stored, err := lib.snapshots.ListPlaces(lib.userID); err == nil {
			for _, p := range stored {
				lib.places[p.PlaceID] = p
			}
		} else {
			lib.logger.Warn("loading place snapshots failed", zap.Error(err))
		}
	}
	if len(lib.places) == 0 && opts.SampleData {
		for _, p := range SamplePlaces() {
			lib.places[p.PlaceID] = p
		}
		lib.logger.Info("seeded sample places", zap.Int("count", len(lib.places)))
	}

	return lib
}

// UserID returns the user the library is scoped to
func (l *Library) UserID() string {
	return l.userID
}

func (l *Library) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, l.timeout)
}

// Get returns a place by ID from the in-memory tier
func (l *Library) Get(placeID string) (models.Place, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.places[placeID]
	if !ok {
		return models.Place{}, ErrNotFound
	}
	return p, nil
}

// All returns every known place, unordered
func (l *Library) All() []models.Place {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Place, 0, len(l.places))
	for _, p := range l.places {
		out = append(out, p)
	}
	return out
}

// List returns the user's saved places. The graph tier answers when
// available; otherwise the in-memory tier does, sorted by effective rating.
func (l *Library) List(ctx context.Context, params models.ListParams) ([]models.Place, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if l.graph != nil {
		gctx, cancel := l.callCtx(ctx)
		places, err := l.graph.ListPlaces(gctx, l.userID, graph.SearchFilters{
			Category: params.Category,
		}, params.Limit)
		cancel()
		if err == nil {
			return l.applyLocationFilter(places, params.Location), nil
		}
		l.logger.Warn("graph list failed, using in-memory tier",
			zap.Error(callErr("neo4j", "list", err)))
	}

	places := l.filterMemory(func(p models.Place) bool {
		return params.Category == "" || p.Category == params.Category
	})
	places = l.applyLocationFilter(places, params.Location)
	sortByRating(places)
	return truncate(places, params.Limit), nil
}

// Search runs the tiered search: vector similarity first, graph text
// matching second, in-memory substring matching last
func (l *Library) Search(ctx context.Context, params models.SearchParams) ([]models.Place, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	// A successful vector query answers the call even when it matches
	// nothing; only a failing backend falls through.
	if l.vector != nil {
		places, err := l.vectorSearch(ctx, params, limit)
		if err == nil {
			return places, nil
		}
		l.logger.Warn("vector search failed, falling through",
			zap.Error(callErr("qdrant", "search", err)))
	}

	if l.graph != nil {
		gctx, cancel := l.callCtx(ctx)
		places, err := l.graph.SearchPlaces(gctx, l.userID, params.Query, graph.SearchFilters{
			Category:  params.Category,
			Sentiment: params.Sentiment,
			MinRating: params.MinRating,
		}, limit)
		cancel()
		if err == nil {
			return l.applyLocationFilter(places, params.Location), nil
		}
		l.logger.Warn("graph search failed, falling through",
			zap.Error(callErr("neo4j", "search", err)))
	}

	return l.memorySearch(params, limit), nil
}

func (l *Library) vectorSearch(ctx context.Context, params models.SearchParams, limit int) ([]models.Place, error) {
	vctx, cancel := l.callCtx(ctx)
	defer cancel()

	vec := l.embedder.Embed(vctx, params.Query)
	scored, err := l.vector.Search(vctx, vec, vector.Filters{
		Category:  params.Category,
		Sentiment: params.Sentiment,
		MinRating: params.MinRating,
	}, limit)
	if err != nil {
		return nil, err
	}

	places := make([]models.Place, 0, len(scored))
	for _, s := range scored {
		places = append(places, s.Place)
	}
	return l.applyLocationFilter(places, params.Location), nil
}

func (l *Library) memorySearch(params models.SearchParams, limit int) []models.Place {
	places := l.filterMemory(func(p models.Place) bool {
		if !p.MatchesText(params.Query) {
			return false
		}
		if params.Category != "" && p.Category != params.Category {
			return false
		}
		if params.Sentiment != "" && p.Sentiment != params.Sentiment {
			return false
		}
		if params.MinRating > 0 && p.EffectiveRating() < params.MinRating {
			return false
		}
		return true
	})
	places = l.applyLocationFilter(places, params.Location)
	sortByRating(places)
	return truncate(places, limit)
}

// Nearby returns places within the radius, closest first
func (l *Library) Nearby(ctx context.Context, loc models.LocationFilter, limit int) ([]models.Place, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	radius := loc.RadiusOrDefault()
	if limit <= 0 {
		limit = 10
	}

	if l.graph != nil {
		gctx, cancel := l.callCtx(ctx)
		places, err := l.graph.Nearby(gctx, l.userID, loc.Lat, loc.Lng, radius, limit)
		cancel()
		if err == nil {
			return places, nil
		}
		l.logger.Warn("graph nearby failed, using in-memory tier",
			zap.Error(callErr("neo4j", "nearby", err)))
	}

	type placeDist struct {
		place models.Place
		dist  float64
	}
	var within []placeDist
	for _, p := range l.All() {
		d := geo.Distance(loc.Lat, loc.Lng, p.Location.Lat, p.Location.Lng)
		if d <= radius {
			within = append(within, placeDist{p, d})
		}
	}
	sort.SliceStable(within, func(i, j int) bool {
		if within[i].dist != within[j].dist {
			return within[i].dist < within[j].dist
		}
		return within[i].place.UserRating > within[j].place.UserRating
	})

	places := make([]models.Place, 0, len(within))
	for _, pd := range within {
		places = append(places, pd.place)
	}
	return truncate(places, limit), nil
}

// BySentiment returns places matching the given sentiment
func (l *Library) BySentiment(ctx context.Context, params models.SentimentParams) ([]models.Place, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if l.graph != nil {
		gctx, cancel := l.callCtx(ctx)
		places, err := l.graph.ListPlaces(gctx, l.userID, graph.SearchFilters{
			Sentiment: params.Sentiment,
			MinRating: params.MinRating,
		}, params.Limit)
		cancel()
		if err == nil {
			return places, nil
		}
		l.logger.Warn("graph sentiment query failed, using in-memory tier",
			zap.Error(callErr("neo4j", "sentiment", err)))
	}

	places := l.filterMemory(func(p models.Place) bool {
		if p.Sentiment != params.Sentiment {
			return false
		}
		return params.MinRating <= 0 || p.EffectiveRating() >= params.MinRating
	})
	sortByRating(places)
	return truncate(places, params.Limit), nil
}

// Similar returns places resembling the given one: vector neighbors when
// the index is up, same-category places otherwise
func (l *Library) Similar(ctx context.Context, placeID string, limit int) ([]models.Place, error) {
	base, err := l.Get(placeID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	if l.vector != nil {
		vctx, cancel := l.callCtx(ctx)
		// Query with the stored vector so results stay consistent with
		// whatever embedded the place originally; re-embed only when the
		// index has no vector for it.
		vec, verr := l.vector.RetrieveVector(vctx, placeID)
		if verr != nil {
			l.logger.Warn("vector retrieve failed, re-embedding",
				zap.Error(callErr("qdrant", "retrieve", verr)))
		}
		if len(vec) == 0 {
			vec = l.embedder.Embed(vctx, base.EmbeddingText())
		}
		scored, verr := l.vector.Search(vctx, vec, vector.Filters{}, limit+1)
		cancel()
		if verr == nil {
			var places []models.Place
			for _, s := range scored {
				if s.Place.PlaceID == placeID || s.Score < similarScoreFloor {
					continue
				}
				places = append(places, s.Place)
			}
			return truncate(places, limit), nil
		}
		l.logger.Warn("vector similar failed, falling through",
			zap.Error(callErr("qdrant", "similar", verr)))
	}

	if l.graph != nil {
		gctx, cancel := l.callCtx(ctx)
		places, gerr := l.graph.Related(gctx, l.userID, placeID, limit)
		cancel()
		if gerr == nil {
			return places, nil
		}
		l.logger.Warn("graph related failed, using in-memory tier",
			zap.Error(callErr("neo4j", "related", gerr)))
	}

	places := l.filterMemory(func(p models.Place) bool {
		return p.PlaceID != placeID && p.Category == base.Category
	})
	sortByRating(places)
	return truncate(places, limit), nil
}

// SavePlace validates the place and writes it through every tier. Backend
// failures degrade to a warning; the in-memory tier always reflects the
// write.
func (l *Library) SavePlace(ctx context.Context, place models.Place) error {
	if err := place.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	l.places[place.PlaceID] = place
	l.mu.Unlock()

	if l.snapshots != nil {
		if err := l.snapshots.SavePlace(l.userID, place); err != nil {
			l.logger.Warn("snapshot write failed",
				zap.String("place_id", place.PlaceID), zap.Error(err))
		}
	}
	if l.graph != nil {
		gctx, cancel := l.callCtx(ctx)
		if err := l.graph.UpsertPlace(gctx, l.userID, place); err != nil {
			l.logger.Warn("graph write failed",
				zap.String("place_id", place.PlaceID),
				zap.Error(callErr("neo4j", "upsert", err)))
		}
		cancel()
	}
	if l.vector != nil {
		vctx, cancel := l.callCtx(ctx)
		vec := l.embedder.Embed(vctx, place.EmbeddingText())
		if err := l.vector.Upsert(vctx, place, vec); err != nil {
			l.logger.Warn("vector write failed",
				zap.String("place_id", place.PlaceID),
				zap.Error(callErr("qdrant", "upsert", err)))
		}
		cancel()
	}
	return nil
}

// RecordVisit appends a visit to a known place and refreshes the place's
// visit counters, rating, and sentiment from the visit
func (l *Library) RecordVisit(ctx context.Context, placeID string, visit models.Visit) (models.Place, error) {
	if err := visit.Validate(); err != nil {
		return models.Place{}, err
	}
	if visit.VisitID == "" {
		visit.VisitID = uuid.NewString()
	}

	l.mu.Lock()
	place, ok := l.places[placeID]
	if !ok {
		l.mu.Unlock()
		return models.Place{}, ErrNotFound
	}
	place.VisitCount++
	visitDate := visit.Date
	place.LastVisited = &visitDate
	if visit.Rating > 0 {
		place.UserRating = visit.Rating
	}
	if visit.Sentiment != "" {
		place.Sentiment = visit.Sentiment
	}
	l.places[placeID] = place
	l.mu.Unlock()

	if l.snapshots != nil {
		if err := l.snapshots.SavePlace(l.userID, place); err != nil {
			l.logger.Warn("snapshot write failed", zap.String("place_id", placeID), zap.Error(err))
		}
		if err := l.snapshots.SaveVisit(l.userID, placeID, visit); err != nil {
			l.logger.Warn("visit snapshot failed", zap.String("place_id", placeID), zap.Error(err))
		}
	}
	if l.graph != nil {
		gctx, cancel := l.callCtx(ctx)
		if err := l.graph.RecordVisit(gctx, l.userID, placeID, visit); err != nil {
			l.logger.Warn("graph visit write failed",
				zap.String("place_id", placeID),
				zap.Error(callErr("neo4j", "visit", err)))
		}
		cancel()
	}
	if l.vector != nil {
		vctx, cancel := l.callCtx(ctx)
		vec := l.embedder.Embed(vctx, place.EmbeddingText())
		if err := l.vector.Upsert(vctx, place, vec); err != nil {
			l.logger.Warn("vector write failed",
				zap.String("place_id", placeID),
				zap.Error(callErr("qdrant", "upsert", err)))
		}
		cancel()
	}
	return place, nil
}

// DeletePlace removes a place from every tier
func (l *Library) DeletePlace(ctx context.Context, placeID string) error {
	l.mu.Lock()
	if _, ok := l.places[placeID]; !ok {
		l.mu.Unlock()
		return ErrNotFound
	}
	delete(l.places, placeID)
	l.mu.Unlock()

	if l.snapshots != nil {
		if err := l.snapshots.DeletePlace(l.userID, placeID); err != nil {
			l.logger.Warn("snapshot delete failed", zap.String("place_id", placeID), zap.Error(err))
		}
	}
	if l.graph != nil {
		gctx, cancel := l.callCtx(ctx)
		if err := l.graph.DeletePlace(gctx, l.userID, placeID); err != nil {
			l.logger.Warn("graph delete failed",
				zap.String("place_id", placeID),
				zap.Error(callErr("neo4j", "delete", err)))
		}
		cancel()
	}
	if l.vector != nil {
		vctx, cancel := l.callCtx(ctx)
		if err := l.vector.Delete(vctx, placeID); err != nil {
			l.logger.Warn("vector delete failed",
				zap.String("place_id", placeID),
				zap.Error(callErr("qdrant", "delete", err)))
		}
		cancel()
	}
	return nil
}

// Reindex pushes every known place into the vector index in one batch.
// Called at startup so the index covers places saved before it came up.
func (l *Library) Reindex(ctx context.Context) error {
	if l.vector == nil {
		return ErrBackendUnavailable
	}

	places := l.All()
	entries := make([]vector.Entry, 0, len(places))
	vctx, cancel := l.callCtx(ctx)
	defer cancel()
	for _, p := range places {
		entries = append(entries, vector.Entry{
			Place: p,
			Vec:   l.embedder.Embed(vctx, p.EmbeddingText()),
		})
	}
	if err := l.vector.UpsertBatch(vctx, entries); err != nil {
		return callErr("qdrant", "reindex", err)
	}
	l.logger.Info("reindexed places", zap.Int("count", len(entries)))
	return nil
}

// Preferences analyzes the user's saved places as of now
func (l *Library) Preferences(ctx context.Context) (models.PreferenceAnalysis, error) {
	places, err := l.List(ctx, models.ListParams{})
	if err != nil {
		places = l.All()
	}
	return AnalyzePreferences(places, time.Now()), nil
}

// Insights builds the high-level summary, including a short list of
// general recommendations
func (l *Library) Insights(ctx context.Context) (models.Insights, error) {
	places, err := l.List(ctx, models.ListParams{})
	if err != nil {
		places = l.All()
	}
	insights := BuildInsights(places, time.Now())
	if recs, rerr := l.Recommend(ctx, models.RecommendParams{Limit: 3}); rerr == nil {
		insights.Recommendations = recs
	}
	return insights, nil
}

func (l *Library) filterMemory(keep func(models.Place) bool) []models.Place {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []models.Place
	for _, p := range l.places {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (l *Library) applyLocationFilter(places []models.Place, loc *models.LocationFilter) []models.Place {
	if loc == nil {
		return places
	}
	radius := loc.RadiusOrDefault()
	var out []models.Place
	for _, p := range places {
		if geo.Distance(loc.Lat, loc.Lng, p.Location.Lat, p.Location.Lng) <= radius {
			out = append(out, p)
		}
	}
	return out
}

// sortByRating orders by self-reported rating, then provider rating, then
// name. The name tiebreak keeps output stable across map iteration order.
func sortByRating(places []models.Place) {
	sort.SliceStable(places, func(i, j int) bool {
		if places[i].UserRating != places[j].UserRating {
			return places[i].UserRating > places[j].UserRating
		}
		if places[i].Rating != places[j].Rating {
			return places[i].Rating > places[j].Rating
		}
		return places[i].Name < places[j].Name
	})
}

func truncate(places []models.Place, limit int) []models.Place {
	if limit > 0 && len(places) > limit {
		return places[:limit]
	}
	return places
}
