// ABOUTME: In-memory vector index used in tests and single-process setups
// ABOUTME: Brute-force cosine similarity over stored embeddings
package vector

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/2389-research/atlas/internal/models"
)

type memoryEntry struct {
	place models.Place
	vec   []float64
}

// MemoryIndex keeps embeddings in process memory. Search is a linear scan,
// which is fine for personal-scale collections.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryIndex creates an empty index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]memoryEntry)}
}

func (m *MemoryIndex) Upsert(_ context.Context, place models.Place, vec []float64) error {
	stored := make([]float64, len(vec))
	copy(stored, vec)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[place.PlaceID] = memoryEntry{place: place, vec: stored}
	return nil
}

func (m *MemoryIndex) UpsertBatch(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		if err := m.Upsert(ctx, e.Place, e.Vec); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, vec []float64, f Filters, limit int) ([]ScoredPlace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []ScoredPlace
	for _, entry := range m.entries {
		if !matchesFilters(entry.place, f) {
			continue
		}
		score := cosineSimilarity(vec, entry.vec)
		if score < MinScore {
			continue
		}
		results = append(results, ScoredPlace{Place: entry.place, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *MemoryIndex) RetrieveVector(_ context.Context, placeID string) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[placeID]
	if !ok {
		return nil, nil
	}
	vec := make([]float64, len(entry.vec))
	copy(vec, entry.vec)
	return vec, nil
}

func (m *MemoryIndex) Delete(_ context.Context, placeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, placeID)
	return nil
}

// Len reports how many places are indexed
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0
// when either vector is zero or the lengths differ
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
