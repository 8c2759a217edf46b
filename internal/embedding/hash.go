// ABOUTME: Deterministic hash-based embedding requiring no external service
// ABOUTME: Same text always yields the same unit-length vector
package embedding

import (
	"context"
	"math"
	"strings"
)

// Hash produces embeddings from word-level rolling hashes. Vectors are
// stable across processes and platforms, so they can stand in for model
// embeddings when no backend is available.
type Hash struct {
	dimension int
}

// NewHash creates a deterministic embedder with the given vector size
func NewHash(dimension int) *Hash {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Hash{dimension: dimension}
}

// Embed satisfies Backend; it cannot fail
func (h *Hash) Embed(_ context.Context, text string) ([]float64, error) {
	return h.Vector(text), nil
}

// Vector hashes each lowercased word, distributes it across all dimensions
// through a sine transform, averages over the words, and normalizes to unit
// length. Empty input yields the zero vector.
func (h *Hash) Vector(text string) []float64 {
	vec := make([]float64, h.dimension)

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return vec
	}

	for _, word := range words {
		seed := wordHash(word)
		for dim := 0; dim < h.dimension; dim++ {
			value := math.Sin(float64(seed)+float64(dim))*0.5 + 0.5
			vec[dim] += value / float64(len(words))
		}
	}

	return normalize(vec)
}

// wordHash is a 31x rolling hash with 32-bit signed wraparound
func wordHash(word string) int32 {
	var hash int32
	for _, r := range word {
		hash = (hash << 5) - hash + int32(r)
	}
	return hash
}

// normalize scales vec to unit length in place; the zero vector is returned
// unchanged
func normalize(vec []float64) []float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	magnitude := math.Sqrt(sum)
	if magnitude == 0 {
		return vec
	}
	for i := range vec {
		vec[i] /= magnitude
	}
	return vec
}
