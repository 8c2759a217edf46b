// ABOUTME: Embedding provider with model-backed and deterministic variants
// ABOUTME: Absorbs backend failures so embedding never fails the caller's request
package embedding

import (
	"context"

	"go.uber.org/zap"
)

// DefaultDimension matches OpenAI text-embedding-3-small
const DefaultDimension = 1536

// Backend turns free text into a fixed-length vector and may fail.
// The concrete network client lives behind this interface.
type Backend interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Provider generates embeddings for places and queries. When a model backend
// is configured and fails, it degrades to the deterministic hash embedding
// instead of propagating the error; this is a hard contract.
type Provider struct {
	backend  Backend
	fallback *Hash
	logger   *zap.Logger
}

// New creates a Provider. backend may be nil, in which case every embedding
// is produced by the deterministic hash variant.
func New(backend Backend, dimension int, logger *zap.Logger) *Provider {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		backend:  backend,
		fallback: NewHash(dimension),
		logger:   logger,
	}
}

// Dimension returns the process-wide vector size
func (p *Provider) Dimension() int {
	return p.fallback.dimension
}

// Embed returns a vector for the given text. It never fails: a backend error
// is logged and the deterministic fallback vector is returned instead.
func (p *Provider) Embed(ctx context.Context, text string) []float64 {
	if p.backend == nil {
		return p.fallback.Vector(text)
	}

	vec, err := p.backend.Embed(ctx, text)
	if err != nil {
		p.logger.Warn("embedding backend failed, using deterministic fallback",
			zap.Error(err))
		return p.fallback.Vector(text)
	}
	if len(vec) != p.fallback.dimension {
		p.logger.Warn("embedding backend returned wrong dimension, using deterministic fallback",
			zap.Int("got", len(vec)),
			zap.Int("want", p.fallback.dimension))
		return p.fallback.Vector(text)
	}
	return vec
}
