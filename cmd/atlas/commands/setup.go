// ABOUTME: Shared backend bootstrap for CLI commands
// ABOUTME: Builds the library from config; failed backends disable their tier
package commands

import (
	"context"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/2389-research/atlas/internal/config"
	"github.com/2389-research/atlas/internal/core"
	"github.com/2389-research/atlas/internal/embedding"
	"github.com/2389-research/atlas/internal/graph"
	"github.com/2389-research/atlas/internal/kv"
	"github.com/2389-research/atlas/internal/vector"
)

// newLogger builds the process logger. Logs always go to stderr so the MCP
// stdio channel stays clean.
func newLogger() (*zap.Logger, error) {
	if quiet {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// buildLibrary loads configuration and wires up every reachable backend.
// A backend that fails to initialize is logged and left out; its tier is
// disabled for the life of the process.
func buildLibrary(ctx context.Context, logger *zap.Logger) (*core.Library, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	var backend embedding.Backend
	if cfg.OpenAIAPIKey != "" {
		oa, err := embedding.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		if err != nil {
			logger.Warn("openai backend unavailable, using deterministic embeddings", zap.Error(err))
		} else {
			backend = oa
		}
	} else {
		logger.Info("OPENAI_API_KEY not set, using deterministic embeddings")
	}
	embedder := embedding.New(backend, cfg.VectorDim, logger)

	var cleanups []func()

	// The two remote backends connect in parallel; either one failing
	// just disables its tier.
	var (
		wg       sync.WaitGroup
		qdrant   *vector.QdrantIndex
		qdrantEr error
		neo      *graph.Neo4jStore
		neoErr   error
	)
	if cfg.QdrantEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			qdrant, qdrantEr = vector.NewQdrantIndex(ctx, cfg.QdrantHost, cfg.QdrantPort,
				cfg.QdrantAPIKey, cfg.QdrantCollection, cfg.VectorDim, logger)
		}()
	}
	if cfg.Neo4jEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			neo, neoErr = graph.NewNeo4jStore(ctx, cfg.Neo4jURI, cfg.Neo4jUsername, cfg.Neo4jPassword, logger)
		}()
	}
	wg.Wait()

	var vectorIdx vector.Index
	if cfg.QdrantEnabled {
		if qdrantEr != nil {
			logger.Warn("qdrant unavailable, vector tier disabled", zap.Error(qdrantEr))
		} else {
			vectorIdx = qdrant
			cleanups = append(cleanups, func() { _ = qdrant.Close() })
		}
	}

	var graphStore graph.Store
	if cfg.Neo4jEnabled {
		if neoErr != nil {
			logger.Warn("neo4j unavailable, graph tier disabled", zap.Error(neoErr))
		} else {
			graphStore = neo
			cleanups = append(cleanups, func() { _ = neo.Close(context.Background()) })
		}
	}

	var snapshots *kv.Store
	if cfg.CharmEnabled {
		store, err := kv.NewStore(&kv.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: true,
		})
		if err != nil {
			logger.Warn("charm kv unavailable, snapshots disabled", zap.Error(err))
		} else {
			snapshots = store
			cleanups = append(cleanups, func() { _ = store.Close() })
		}
	}

	library := core.NewLibrary(core.Options{
		UserID:     cfg.UserID,
		Embedder:   embedder,
		Vector:     vectorIdx,
		Graph:      graphStore,
		Snapshots:  snapshots,
		Timeout:    cfg.BackendTimeout,
		Logger:     logger,
		SampleData: cfg.SampleData,
	})

	if vectorIdx != nil {
		if err := library.Reindex(ctx); err != nil {
			logger.Warn("initial reindex failed", zap.Error(err))
		}
	}

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return library, cleanup, nil
}
