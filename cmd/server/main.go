// ABOUTME: Standalone entry point for the Atlas MCP server on stdio
// ABOUTME: Equivalent to `atlas mcp` for deployments that only need the server
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/2389-research/atlas/internal/config"
	"github.com/2389-research/atlas/internal/core"
	"github.com/2389-research/atlas/internal/embedding"
	"github.com/2389-research/atlas/internal/graph"
	"github.com/2389-research/atlas/internal/kv"
	"github.com/2389-research/atlas/internal/mcp"
	"github.com/2389-research/atlas/internal/vector"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

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
			defer qdrant.Close()
		}
	}

	var graphStore graph.Store
	if cfg.Neo4jEnabled {
		if neoErr != nil {
			logger.Warn("neo4j unavailable, graph tier disabled", zap.Error(neoErr))
		} else {
			graphStore = neo
			defer neo.Close(context.Background())
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
			defer store.Close()
		}
	}

	library := core.NewLibrary(core.Options{
		UserID:     cfg.UserID,
		Embedder:   embedding.New(backend, cfg.VectorDim, logger),
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

	server := mcpserver.NewMCPServer(
		"Atlas Places Memory",
		"0.1.0",
	)
	mcp.RegisterTools(server, library, logger)

	logger.Info("atlas MCP server starting on stdio",
		zap.String("user_id", library.UserID()))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
