// ABOUTME: Environment-driven configuration for the atlas server
// ABOUTME: Every backend is optional; missing config degrades tiers, not startup
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration
type Config struct {
	// UserID scopes every stored place; single-user deployments keep the
	// default
	UserID string

	// OpenAI embedding backend; empty APIKey selects the deterministic
	// hash embedding
	OpenAIAPIKey   string
	EmbeddingModel string
	VectorDim      int

	// Qdrant vector index
	QdrantHost       string
	QdrantPort       int
	QdrantAPIKey     string
	QdrantCollection string
	QdrantEnabled    bool

	// Neo4j graph store
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jEnabled  bool

	// Charm KV snapshot store
	CharmHost    string
	CharmDBName  string
	CharmEnabled bool

	// BackendTimeout bounds each individual backend call
	BackendTimeout time.Duration

	// SampleData seeds the in-memory tier with example places when no
	// stored data exists
	SampleData bool

	LogLevel string
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{
		UserID:           getEnv("ATLAS_USER_ID", "default"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		EmbeddingModel:   getEnv("ATLAS_EMBEDDING_MODEL", "text-embedding-3-small"),
		VectorDim:        getEnvInt("ATLAS_VECTOR_DIM", 1536),
		QdrantHost:       getEnv("QDRANT_HOST", ""),
		QdrantPort:       getEnvInt("QDRANT_PORT", 6334),
		QdrantAPIKey:     getEnv("QDRANT_API_KEY", ""),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "atlas_places"),
		Neo4jURI:         getEnv("NEO4J_URI", ""),
		Neo4jUsername:    getEnv("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword:    getEnv("NEO4J_PASSWORD", ""),
		CharmHost:        getEnv("CHARM_HOST", ""),
		CharmDBName:      getEnv("ATLAS_CHARM_DB", "atlas"),
		CharmEnabled:     getEnvBool("ATLAS_CHARM_ENABLED", false),
		BackendTimeout:   getEnvDuration("ATLAS_BACKEND_TIMEOUT", 10*time.Second),
		SampleData:       getEnvBool("ATLAS_SAMPLE_DATA", true),
		LogLevel:         getEnv("ATLAS_LOG_LEVEL", "info"),
	}

	cfg.QdrantEnabled = cfg.QdrantHost != ""
	cfg.Neo4jEnabled = cfg.Neo4jURI != ""

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user ID cannot be empty")
	}
	if c.VectorDim <= 0 {
		return fmt.Errorf("vector dimension must be positive, got %d", c.VectorDim)
	}
	if c.QdrantEnabled && (c.QdrantPort <= 0 || c.QdrantPort > 65535) {
		return fmt.Errorf("invalid qdrant port %d", c.QdrantPort)
	}
	if c.Neo4jEnabled && c.Neo4jPassword == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required when NEO4J_URI is set")
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("backend timeout must be positive, got %v", c.BackendTimeout)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
