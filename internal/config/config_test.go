// ABOUTME: Tests for environment configuration loading and validation
// ABOUTME: Uses t.Setenv so the process environment is restored per test
package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ATLAS_USER_ID", "OPENAI_API_KEY", "ATLAS_EMBEDDING_MODEL",
		"ATLAS_VECTOR_DIM", "QDRANT_HOST", "QDRANT_PORT", "QDRANT_API_KEY",
		"QDRANT_COLLECTION", "NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD",
		"CHARM_HOST", "ATLAS_CHARM_DB", "ATLAS_CHARM_ENABLED",
		"ATLAS_BACKEND_TIMEOUT", "ATLAS_SAMPLE_DATA", "ATLAS_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.UserID != "default" {
		t.Errorf("UserID = %q", cfg.UserID)
	}
	if cfg.VectorDim != 1536 {
		t.Errorf("VectorDim = %d", cfg.VectorDim)
	}
	if cfg.QdrantEnabled || cfg.Neo4jEnabled {
		t.Error("backends should be disabled without host config")
	}
	if cfg.BackendTimeout != 10*time.Second {
		t.Errorf("BackendTimeout = %v", cfg.BackendTimeout)
	}
	if !cfg.SampleData {
		t.Error("SampleData should default to true")
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
}

func TestLoadEnablesBackends(t *testing.T) {
	clearEnv(t)
	t.Setenv("QDRANT_HOST", "localhost")
	t.Setenv("NEO4J_URI", "bolt://localhost:7687")
	t.Setenv("NEO4J_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.QdrantEnabled {
		t.Error("QdrantEnabled should follow QDRANT_HOST")
	}
	if !cfg.Neo4jEnabled {
		t.Error("Neo4jEnabled should follow NEO4J_URI")
	}
}

func TestLoadNeo4jRequiresPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEO4J_URI", "bolt://localhost:7687")

	if _, err := Load(); err == nil {
		t.Error("expected error when NEO4J_URI is set without a password")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ATLAS_USER_ID", "harper")
	t.Setenv("ATLAS_VECTOR_DIM", "256")
	t.Setenv("ATLAS_BACKEND_TIMEOUT", "3s")
	t.Setenv("ATLAS_SAMPLE_DATA", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.UserID != "harper" {
		t.Errorf("UserID = %q", cfg.UserID)
	}
	if cfg.VectorDim != 256 {
		t.Errorf("VectorDim = %d", cfg.VectorDim)
	}
	if cfg.BackendTimeout != 3*time.Second {
		t.Errorf("BackendTimeout = %v", cfg.BackendTimeout)
	}
	if cfg.SampleData {
		t.Error("SampleData should be overridable")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty user", func(c *Config) { c.UserID = "" }, true},
		{"zero dimension", func(c *Config) { c.VectorDim = 0 }, true},
		{"bad qdrant port", func(c *Config) { c.QdrantEnabled = true; c.QdrantPort = 0 }, true},
		{"zero timeout", func(c *Config) { c.BackendTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				UserID:         "default",
				VectorDim:      1536,
				QdrantPort:     6334,
				BackendTimeout: 10 * time.Second,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")
	if got := getEnvInt("TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt with bad value = %d, want default", got)
	}

	t.Setenv("TEST_BOOL", "garbage")
	if got := getEnvBool("TEST_BOOL", true); got != true {
		t.Error("getEnvBool with bad value should return default")
	}

	t.Setenv("TEST_DUR", "5m")
	if got := getEnvDuration("TEST_DUR", time.Second); got != 5*time.Minute {
		t.Errorf("getEnvDuration = %v", got)
	}
}
