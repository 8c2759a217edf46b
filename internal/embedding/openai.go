// ABOUTME: OpenAI embedding backend with retry and timeout handling
// ABOUTME: Wraps the sashabaranov client behind the Backend interface
package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/2389-research/atlas/internal/util"
)

const (
	maxRetries     = 3
	baseRetryDelay = 1 * time.Second
	requestTimeout = 30 * time.Second
)

// OpenAIBackend generates embeddings through the OpenAI API
type OpenAIBackend struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIBackend creates a backend for the given API key. An empty model
// name selects text-embedding-3-small.
func NewOpenAIBackend(apiKey, model string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	m := openai.EmbeddingModel(model)
	if model == "" {
		m = openai.SmallEmbedding3
	}
	return &OpenAIBackend{
		client: openai.NewClient(apiKey),
		model:  m,
	}, nil
}

// Embed requests a single embedding, retrying transient failures with
// exponential backoff
func (b *OpenAIBackend) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := util.CalculateBackoff(baseRetryDelay, attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		resp, err := b.client.CreateEmbeddings(reqCtx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: b.model,
		})
		cancel()

		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("empty embedding response")
			continue
		}

		raw := resp.Data[0].Embedding
		vec := make([]float64, len(raw))
		for i, v := range raw {
			vec[i] = float64(v)
		}
		return vec, nil
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", maxRetries, lastErr)
}
