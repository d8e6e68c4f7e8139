package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector, the model that produced it,
// and token usage through the decorator chain. Cached is true when the vector
// came from the cache and no tokens were consumed.
type EmbeddingResult struct {
	Embedding   []float32
	Model       string
	TotalTokens int
	Cached      bool
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings  [][]float32
	Model       string
	TotalTokens int
}

// BatchFallback calls Embed once per text. Safety net for providers
// without native batch support.
func BatchFallback(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	embeddings := make([][]float32, len(texts))
	var total int
	var model string

	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		embeddings[i] = res.Embedding
		model = res.Model
		total += res.TotalTokens
	}

	return BatchEmbeddingResult{Embeddings: embeddings, Model: model, TotalTokens: total}, nil
}
