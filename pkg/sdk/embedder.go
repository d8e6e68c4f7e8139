package relevance

import "context"

// Embedder converts text to vector embeddings. Required: both catalog writes
// and the semantic search leg depend on it.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
// Optional; if the provided Embedder also implements BatchEmbedder,
// batch upserts will use it for significantly better throughput.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding   []float32
	TotalTokens int
	Cached      bool
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings  [][]float32
	TotalTokens int
}
