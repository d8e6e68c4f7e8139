package stats

import "time"

// QueryMetrics is an immutable record describing one whole search operation.
// Created once per invocation and handed to the telemetry sink; it is the
// only search artifact besides cached embeddings that outlives the call.
type QueryMetrics struct {
	QueryID          string    `json:"query_id"`
	Timestamp        time.Time `json:"timestamp"`
	LatencyMs        int64     `json:"latency_ms"`
	KeywordCount     int       `json:"keyword_count"`
	SemanticCount    int       `json:"semantic_count"`
	OverlapCount     int       `json:"overlap_count"`
	TotalResults     int       `json:"total_results"`
	ExpansionApplied bool      `json:"expansion_applied"`
	RerankingApplied bool      `json:"reranking_applied"`
	EmbeddingTokens  int       `json:"embedding_tokens"`
	EmbeddingCached  bool      `json:"embedding_cached"`
}
