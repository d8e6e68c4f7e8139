package search

import (
	"context"

	"github.com/giftlane/relevance/internal/domain/search/candidate"
	"github.com/giftlane/relevance/internal/domain/search/filter"
	"github.com/giftlane/relevance/internal/domain/search/fused"
	"github.com/giftlane/relevance/internal/domain/search/stats"
	"github.com/giftlane/relevance/internal/usecase/expand"
)

// Expander produces alternative query phrasings.
type Expander interface {
	Expand(query string) expand.ExpandedQuery
}

// LexicalSearcher is the keyword retrieval leg.
type LexicalSearcher interface {
	Search(ctx context.Context, queries []string, filters filter.Filters, limit int) ([]candidate.Candidate, error)
}

// VectorSearcher is the semantic retrieval leg.
type VectorSearcher interface {
	Search(
		ctx context.Context, embedding []float32,
		filters filter.Filters, limit int, minSimilarity float64,
	) ([]candidate.Candidate, error)
}

// Reranker optionally personalizes a fused ranking.
type Reranker interface {
	Rerank(ctx context.Context, results []fused.Result, userID string) ([]fused.Result, bool)
}

// TelemetrySink accepts per-query metrics records, fire-and-forget.
type TelemetrySink interface {
	Emit(qm stats.QueryMetrics)
}
