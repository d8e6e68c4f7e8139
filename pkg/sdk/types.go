package relevance

import (
	"time"

	"github.com/giftlane/relevance/internal/domain/search/fused"
	"github.com/giftlane/relevance/internal/domain/search/stats"
	"github.com/giftlane/relevance/internal/usecase/expand"
)

// Item is a catalog entry.
type Item struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Category    string
}

// SearchOptions tunes one search request. The zero value asks for defaults.
type SearchOptions struct {
	Limit           int
	Category        string
	MinPrice        *float64
	MaxPrice        *float64
	RRFK            int
	EnableExpansion *bool
	EnableReranking *bool
	UserID          string
	MinSimilarity   *float64
}

// SearchHit is one fused search result. KeywordRank and SemanticRank are nil
// when the item was absent from that retrieval leg.
type SearchHit struct {
	Item          Item
	KeywordScore  float64
	SemanticScore float64
	KeywordRank   *int
	SemanticRank  *int
	RRFScore      float64
	FinalScore    float64
}

// QueryMetrics is the telemetry record for one search.
type QueryMetrics struct {
	QueryID          string
	Timestamp        time.Time
	LatencyMs        int64
	KeywordCount     int
	SemanticCount    int
	OverlapCount     int
	TotalResults     int
	ExpansionApplied bool
	RerankingApplied bool
	EmbeddingTokens  int
	EmbeddingCached  bool
}

// ExpandedQuery describes what query expansion produced.
type ExpandedQuery struct {
	Original     string
	Variants     []string
	MatchedTerms []string
}

// SearchResponse is the complete answer for one search.
type SearchResponse struct {
	Hits     []SearchHit
	Metrics  QueryMetrics
	Expanded *ExpandedQuery
}

func hitFromFused(r *fused.Result) SearchHit {
	return SearchHit{
		Item: Item{
			ID:          r.Item.ID(),
			Title:       r.Item.Title(),
			Description: r.Item.Description(),
			Price:       r.Item.Price(),
			Category:    r.Item.Category(),
		},
		KeywordScore:  r.KeywordScore,
		SemanticScore: r.SemanticScore,
		KeywordRank:   r.KeywordRank,
		SemanticRank:  r.SemanticRank,
		RRFScore:      r.RRFScore,
		FinalScore:    r.FinalScore,
	}
}

func metricsFromStats(qm stats.QueryMetrics) QueryMetrics {
	return QueryMetrics{
		QueryID:          qm.QueryID,
		Timestamp:        qm.Timestamp,
		LatencyMs:        qm.LatencyMs,
		KeywordCount:     qm.KeywordCount,
		SemanticCount:    qm.SemanticCount,
		OverlapCount:     qm.OverlapCount,
		TotalResults:     qm.TotalResults,
		ExpansionApplied: qm.ExpansionApplied,
		RerankingApplied: qm.RerankingApplied,
		EmbeddingTokens:  qm.EmbeddingTokens,
		EmbeddingCached:  qm.EmbeddingCached,
	}
}

func expandedFromDomain(e *expand.ExpandedQuery) *ExpandedQuery {
	if e == nil {
		return nil
	}
	return &ExpandedQuery{
		Original:     e.Original,
		Variants:     e.Variants,
		MatchedTerms: e.MatchedTerms,
	}
}
