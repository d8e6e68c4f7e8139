package httpapi

import (
	"github.com/giftlane/relevance/internal/domain/search/fused"
	"github.com/giftlane/relevance/internal/domain/search/request"
	"github.com/giftlane/relevance/internal/domain/search/stats"
	searchuc "github.com/giftlane/relevance/internal/usecase/search"
)

// searchRequest is the POST /v1/search body.
type searchRequest struct {
	Query   string         `json:"query"`
	Options *searchOptions `json:"options,omitempty"`
}

type searchOptions struct {
	Limit           int      `json:"limit,omitempty"`
	Category        string   `json:"category,omitempty"`
	MinPrice        *float64 `json:"minPrice,omitempty"`
	MaxPrice        *float64 `json:"maxPrice,omitempty"`
	RRFK            int      `json:"rrfK,omitempty"`
	EnableExpansion *bool    `json:"enableExpansion,omitempty"`
	EnableReranking *bool    `json:"enableReranking,omitempty"`
	UserID          string   `json:"userId,omitempty"`
	MinSimilarity   *float64 `json:"minSimilarity,omitempty"`
}

func (o *searchOptions) toDomain() request.Options {
	if o == nil {
		return request.Options{}
	}
	return request.Options{
		Limit:           o.Limit,
		Category:        o.Category,
		MinPrice:        o.MinPrice,
		MaxPrice:        o.MaxPrice,
		RRFK:            o.RRFK,
		EnableExpansion: o.EnableExpansion,
		EnableReranking: o.EnableReranking,
		UserID:          o.UserID,
		MinSimilarity:   o.MinSimilarity,
	}
}

type fusedResultDTO struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	KeywordScore  float64 `json:"keywordScore"`
	SemanticScore float64 `json:"semanticScore"`
	KeywordRank   *int    `json:"keywordRank"`
	SemanticRank  *int    `json:"semanticRank"`
	RRFScore      float64 `json:"rrfScore"`
	FinalScore    float64 `json:"finalScore"`
}

type queryMetricsDTO struct {
	QueryID          string `json:"queryId"`
	Timestamp        string `json:"timestamp"`
	LatencyMs        int64  `json:"latencyMs"`
	KeywordCount     int    `json:"keywordCount"`
	SemanticCount    int    `json:"semanticCount"`
	OverlapCount     int    `json:"overlapCount"`
	TotalResults     int    `json:"totalResults"`
	ExpansionApplied bool   `json:"expansionApplied"`
	RerankingApplied bool   `json:"rerankingApplied"`
	EmbeddingTokens  int    `json:"embeddingTokens"`
	EmbeddingCached  bool   `json:"embeddingCached"`
}

type expandedQueryDTO struct {
	Original     string   `json:"original"`
	Variants     []string `json:"variants"`
	MatchedTerms []string `json:"matchedTerms"`
}

type searchResponse struct {
	Results       []fusedResultDTO  `json:"results"`
	Metrics       queryMetricsDTO   `json:"metrics"`
	ExpandedQuery *expandedQueryDTO `json:"expandedQuery,omitempty"`
}

func searchResponseFromDomain(resp *searchuc.Response) searchResponse {
	results := make([]fusedResultDTO, len(resp.Results))
	for i := range resp.Results {
		results[i] = fusedResultFromDomain(&resp.Results[i])
	}

	out := searchResponse{
		Results: results,
		Metrics: queryMetricsFromDomain(resp.Metrics),
	}
	if resp.Expanded != nil {
		variants := resp.Expanded.Variants
		if variants == nil {
			variants = []string{}
		}
		terms := resp.Expanded.MatchedTerms
		if terms == nil {
			terms = []string{}
		}
		out.ExpandedQuery = &expandedQueryDTO{
			Original:     resp.Expanded.Original,
			Variants:     variants,
			MatchedTerms: terms,
		}
	}
	return out
}

func fusedResultFromDomain(r *fused.Result) fusedResultDTO {
	return fusedResultDTO{
		ID:            r.Item.ID(),
		Title:         r.Item.Title(),
		Description:   r.Item.Description(),
		Price:         r.Item.Price(),
		Category:      r.Item.Category(),
		KeywordScore:  r.KeywordScore,
		SemanticScore: r.SemanticScore,
		KeywordRank:   r.KeywordRank,
		SemanticRank:  r.SemanticRank,
		RRFScore:      r.RRFScore,
		FinalScore:    r.FinalScore,
	}
}

func queryMetricsFromDomain(qm stats.QueryMetrics) queryMetricsDTO {
	return queryMetricsDTO{
		QueryID:          qm.QueryID,
		Timestamp:        qm.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
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

// itemRequest is the PUT /v1/items/{id} body.
type itemRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

type itemResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

// preferenceRequest is the PUT /v1/users/{id}/preference body.
type preferenceRequest struct {
	Embedding []float32 `json:"embedding"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
