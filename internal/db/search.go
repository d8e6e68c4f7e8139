package db

import "github.com/giftlane/relevance/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      filter.Filters
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for BM25 text search. Variants are unioned
// disjunctively with the primary query at the backend.
type TextQuery struct {
	IndexName    string
	Query        string
	Variants     []string
	Filters      filter.Filters
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
