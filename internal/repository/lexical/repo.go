package lexical

import (
	"context"
	"fmt"
	"strings"

	"github.com/giftlane/relevance/internal/db"
	"github.com/giftlane/relevance/internal/domain/search/candidate"
	"github.com/giftlane/relevance/internal/domain/search/filter"
	"github.com/giftlane/relevance/internal/repository/catalog"
)

// store is the consumer interface for the lexical leg.
type store interface {
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo is the keyword retrieval leg: ranked BM25 full-text search over the
// catalog index. Rank is assigned by list position, 1-based.
type Repo struct {
	store store
}

// New creates a lexical search adapter.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search issues a ranked full-text query for the primary query unioned with
// its expansion variants. Errors propagate to the coordinator, which treats
// them as a degraded (empty) leg rather than a failed search.
func (r *Repo) Search(
	ctx context.Context, queries []string, filters filter.Filters, limit int,
) ([]candidate.Candidate, error) {
	if len(queries) == 0 {
		return nil, nil
	}

	q := &db.TextQuery{
		IndexName:    catalog.IndexName,
		Query:        queries[0],
		Variants:     queries[1:],
		Filters:      filters,
		TopK:         limit,
		ReturnFields: catalog.ReturnFields(),
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}

	return parseResults(sr)
}

func parseResults(sr *db.SearchResult) ([]candidate.Candidate, error) {
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	out := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, catalog.ItemKeyPrefix)
		it, err := catalog.ItemFromFields(id, entry.Fields)
		if err != nil {
			continue
		}
		out = append(out, candidate.New(it, entry.Score, 0, candidate.Keyword))
	}

	return candidate.Rank(out), nil
}
