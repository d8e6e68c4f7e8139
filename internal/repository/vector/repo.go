package vector

import (
	"context"
	"fmt"
	"strings"

	"github.com/giftlane/relevance/internal/db"
	"github.com/giftlane/relevance/internal/domain/search/candidate"
	"github.com/giftlane/relevance/internal/domain/search/filter"
	"github.com/giftlane/relevance/internal/repository/catalog"
)

// store is the consumer interface for the semantic leg.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo is the semantic retrieval leg: KNN cosine similarity search over
// stored item embeddings. Hits below the similarity threshold are dropped
// before ranks are assigned.
type Repo struct {
	store store
}

// New creates a vector search adapter.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search issues a nearest-neighbor query. Errors propagate to the
// coordinator, which treats them as a degraded (empty) leg.
func (r *Repo) Search(
	ctx context.Context, embedding []float32, filters filter.Filters, limit int, minSimilarity float64,
) ([]candidate.Candidate, error) {
	q := &db.KNNQuery{
		IndexName:    catalog.IndexName,
		Filters:      filters,
		Vector:       embedding,
		K:            limit,
		ReturnFields: append(catalog.ReturnFields(), "__vector_score"),
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return parseResults(sr, minSimilarity)
}

func parseResults(sr *db.SearchResult, minSimilarity float64) ([]candidate.Candidate, error) {
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	out := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		if entry.Score < minSimilarity {
			continue
		}
		id := strings.TrimPrefix(entry.Key, catalog.ItemKeyPrefix)
		it, err := catalog.ItemFromFields(id, entry.Fields)
		if err != nil {
			continue
		}
		out = append(out, candidate.New(it, entry.Score, 0, candidate.Semantic))
	}

	return candidate.Rank(out), nil
}
