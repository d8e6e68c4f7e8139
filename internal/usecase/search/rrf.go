package search

import (
	"github.com/giftlane/relevance/internal/domain/search/candidate"
	"github.com/giftlane/relevance/internal/domain/search/fused"
)

// fuseRRF merges the keyword and semantic legs via Reciprocal Rank Fusion.
// Each source contributes 1/(k+rank) to the item's rrf score (rank 1-based);
// an item present in both lists accumulates both contributions, which is why
// RRF rewards agreement between signals without needing the raw BM25 and
// cosine scores to share a scale. Given a fixed k the output is fully
// deterministic: ties sort by item id.
func fuseRRF(keyword, semantic []candidate.Candidate, k int) []fused.Result {
	merged := make(map[string]*fused.Result, len(keyword)+len(semantic))

	for i := range keyword {
		c := &keyword[i]
		rank := c.Rank()
		merged[c.ID()] = &fused.Result{
			Item:         c.Item(),
			KeywordScore: c.Score(),
			KeywordRank:  &rank,
			RRFScore:     1.0 / float64(k+rank),
		}
	}

	for i := range semantic {
		c := &semantic[i]
		rank := c.Rank()
		contribution := 1.0 / float64(k+rank)

		if existing, ok := merged[c.ID()]; ok {
			existing.SemanticScore = c.Score()
			existing.SemanticRank = &rank
			existing.RRFScore += contribution
			// Semantic item carries the embedding used by the re-ranker.
			existing.Item = c.Item()
		} else {
			merged[c.ID()] = &fused.Result{
				Item:          c.Item(),
				SemanticScore: c.Score(),
				SemanticRank:  &rank,
				RRFScore:      contribution,
			}
		}
	}

	results := make([]fused.Result, 0, len(merged))
	for _, r := range merged {
		r.FinalScore = r.RRFScore
		results = append(results, *r)
	}

	fused.Sort(results)
	return results
}

// overlapCount counts items present in both source lists.
func overlapCount(keyword, semantic []candidate.Candidate) int {
	ids := make(map[string]bool, len(keyword))
	for i := range keyword {
		ids[keyword[i].ID()] = true
	}
	n := 0
	for i := range semantic {
		if ids[semantic[i].ID()] {
			n++
		}
	}
	return n
}
