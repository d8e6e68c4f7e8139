package candidate

import "github.com/giftlane/relevance/internal/domain/item"

// Source identifies which retrieval leg produced a candidate.
type Source string

const (
	// Keyword marks the lexical (BM25) leg.
	Keyword Source = "keyword"
	// Semantic marks the vector similarity leg.
	Semantic Source = "semantic"
)

// Candidate is one retrieval hit from a single source: the item, the
// source-local score (BM25 score or cosine similarity) and the 1-based
// position within that source's result list.
type Candidate struct {
	item   item.Item
	score  float64
	rank   int
	source Source
}

// New creates a candidate. Rank is 1-based.
func New(it item.Item, score float64, rank int, source Source) Candidate {
	return Candidate{item: it, score: score, rank: rank, source: source}
}

// Item returns the catalog item.
func (c *Candidate) Item() item.Item { return c.item }

// ID returns the item identifier.
func (c *Candidate) ID() string { return c.item.ID() }

// Score returns the source-local relevance score.
func (c *Candidate) Score() float64 { return c.score }

// Rank returns the 1-based position within the source list.
func (c *Candidate) Rank() int { return c.rank }

// Source returns the retrieval leg that produced this candidate.
func (c *Candidate) Source() Source { return c.source }

// Rank assigns 1-based ranks by list position and returns the same slice.
func Rank(list []Candidate) []Candidate {
	for i := range list {
		list[i].rank = i + 1
	}
	return list
}
