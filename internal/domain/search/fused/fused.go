package fused

import "github.com/giftlane/relevance/internal/domain/item"

// Result is one item after rank fusion. KeywordScore and SemanticScore are 0
// when the item is absent from that source; the corresponding rank pointer is
// nil. FinalScore equals RRFScore unless personalization applied a boost.
type Result struct {
	Item          item.Item
	KeywordScore  float64
	SemanticScore float64
	KeywordRank   *int
	SemanticRank  *int
	RRFScore      float64
	FinalScore    float64
}

// ID returns the fused item's identifier.
func (r *Result) ID() string { return r.Item.ID() }

// InBothSources reports whether the item was returned by both legs.
func (r *Result) InBothSources() bool { return r.KeywordRank != nil && r.SemanticRank != nil }
