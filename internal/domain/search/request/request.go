package request

import (
	"fmt"
	"strings"

	"github.com/giftlane/relevance/internal/domain"
	"github.com/giftlane/relevance/internal/domain/search/filter"
)

// Search parameter limits and defaults.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1024
	DefaultLimit   = 20
	MaxLimit       = 100
	// DefaultRRFK is the Reciprocal Rank Fusion constant (Cormack et al. 2009).
	DefaultRRFK = 60
	// DefaultMinSimilarity is the semantic-leg cosine similarity cutoff.
	DefaultMinSimilarity = 0.5
)

// Options are the raw, unvalidated search parameters as received from the caller.
type Options struct {
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

// Request is a validated search query.
type Request struct {
	query           string
	limit           int
	filters         filter.Filters
	rrfK            int
	enableExpansion bool
	enableReranking bool
	userID          string
	minSimilarity   float64
}

// New validates and normalizes search parameters. Defaults: limit=20,
// rrfK=60, minSimilarity=0.5, expansion and reranking enabled. Reranking
// is effective only when a user id is supplied. All violations are wrapped
// in domain.ErrValidation and reported before any backend call is made.
func New(query string, opts Options) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrValidation, MaxQueryLength)
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, opts.Limit)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	rrfK := opts.RRFK
	if rrfK == 0 {
		rrfK = DefaultRRFK
	}
	if rrfK < 0 {
		return Request{}, fmt.Errorf("%w: rrf_k must be positive, got %d", domain.ErrValidation, opts.RRFK)
	}

	minSim := DefaultMinSimilarity
	if opts.MinSimilarity != nil {
		minSim = *opts.MinSimilarity
		if minSim < 0 || minSim > 1 {
			return Request{}, fmt.Errorf("%w: min_similarity must be between 0 and 1, got %v", domain.ErrValidation, minSim)
		}
	}

	if opts.MinPrice != nil && *opts.MinPrice < 0 {
		return Request{}, fmt.Errorf("%w: min_price must be non-negative", domain.ErrValidation)
	}
	if opts.MaxPrice != nil && *opts.MaxPrice < 0 {
		return Request{}, fmt.Errorf("%w: max_price must be non-negative", domain.ErrValidation)
	}
	if opts.MinPrice != nil && opts.MaxPrice != nil && *opts.MinPrice > *opts.MaxPrice {
		return Request{}, fmt.Errorf("%w: min_price exceeds max_price", domain.ErrValidation)
	}

	expansion := true
	if opts.EnableExpansion != nil {
		expansion = *opts.EnableExpansion
	}
	reranking := true
	if opts.EnableReranking != nil {
		reranking = *opts.EnableReranking
	}

	return Request{
		query:           query,
		limit:           limit,
		filters:         filter.New(opts.Category, opts.MinPrice, opts.MaxPrice),
		rrfK:            rrfK,
		enableExpansion: expansion,
		enableReranking: reranking && opts.UserID != "",
		userID:          opts.UserID,
		minSimilarity:   minSim,
	}, nil
}

// Query returns the trimmed search query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// Filters returns the category/price filters passed through to both legs.
func (r *Request) Filters() filter.Filters { return r.filters }

// RRFK returns the fusion constant.
func (r *Request) RRFK() int { return r.rrfK }

// ExpansionEnabled reports whether query expansion should run.
func (r *Request) ExpansionEnabled() bool { return r.enableExpansion }

// RerankingEnabled reports whether personalization should run. Always false
// without a user id.
func (r *Request) RerankingEnabled() bool { return r.enableReranking }

// UserID returns the requesting user id ("" = anonymous).
func (r *Request) UserID() string { return r.userID }

// MinSimilarity returns the semantic-leg similarity cutoff.
func (r *Request) MinSimilarity() float64 { return r.minSimilarity }
