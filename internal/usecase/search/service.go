package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/giftlane/relevance/internal/domain"
	"github.com/giftlane/relevance/internal/domain/search/candidate"
	"github.com/giftlane/relevance/internal/domain/search/fused"
	"github.com/giftlane/relevance/internal/domain/search/request"
	"github.com/giftlane/relevance/internal/domain/search/stats"
	"github.com/giftlane/relevance/internal/metrics"
	"github.com/giftlane/relevance/internal/usecase/expand"
)

// DefaultCandidateLimit is how many hits each leg retrieves before fusion.
// Deeper than the returned page so fusion has enough overlap to reward.
const DefaultCandidateLimit = 50

// Response is the complete answer for one search invocation.
type Response struct {
	Results  []fused.Result
	Metrics  stats.QueryMetrics
	Expanded *expand.ExpandedQuery
}

// Service coordinates one hybrid search: expansion, query embedding, the two
// concurrent retrieval legs, rank fusion, optional personalization, and
// telemetry. The only fatal path is the embedding call; each retrieval leg
// degrades to an empty list on its own failure, and telemetry never touches
// the response.
type Service struct {
	expander       Expander
	embed          domain.Embedder
	lexical        LexicalSearcher
	vector         VectorSearcher
	reranker       Reranker
	sink           TelemetrySink
	candidateLimit int
	legTimeout     time.Duration
	logger         *zap.Logger
}

// New creates a search coordinator.
func New(
	expander Expander,
	embed domain.Embedder,
	lexical LexicalSearcher,
	vector VectorSearcher,
	reranker Reranker,
	sink TelemetrySink,
	logger *zap.Logger,
) *Service {
	return &Service{
		expander:       expander,
		embed:          embed,
		lexical:        lexical,
		vector:         vector,
		reranker:       reranker,
		sink:           sink,
		candidateLimit: DefaultCandidateLimit,
		legTimeout:     5 * time.Second,
		logger:         logger,
	}
}

// WithLimits overrides the per-leg candidate depth and timeout.
func (s *Service) WithLimits(candidateLimit int, legTimeout time.Duration) *Service {
	if candidateLimit > 0 {
		s.candidateLimit = candidateLimit
	}
	if legTimeout > 0 {
		s.legTimeout = legTimeout
	}
	return s
}

// Search executes one hybrid search for an already-validated request.
func (s *Service) Search(ctx context.Context, req *request.Request) (*Response, error) {
	start := time.Now()
	queryID := uuid.NewString()

	// (a) Expansion. Pure computation, never fails.
	var expanded *expand.ExpandedQuery
	queries := []string{req.Query()}
	if req.ExpansionEnabled() {
		exp := s.expander.Expand(req.Query())
		expanded = &exp
		queries = append(queries, exp.Variants...)
	}

	// (b) Query embedding. The single fatal dependency: without a vector the
	// semantic leg cannot run, so the whole search fails here.
	embRes, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// (c) Fan-out: both legs run concurrently and degrade independently.
	depth := s.candidateLimit
	if req.Limit() > depth {
		depth = req.Limit()
	}

	var keyword, semantic []candidate.Candidate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		keyword = s.runLeg(gctx, candidate.Keyword, func(legCtx context.Context) ([]candidate.Candidate, error) {
			return s.lexical.Search(legCtx, queries, req.Filters(), depth)
		})
		return nil
	})
	g.Go(func() error {
		semantic = s.runLeg(gctx, candidate.Semantic, func(legCtx context.Context) ([]candidate.Candidate, error) {
			return s.vector.Search(legCtx, embRes.Embedding, req.Filters(), depth, req.MinSimilarity())
		})
		return nil
	})
	_ = g.Wait() // legs never return errors, only degrade

	// (d) Fusion.
	results := fuseRRF(keyword, semantic, req.RRFK())

	// (e) Personalization, optional and self-degrading.
	rerankingApplied := false
	if req.RerankingEnabled() {
		results, rerankingApplied = s.reranker.Rerank(ctx, results, req.UserID())
	}

	// (f) Truncate to the requested page. TotalResults keeps the fused count.
	fusedCount := len(results)
	if len(results) > req.Limit() {
		results = results[:req.Limit()]
	}

	// (g) Assemble and emit metrics off the response path.
	qm := stats.QueryMetrics{
		QueryID:          queryID,
		Timestamp:        start,
		LatencyMs:        time.Since(start).Milliseconds(),
		KeywordCount:     len(keyword),
		SemanticCount:    len(semantic),
		OverlapCount:     overlapCount(keyword, semantic),
		TotalResults:     fusedCount,
		ExpansionApplied: expanded != nil && len(expanded.Variants) > 0,
		RerankingApplied: rerankingApplied,
		EmbeddingTokens:  embRes.TotalTokens,
		EmbeddingCached:  embRes.Cached,
	}
	if s.sink != nil {
		go s.sink.Emit(qm)
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	return &Response{Results: results, Metrics: qm, Expanded: expanded}, nil
}

// runLeg executes one retrieval leg with its own timeout. Any error,
// including a timeout, degrades the leg to an empty candidate list: a search
// with one healthy leg still answers, and with none it answers empty.
func (s *Service) runLeg(
	ctx context.Context,
	leg candidate.Source,
	fn func(ctx context.Context) ([]candidate.Candidate, error),
) []candidate.Candidate {
	legCtx, cancel := context.WithTimeout(ctx, s.legTimeout)
	defer cancel()

	out, err := fn(legCtx)
	if err != nil {
		metrics.SearchLegTotal.WithLabelValues(string(leg), "degraded").Inc()
		s.logger.Warn("Retrieval leg degraded to empty",
			zap.String("leg", string(leg)),
			zap.Error(err),
		)
		return nil
	}

	metrics.SearchLegTotal.WithLabelValues(string(leg), "ok").Inc()
	return out
}
