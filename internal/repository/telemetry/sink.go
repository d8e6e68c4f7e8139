package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/giftlane/relevance/internal/domain/search/stats"
	"github.com/giftlane/relevance/internal/metrics"
)

// publisher is the consumer interface for the telemetry stream.
type publisher interface {
	XAdd(ctx context.Context, stream string, maxLen int64, fields map[string]string) error
}

// Sink writes QueryMetrics records to a capped Redis stream. Emission is
// fire-and-forget: a sink failure is counted and logged, never propagated,
// and never delays the response already computed.
type Sink struct {
	pub     publisher
	stream  string
	maxLen  int64
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a telemetry sink.
func New(pub publisher, stream string, maxLen int64, logger *zap.Logger) *Sink {
	return &Sink{
		pub:     pub,
		stream:  stream,
		maxLen:  maxLen,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

// Emit appends one record to the stream. Runs with its own short deadline
// detached from the request context, so caller cancellation cannot lose
// records for searches that did complete.
func (s *Sink) Emit(qm stats.QueryMetrics) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.pub.XAdd(ctx, s.stream, s.maxLen, recordToFields(qm)); err != nil {
		metrics.TelemetryDropsTotal.Inc()
		s.logger.Warn("Failed to emit query metrics",
			zap.String("query_id", qm.QueryID),
			zap.Error(err),
		)
	}
}

func recordToFields(qm stats.QueryMetrics) map[string]string {
	return map[string]string{
		"query_id":          qm.QueryID,
		"timestamp":         qm.Timestamp.UTC().Format(time.RFC3339Nano),
		"latency_ms":        strconv.FormatInt(qm.LatencyMs, 10),
		"keyword_count":     strconv.Itoa(qm.KeywordCount),
		"semantic_count":    strconv.Itoa(qm.SemanticCount),
		"overlap_count":     strconv.Itoa(qm.OverlapCount),
		"total_results":     strconv.Itoa(qm.TotalResults),
		"expansion_applied": strconv.FormatBool(qm.ExpansionApplied),
		"reranking_applied": strconv.FormatBool(qm.RerankingApplied),
		"embedding_tokens":  strconv.Itoa(qm.EmbeddingTokens),
		"embedding_cached":  strconv.FormatBool(qm.EmbeddingCached),
	}
}
