package rerank

import (
	"context"

	"go.uber.org/zap"

	"github.com/giftlane/relevance/internal/domain/search/fused"
)

// DefaultBoostCeiling caps the personalization boost at 20% over the
// pre-boost rrf score.
const DefaultBoostCeiling = 0.2

// PreferenceReader exposes a user's aggregate taste embedding.
// ok=false means no signal exists for this user.
type PreferenceReader interface {
	Get(ctx context.Context, userID string) ([]float32, bool, error)
}

// Reranker adjusts fused scores using a user's preference embedding.
// Personalization is always optional: any lookup failure degrades to a
// no-op and the original fused ranking is returned unchanged.
type Reranker struct {
	prefs   PreferenceReader
	ceiling float64
	logger  *zap.Logger
}

// New creates a re-ranker. ceiling <= 0 falls back to DefaultBoostCeiling.
func New(prefs PreferenceReader, ceiling float64, logger *zap.Logger) *Reranker {
	if ceiling <= 0 {
		ceiling = DefaultBoostCeiling
	}
	return &Reranker{prefs: prefs, ceiling: ceiling, logger: logger}
}

// Rerank boosts each result that carries an item embedding by
// cosine(item, preference) scaled into [0, ceiling], then re-sorts.
// FinalScore never drops below RRFScore and never exceeds it by more than
// the ceiling fraction. Returns applied=false when no boost happened
// (anonymous user, no stored preference, or lookup failure).
func (r *Reranker) Rerank(
	ctx context.Context, results []fused.Result, userID string,
) (out []fused.Result, applied bool) {
	if userID == "" || len(results) == 0 {
		return results, false
	}

	pref, ok, err := r.prefs.Get(ctx, userID)
	if err != nil {
		r.logger.Warn("Preference lookup failed, skipping personalization",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return results, false
	}
	if !ok {
		return results, false
	}

	for i := range results {
		itemVec := results[i].Item.Vector()
		if len(itemVec) == 0 {
			results[i].FinalScore = results[i].RRFScore
			continue
		}

		sim := cosine(itemVec, pref)
		if sim < 0 {
			sim = 0
		} else if sim > 1 {
			sim = 1
		}

		boost := sim * r.ceiling
		results[i].FinalScore = results[i].RRFScore * (1 + boost)
	}

	fused.Sort(results)
	return results, true
}
