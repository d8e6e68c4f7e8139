package relevance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/giftlane/relevance/internal/db"
	dbRedis "github.com/giftlane/relevance/internal/db/redis"
	"github.com/giftlane/relevance/internal/domain"
	"github.com/giftlane/relevance/internal/domain/item"
	"github.com/giftlane/relevance/internal/domain/search/request"
	catalogrepo "github.com/giftlane/relevance/internal/repository/catalog"
	"github.com/giftlane/relevance/internal/repository/embcache"
	lexicalrepo "github.com/giftlane/relevance/internal/repository/lexical"
	prefrepo "github.com/giftlane/relevance/internal/repository/preference"
	telemetryrepo "github.com/giftlane/relevance/internal/repository/telemetry"
	vectorrepo "github.com/giftlane/relevance/internal/repository/vector"
	openaiEmb "github.com/giftlane/relevance/internal/transport/openai"
	cataloguc "github.com/giftlane/relevance/internal/usecase/catalog"
	"github.com/giftlane/relevance/internal/usecase/expand"
	healthuc "github.com/giftlane/relevance/internal/usecase/health"
	"github.com/giftlane/relevance/internal/usecase/rerank"
	searchuc "github.com/giftlane/relevance/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultVectorDimensions = 1536
)

// Internal interfaces so tests can substitute the wired services.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (*searchuc.Response, error)
}

type catalogUseCase interface {
	Upsert(ctx context.Context, in cataloguc.ItemInput) (item.Item, error)
	BatchUpsert(ctx context.Context, inputs []cataloguc.ItemInput) ([]item.Item, error)
	Get(ctx context.Context, id string) (item.Item, error)
	Delete(ctx context.Context, id string) error
}

type preferenceStore interface {
	Get(ctx context.Context, userID string) ([]float32, bool, error)
	Set(ctx context.Context, userID string, vec []float32) error
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the relevance SDK entry point.
type Client struct {
	store      db.Store
	searchSvc  searchUseCase
	catalogSvc catalogUseCase
	prefStore  preferenceStore
	healthSvc  healthUseCase
	rrfK       int
	obs        *observer
}

// New creates a relevance Client, connects to the database, and ensures the
// catalog index exists. The provided context is used for the initial
// readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: defaultVectorDimensions,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("relevance: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("relevance: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("relevance: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	embedder := resolveEmbedder(store, cfg)

	catRepo := catalogrepo.New(store, cfg.vectorDimensions)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		catRepo = catRepo.WithHNSW(catalogrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	if err := catRepo.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("relevance: ensure catalog index: %w", err)
	}

	prefStore := prefrepo.New(store)

	// Typed-nil gotcha: assign the concrete sink only when configured so a
	// nil interface reaches the coordinator otherwise.
	var sink searchuc.TelemetrySink
	if cfg.telemetryStream != "" {
		sink = telemetryrepo.New(store, cfg.telemetryStream, cfg.telemetryMaxLen, cfg.logger)
	}

	expander := expand.New(cfg.maxVariants)
	reranker := rerank.New(prefStore, cfg.boostCeiling, cfg.logger)
	searchSvc := searchuc.New(
		expander, embedder,
		lexicalrepo.New(store), vectorrepo.New(store),
		reranker, sink, cfg.logger,
	).WithLimits(cfg.candidateLimit, cfg.legTimeout)

	return &Client{
		store:      store,
		searchSvc:  searchSvc,
		catalogSvc: cataloguc.New(catRepo, embedder),
		prefStore:  prefStore,
		healthSvc:  healthuc.New(store, nil),
		rrfK:       cfg.rrfK,
		obs:        obs,
	}, nil
}

// resolveEmbedder picks the configured provider and wraps it in the
// embedding cache unless caching is disabled.
func resolveEmbedder(store db.Store, cfg *clientConfig) domain.Embedder {
	var embedder domain.Embedder
	switch {
	case cfg.embedder != nil:
		embedder = wrapEmbedder(cfg.embedder)
	case cfg.openAIKey != "":
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.model,
			Dimensions: cfg.vectorDimensions,
			Provider:   "openai",
			Logger:     cfg.logger,
		})
	default:
		return noopEmbedder{}
	}

	if cfg.cacheTTL < 0 {
		return embedder
	}
	return embcache.New(embedder, store, cfg.model, cfg.cacheTTL, nil, cfg.logger)
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component -> "ok"/"error"
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Search runs one hybrid search.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	rrfK := opts.RRFK
	if rrfK == 0 {
		rrfK = c.rrfK
	}
	req, err := request.New(query, request.Options{
		Limit:           opts.Limit,
		Category:        opts.Category,
		MinPrice:        opts.MinPrice,
		MaxPrice:        opts.MaxPrice,
		RRFK:            rrfK,
		EnableExpansion: opts.EnableExpansion,
		EnableReranking: opts.EnableReranking,
		UserID:          opts.UserID,
		MinSimilarity:   opts.MinSimilarity,
	})
	if err != nil {
		return SearchResponse{}, err
	}

	out, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}

	hits := make([]SearchHit, len(out.Results))
	for i := range out.Results {
		hits[i] = hitFromFused(&out.Results[i])
	}
	return SearchResponse{
		Hits:     hits,
		Metrics:  metricsFromStats(out.Metrics),
		Expanded: expandedFromDomain(out.Expanded),
	}, nil
}

// Items returns the catalog item service.
func (c *Client) Items() *ItemService {
	return &ItemService{svc: c.catalogSvc, obs: c.obs}
}

// Preferences returns the user preference service.
func (c *Client) Preferences() *PreferenceService {
	return &PreferenceService{store: c.prefStore, obs: c.obs}
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func wrapEmbedder(e Embedder) domain.Embedder {
	if be, ok := e.(BatchEmbedder); ok {
		return &batchEmbedderAdapter{embedderAdapter{inner: e}, be}
	}
	return &embedderAdapter{inner: e}
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:   r.Embedding,
		TotalTokens: r.TotalTokens,
		Cached:      r.Cached,
	}, nil
}

type batchEmbedderAdapter struct {
	embedderAdapter
	batch BatchEmbedder
}

func (a *batchEmbedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	r, err := a.batch.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	return domain.BatchEmbeddingResult{
		Embeddings:  r.Embeddings,
		TotalTokens: r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed (used when no provider is configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"relevance: embedder not configured (use WithOpenAI or WithEmbedder)",
	)
}
