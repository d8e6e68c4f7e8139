package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/giftlane/relevance/internal/config"
	dbRedis "github.com/giftlane/relevance/internal/db/redis"
	"github.com/giftlane/relevance/internal/domain"
	logpkg "github.com/giftlane/relevance/internal/logger"
	"github.com/giftlane/relevance/internal/metrics"
	catalogrepo "github.com/giftlane/relevance/internal/repository/catalog"
	"github.com/giftlane/relevance/internal/repository/embcache"
	lexicalrepo "github.com/giftlane/relevance/internal/repository/lexical"
	prefrepo "github.com/giftlane/relevance/internal/repository/preference"
	telemetryrepo "github.com/giftlane/relevance/internal/repository/telemetry"
	vectorrepo "github.com/giftlane/relevance/internal/repository/vector"
	"github.com/giftlane/relevance/internal/transport/httpapi"
	openaiEmb "github.com/giftlane/relevance/internal/transport/openai"
	cataloguc "github.com/giftlane/relevance/internal/usecase/catalog"
	"github.com/giftlane/relevance/internal/usecase/expand"
	healthuc "github.com/giftlane/relevance/internal/usecase/health"
	"github.com/giftlane/relevance/internal/usecase/rerank"
	searchuc "github.com/giftlane/relevance/internal/usecase/search"
	"github.com/giftlane/relevance/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting relevance API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Build embedder chain: OpenAI -> Cached
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	var embedder domain.Embedder = embcache.New(
		base, store, cfg.Embedding.Model,
		time.Duration(cfg.Embedding.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories
	catRepo := catalogrepo.New(store, cfg.Embedding.Dimensions).WithHNSW(catalogrepo.HNSWConfig{
		M:           cfg.Search.HNSWM,
		EFConstruct: cfg.Search.HNSWEFConstruct,
	})
	if err := catRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure catalog index", zap.Error(err))
	}
	lexRepo := lexicalrepo.New(store)
	vecRepo := vectorrepo.New(store)
	prefStore := prefrepo.New(store)
	sink := telemetryrepo.New(store, cfg.Telemetry.Stream, cfg.Telemetry.MaxLen, logger)

	// Use case services
	expander := expand.New(cfg.Search.MaxVariants)
	reranker := rerank.New(prefStore, cfg.Search.BoostCeiling, logger)
	searchSvc := searchuc.New(expander, embedder, lexRepo, vecRepo, reranker, sink, logger).
		WithLimits(cfg.Search.CandidateLimit, time.Duration(cfg.Search.LegTimeoutSec)*time.Second)
	catalogSvc := cataloguc.New(catRepo, embedder)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	server := httpapi.NewServer(searchSvc, catalogSvc, prefStore, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(httpapi.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// embeddingHealthChecker adapts domain.Embedder to health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
