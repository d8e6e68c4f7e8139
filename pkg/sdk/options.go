package relevance

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder Embedder

	openAIKey     string
	openAIBaseURL string

	model            string
	vectorDimensions int
	hnswM            int
	hnswEFConstruct  int

	cacheTTL       time.Duration
	rrfK           int
	maxVariants    int
	boostCeiling   float64
	candidateLimit int
	legTimeout     time.Duration

	telemetryStream string
	telemetryMaxLen int64

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets a custom text embedding provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithOpenAI configures the built-in OpenAI-compatible embedding provider.
func WithOpenAI(apiKey, model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
		c.model = model
		c.vectorDimensions = dimensions
	})
}

// WithOpenAIBaseURL overrides the OpenAI API endpoint (for compatible providers).
func WithOpenAIBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIBaseURL = baseURL
	})
}

// WithVectorDimensions sets the catalog vector dimension.
// Defaults to 1536 (text-embedding-3-small).
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithHNSW configures HNSW index build parameters (M and EF construction).
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithCacheTTL sets the embedding cache lifetime. Zero keeps the default
// of one hour; a negative value disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithRRFK sets the default fusion constant for searches that do not
// override it per request.
func WithRRFK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.rrfK = k
	})
}

// WithExpansionVariants caps how many query variants expansion may generate.
func WithExpansionVariants(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxVariants = n
	})
}

// WithBoostCeiling caps the personalization boost factor.
func WithBoostCeiling(ceiling float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.boostCeiling = ceiling
	})
}

// WithSearchLimits overrides the per-leg candidate depth and timeout.
func WithSearchLimits(candidateLimit int, legTimeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.candidateLimit = candidateLimit
		c.legTimeout = legTimeout
	})
}

// WithTelemetryStream enables query metrics publication to a Redis stream.
func WithTelemetryStream(stream string, maxLen int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.telemetryStream = stream
		c.telemetryMaxLen = maxLen
	})
}

// WithLogger sets the logger for client internals. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = logger
	})
}

// WithMetrics registers SDK operation metrics on the given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
