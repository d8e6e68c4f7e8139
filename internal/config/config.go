package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the relevance API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	Provider    string `yaml:"provider"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"`
}

// SearchConfig holds ranking engine settings.
type SearchConfig struct {
	RRFK            int     `yaml:"rrf_k"`
	MinSimilarity   float64 `yaml:"min_similarity"`
	MaxVariants     int     `yaml:"max_variants"`
	CandidateLimit  int     `yaml:"candidate_limit"`
	BoostCeiling    float64 `yaml:"boost_ceiling"`
	LegTimeoutSec   int     `yaml:"leg_timeout_sec"`
	HNSWM           int     `yaml:"hnsw_m"`
	HNSWEFConstruct int     `yaml:"hnsw_ef_construction"`
}

// TelemetryConfig holds the query metrics stream settings.
type TelemetryConfig struct {
	Stream string `yaml:"stream"`
	MaxLen int64  `yaml:"max_len"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 10
	}
	if c.Embedding.CacheTTLSec <= 0 {
		c.Embedding.CacheTTLSec = 3600
	}
	if c.Search.RRFK <= 0 {
		c.Search.RRFK = 60
	}
	if c.Search.MinSimilarity <= 0 {
		c.Search.MinSimilarity = 0.5
	}
	if c.Search.MaxVariants <= 0 {
		c.Search.MaxVariants = 3
	}
	if c.Search.CandidateLimit <= 0 {
		c.Search.CandidateLimit = 50
	}
	if c.Search.BoostCeiling <= 0 {
		c.Search.BoostCeiling = 0.2
	}
	if c.Search.LegTimeoutSec <= 0 {
		c.Search.LegTimeoutSec = 5
	}
	if c.Search.HNSWM <= 0 {
		c.Search.HNSWM = 32
	}
	if c.Search.HNSWEFConstruct <= 0 {
		c.Search.HNSWEFConstruct = 400
	}
	if c.Telemetry.Stream == "" {
		c.Telemetry.Stream = "relevance:telemetry"
	}
	if c.Telemetry.MaxLen <= 0 {
		c.Telemetry.MaxLen = 100000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Search.MinSimilarity < 0 || c.Search.MinSimilarity > 1 {
		return fmt.Errorf("search.min_similarity must be between 0 and 1, got %g", c.Search.MinSimilarity)
	}
	if c.Search.BoostCeiling < 0 || c.Search.BoostCeiling > 1 {
		return fmt.Errorf("search.boost_ceiling must be between 0 and 1, got %g", c.Search.BoostCeiling)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
