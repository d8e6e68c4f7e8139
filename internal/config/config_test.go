package config

import (
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d: expected error", port)
		}
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing addrs")
	}
	if err.Error() != "database.addrs is required" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestValidate_MinSimilarityRange(t *testing.T) {
	cfg := validConfig()
	cfg.Search.MinSimilarity = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for min_similarity > 1")
	}

	cfg.Search.MinSimilarity = -0.1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative min_similarity")
	}
}

func TestValidate_BoostCeilingRange(t *testing.T) {
	cfg := validConfig()
	cfg.Search.BoostCeiling = 1.2
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for boost_ceiling > 1")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Search.RRFK != 60 {
		t.Errorf("rrf_k = %d, want 60", cfg.Search.RRFK)
	}
	if cfg.Search.MinSimilarity != 0.5 {
		t.Errorf("min_similarity = %g, want 0.5", cfg.Search.MinSimilarity)
	}
	if cfg.Search.MaxVariants != 3 {
		t.Errorf("max_variants = %d, want 3", cfg.Search.MaxVariants)
	}
	if cfg.Search.CandidateLimit != 50 {
		t.Errorf("candidate_limit = %d, want 50", cfg.Search.CandidateLimit)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("model = %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1536 {
		t.Errorf("dimensions = %d, want 1536", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.CacheTTLSec != 3600 {
		t.Errorf("cache_ttl_sec = %d, want 3600", cfg.Embedding.CacheTTLSec)
	}
	if cfg.Telemetry.Stream != "relevance:telemetry" {
		t.Errorf("stream = %q", cfg.Telemetry.Stream)
	}
	if cfg.Telemetry.MaxLen != 100000 {
		t.Errorf("max_len = %d, want 100000", cfg.Telemetry.MaxLen)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.Search.RRFK = 20
	cfg.Search.CandidateLimit = 10
	cfg.ApplyDefaults()

	if cfg.Search.RRFK != 20 {
		t.Errorf("rrf_k = %d, want 20", cfg.Search.RRFK)
	}
	if cfg.Search.CandidateLimit != 10 {
		t.Errorf("candidate_limit = %d, want 10", cfg.Search.CandidateLimit)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("RELEVANCE_TEST_ADDR", "redis-prod:6379")

	in := []byte("addr: ${RELEVANCE_TEST_ADDR}\nport: ${RELEVANCE_TEST_PORT:-8080}\n")
	out := string(expandEnvVars(in))

	want := "addr: redis-prod:6379\nport: 8080\n"
	if out != want {
		t.Errorf("expanded = %q, want %q", out, want)
	}
}

func TestExpandEnvVars_SetVarBeatsDefault(t *testing.T) {
	t.Setenv("RELEVANCE_TEST_PORT", "9090")

	out := string(expandEnvVars([]byte("port: ${RELEVANCE_TEST_PORT:-8080}")))
	if out != "port: 9090" {
		t.Errorf("expanded = %q, want port: 9090", out)
	}
}

func TestExpandEnvVars_UnsetWithoutDefault(t *testing.T) {
	out := string(expandEnvVars([]byte("key: ${RELEVANCE_TEST_UNSET_VAR}")))
	if out != "key: " {
		t.Errorf("expanded = %q, want empty substitution", out)
	}
}

func TestGetEnv_Default(t *testing.T) {
	t.Setenv("ENV", "")
	if env := GetEnv(); env != "local" {
		t.Errorf("env = %q, want local", env)
	}

	t.Setenv("ENV", "prod")
	if env := GetEnv(); env != "prod" {
		t.Errorf("env = %q, want prod", env)
	}
}
