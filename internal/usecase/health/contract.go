package health

import "context"

// DBPinger reports whether the Redis store behind the search indexes and the
// embedding cache is reachable. Satisfied by the db layer's Store.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker reports whether the embedding provider answers. Probing it
// costs a real API call, so wiring one in is optional.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
