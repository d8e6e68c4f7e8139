package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store over an arbitrary rueidis client (mock).
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
