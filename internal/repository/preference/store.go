package preference

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/giftlane/relevance/internal/db"
	"github.com/giftlane/relevance/internal/domain"
)

var prefKeyPrefix = domain.KeyPrefix + "pref:"

// kv is the consumer interface for preference persistence.
type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store holds one aggregate "taste" embedding per user. Most users have
// none; a miss is a normal outcome, not an error.
type Store struct {
	kv kv
}

// New creates a preference store.
func New(kv kv) *Store {
	return &Store{kv: kv}
}

// Get returns the user's preference embedding. ok=false means no
// personalization signal exists for this user.
func (s *Store) Get(ctx context.Context, userID string) ([]float32, bool, error) {
	data, err := s.kv.Get(ctx, prefKeyPrefix+userID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get preference %s: %w", userID, err)
	}

	vec, err := bytesToVector(data)
	if err != nil {
		return nil, false, fmt.Errorf("parse preference %s: %w", userID, err)
	}
	return vec, true, nil
}

// Set stores the user's preference embedding.
func (s *Store) Set(ctx context.Context, userID string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: preference embedding is empty", domain.ErrValidation)
	}
	if err := s.kv.Set(ctx, prefKeyPrefix+userID, vectorToBytes(vec)); err != nil {
		return fmt.Errorf("set preference %s: %w", userID, err)
	}
	return nil
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid preference data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
