package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/giftlane/relevance/internal/db"
	"github.com/giftlane/relevance/internal/domain"
	"github.com/giftlane/relevance/internal/domain/item"
)

// ItemKeyPrefix prefixes every catalog item hash key.
var ItemKeyPrefix = domain.KeyPrefix + "item:"

// IndexName is the FT index over catalog items.
var IndexName = domain.KeyPrefix + "catalog:idx"

// store is the consumer interface for catalog persistence.
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig tunes the vector index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo persists catalog items as Redis hashes under a single FT index.
type Repo struct {
	store     store
	vectorDim int
	hnsw      HNSWConfig
}

// New creates a catalog repository.
func New(s store, vectorDim int) *Repo {
	return &Repo{store: s, vectorDim: vectorDim}
}

// WithHNSW overrides HNSW build parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// EnsureIndex creates the catalog FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := db.NewIndex(IndexName).
		Prefix(ItemKeyPrefix).
		Text(fieldText).
		Tag(fieldCategory).
		Numeric(fieldPrice).
		VectorHNSW(fieldVector, r.vectorDim, db.DistanceCosine, r.hnsw.M, r.hnsw.EFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build catalog index: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create catalog index: %w", err)
	}
	return nil
}

// Upsert stores an item, replacing any previous version.
func (r *Repo) Upsert(ctx context.Context, it *item.Item) error {
	if len(it.Vector()) > 0 && len(it.Vector()) != r.vectorDim {
		return fmt.Errorf("%w: item %s has dim %d, index expects %d",
			domain.ErrVectorDimMismatch, it.ID(), len(it.Vector()), r.vectorDim)
	}

	if err := r.store.HSet(ctx, ItemKeyPrefix+it.ID(), itemToHash(it)); err != nil {
		return fmt.Errorf("upsert item %s: %w", it.ID(), err)
	}
	return nil
}

// Get fetches one item by id.
func (r *Repo) Get(ctx context.Context, id string) (item.Item, error) {
	fields, err := r.store.HGetAll(ctx, ItemKeyPrefix+id)
	if err != nil {
		return item.Item{}, fmt.Errorf("get item %s: %w", id, err)
	}
	if len(fields) == 0 {
		return item.Item{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return hashToItem(id, fields)
}

// Delete removes an item. Deleting a missing item returns ErrItemNotFound.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := ItemKeyPrefix + id
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check item %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}
