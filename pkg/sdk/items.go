package relevance

import (
	"context"
	"fmt"
	"time"

	"github.com/giftlane/relevance/internal/domain/item"
	cataloguc "github.com/giftlane/relevance/internal/usecase/catalog"
)

// ItemService manages catalog items.
type ItemService struct {
	svc catalogUseCase
	obs *observer
}

// Upsert embeds and stores one item.
func (s *ItemService) Upsert(ctx context.Context, it Item) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("item_upsert", start, err) }()

	if _, err = s.svc.Upsert(ctx, inputFromItem(it)); err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// BatchUpsert embeds all items in one provider call, then stores them.
func (s *ItemService) BatchUpsert(ctx context.Context, items []Item) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("item_batch_upsert", start, err) }()

	inputs := make([]cataloguc.ItemInput, len(items))
	for i, it := range items {
		inputs[i] = inputFromItem(it)
	}
	if _, err = s.svc.BatchUpsert(ctx, inputs); err != nil {
		return fmt.Errorf("batch upsert items: %w", err)
	}
	return nil
}

// Get fetches one item by ID. Returns ErrItemNotFound when missing.
func (s *ItemService) Get(ctx context.Context, id string) (out Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("item_get", start, err) }()

	it, err := s.svc.Get(ctx, id)
	if err != nil {
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	return itemFromDomain(it), nil
}

// Delete removes one item by ID. Returns ErrItemNotFound when missing.
func (s *ItemService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("item_delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// PreferenceService manages per-user preference embeddings used by the
// personalized re-ranking stage.
type PreferenceService struct {
	store preferenceStore
	obs   *observer
}

// Set stores the user's preference embedding.
func (s *PreferenceService) Set(ctx context.Context, userID string, vec []float32) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("preference_set", start, err) }()

	if err = s.store.Set(ctx, userID, vec); err != nil {
		return fmt.Errorf("set preference: %w", err)
	}
	return nil
}

// Get returns the user's preference embedding. ok=false means none exists.
func (s *PreferenceService) Get(ctx context.Context, userID string) (vec []float32, ok bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("preference_get", start, err) }()

	vec, ok, err = s.store.Get(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("get preference: %w", err)
	}
	return vec, ok, nil
}

func inputFromItem(it Item) cataloguc.ItemInput {
	return cataloguc.ItemInput{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Price:       it.Price,
		Category:    it.Category,
	}
}

func itemFromDomain(it item.Item) Item {
	return Item{
		ID:          it.ID(),
		Title:       it.Title(),
		Description: it.Description(),
		Price:       it.Price(),
		Category:    it.Category(),
	}
}
