package catalog

import (
	"context"
	"fmt"

	"github.com/giftlane/relevance/internal/domain"
	"github.com/giftlane/relevance/internal/domain/item"
)

// ItemInput is the raw payload for a catalog write.
type ItemInput struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Category    string
}

// Service handles catalog item ingestion: each written item is embedded so
// the semantic leg can retrieve it.
type Service struct {
	repo  Repository
	embed domain.Embedder
}

// New creates a catalog service.
func New(repo Repository, embed domain.Embedder) *Service {
	return &Service{repo: repo, embed: embed}
}

// Upsert validates, embeds, and stores one item. An embedding provider
// failure fails the write: an item without a vector would be invisible to
// the semantic leg.
func (s *Service) Upsert(ctx context.Context, in ItemInput) (item.Item, error) {
	if err := validateInput(in); err != nil {
		return item.Item{}, err
	}

	embRes, err := s.embed.Embed(ctx, in.Title+" "+in.Description)
	if err != nil {
		return item.Item{}, fmt.Errorf("embed item %s: %w", in.ID, err)
	}

	it := item.New(in.ID, in.Title, in.Description, in.Price, in.Category, embRes.Embedding)
	if err := s.repo.Upsert(ctx, &it); err != nil {
		return item.Item{}, err
	}
	return it, nil
}

// BatchUpsert embeds all items in one provider call, then stores them.
func (s *Service) BatchUpsert(ctx context.Context, inputs []ItemInput) ([]item.Item, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	for _, in := range inputs {
		if err := validateInput(in); err != nil {
			return nil, err
		}
	}

	texts := make([]string, len(inputs))
	for i, in := range inputs {
		texts[i] = in.Title + " " + in.Description
	}

	var batch domain.BatchEmbeddingResult
	var err error
	if be, ok := s.embed.(domain.BatchEmbedder); ok {
		batch, err = be.BatchEmbed(ctx, texts)
	} else {
		batch, err = domain.BatchFallback(ctx, s.embed, texts)
	}
	if err != nil {
		return nil, fmt.Errorf("batch embed %d items: %w", len(inputs), err)
	}

	items := make([]item.Item, len(inputs))
	for i, in := range inputs {
		it := item.New(in.ID, in.Title, in.Description, in.Price, in.Category, batch.Embeddings[i])
		if err := s.repo.Upsert(ctx, &it); err != nil {
			return nil, err
		}
		items[i] = it
	}
	return items, nil
}

// Get fetches one item.
func (s *Service) Get(ctx context.Context, id string) (item.Item, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes one item.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateInput(in ItemInput) error {
	if in.ID == "" {
		return fmt.Errorf("%w: item id is required", domain.ErrValidation)
	}
	if in.Title == "" {
		return fmt.Errorf("%w: item title is required", domain.ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: item price must be non-negative", domain.ErrValidation)
	}
	return nil
}
