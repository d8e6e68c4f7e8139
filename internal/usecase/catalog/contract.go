package catalog

import (
	"context"

	"github.com/giftlane/relevance/internal/domain/item"
)

// Repository defines the storage contract for catalog items.
type Repository interface {
	Upsert(ctx context.Context, it *item.Item) error
	Get(ctx context.Context, id string) (item.Item, error)
	Delete(ctx context.Context, id string) error
}
