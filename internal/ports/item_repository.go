package ports

import (
	"context"
	"time"

	"github.com/bnema/shelf/internal/domain"
)

// ItemRepository persists tracked items. An empty titleFilter means no
// filter; a non-empty one matches as a case-insensitive substring.
type ItemRepository interface {
	Insert(ctx context.Context, item domain.TrackedItem) (domain.ItemID, error)
	FindByOwner(ctx context.Context, owner domain.UserID, titleFilter string) ([]domain.TrackedItem, error)
	FindOneByTitleExact(ctx context.Context, owner domain.UserID, title string) (domain.TrackedItem, error)
	GetByID(ctx context.Context, id domain.ItemID) (domain.TrackedItem, error)
	UpdateProgress(ctx context.Context, id domain.ItemID, progress int, savedAt time.Time) error
}
