package repository

import (
	"context"

	"github.com/devstack-id/fullstack-api/internal/domain/entity"
)

// ItemRepository defines persistence operations for items. List filters by
// owner when ownerID is non-empty; superuser callers pass "" for all rows.
type ItemRepository interface {
	Create(ctx context.Context, it *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, ownerID string, offset, limit int) ([]*entity.Item, int64, error)
	Update(ctx context.Context, id string, changes map[string]any) (*entity.Item, error)
	Delete(ctx context.Context, id string) (*entity.Item, error)
}
