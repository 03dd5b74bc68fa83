package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devstack-id/fullstack-api/internal/domain/entity"
	"github.com/devstack-id/fullstack-api/internal/domain/repository"
)

var itemMapper = Mapper[entity.Item]{
	Table: "items",
	Columns: []string{
		"id", "owner_id", "title", "description", "created_at", "updated_at",
	},
	Scan: func(row pgx.Row) (*entity.Item, error) {
		it := &entity.Item{}
		if err := row.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		return it, nil
	},
}

type ItemRepository struct {
	store *Store[entity.Item]
}

func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{store: NewStore(pool, itemMapper)}
}

// Create persists a new item under it.OwnerID (the "create with owner"
// specialization) and fills in the generated id and timestamps.
func (r *ItemRepository) Create(ctx context.Context, it *entity.Item) error {
	rec, err := r.store.Insert(ctx,
		[]string{"owner_id", "title", "description"},
		[]any{it.OwnerID, it.Title, it.Description})
	if err != nil {
		return err
	}
	*it = *rec
	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.store.GetByID(ctx, id)
}

func (r *ItemRepository) List(ctx context.Context, ownerID string, offset, limit int) ([]*entity.Item, int64, error) {
	var filter map[string]any
	if ownerID != "" {
		filter = map[string]any{"owner_id": ownerID}
	}
	return r.store.List(ctx, filter, offset, limit)
}

func (r *ItemRepository) Update(ctx context.Context, id string, changes map[string]any) (*entity.Item, error) {
	return r.store.UpdateByID(ctx, id, changes)
}

func (r *ItemRepository) Delete(ctx context.Context, id string) (*entity.Item, error) {
	return r.store.DeleteByID(ctx, id)
}

var _ repository.ItemRepository = (*ItemRepository)(nil)
