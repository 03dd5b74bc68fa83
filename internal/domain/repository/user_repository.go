package repository

import (
	"context"

	"github.com/devstack-id/fullstack-api/internal/domain/entity"
)

// UserRepository defines persistence operations for users.
// Update applies only the supplied columns; absent keys are left untouched.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, offset, limit int) ([]*entity.User, int64, error)
	Update(ctx context.Context, id string, changes map[string]any) (*entity.User, error)
	Delete(ctx context.Context, id string) (*entity.User, error)
}
