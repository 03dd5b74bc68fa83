package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devstack-id/fullstack-api/internal/domain"
	"github.com/devstack-id/fullstack-api/internal/domain/entity"
	"github.com/devstack-id/fullstack-api/internal/domain/repository"
)

var userMapper = Mapper[entity.User]{
	Table: "users",
	Columns: []string{
		"id", "email", "hashed_password", "full_name", "avatar_url",
		"is_active", "is_superuser", "created_at", "updated_at",
	},
	Scan: func(row pgx.Row) (*entity.User, error) {
		u := &entity.User{}
		if err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.AvatarURL,
			&u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		return u, nil
	},
}

type UserRepository struct {
	store *Store[entity.User]
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{store: NewStore(pool, userMapper)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	rec, err := r.store.Insert(ctx,
		[]string{"email", "hashed_password", "full_name", "avatar_url", "is_active", "is_superuser"},
		[]any{u.Email, u.HashedPassword, u.FullName, u.AvatarURL, u.IsActive, u.IsSuperuser})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	*u = *rec
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.store.GetByID(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.store.pool.QueryRow(ctx,
		`SELECT id, email, hashed_password, full_name, avatar_url, is_active, is_superuser, created_at, updated_at
		 FROM users WHERE email = $1`, email)
	u, err := userMapper.Scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]*entity.User, int64, error) {
	return r.store.List(ctx, nil, offset, limit)
}

func (r *UserRepository) Update(ctx context.Context, id string, changes map[string]any) (*entity.User, error) {
	u, err := r.store.UpdateByID(ctx, id, changes)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*entity.User, error) {
	return r.store.DeleteByID(ctx, id)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ repository.UserRepository = (*UserRepository)(nil)
