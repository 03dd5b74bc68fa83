package application

import (
	"context"
	"fmt"
	"time"

	"github.com/devstack-id/fullstack-api/internal/domain"
	"github.com/devstack-id/fullstack-api/internal/domain/entity"
)

// In-memory repositories mirroring the Postgres behavior closely enough for
// service-level tests: insertion order listing, partial updates via the
// changes map, and sentinel errors on missing rows.

type fakeUserRepo struct {
	seq   int
	users []*entity.User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{} }

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, e := range r.users {
		if e.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*entity.User, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	total := int64(len(r.users))
	if offset >= len(r.users) {
		return []*entity.User{}, total, nil
	}
	end := offset + limit
	if end > len(r.users) {
		end = len(r.users)
	}
	out := make([]*entity.User, 0, end-offset)
	for _, u := range r.users[offset:end] {
		cp := *u
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id string, changes map[string]any) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID != id {
			continue
		}
		for k, v := range changes {
			switch k {
			case "email":
				u.Email = v.(string)
			case "full_name":
				u.FullName = v.(string)
			case "hashed_password":
				u.HashedPassword = v.(string)
			case "avatar_url":
				u.AvatarURL = v.(string)
			case "is_active":
				u.IsActive = v.(bool)
			case "is_superuser":
				u.IsSuperuser = v.(bool)
			default:
				return nil, fmt.Errorf("unexpected column %q", k)
			}
		}
		u.UpdatedAt = time.Now().UTC()
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) (*entity.User, error) {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeItemRepo struct {
	seq   int
	items []*entity.Item
}

func newFakeItemRepo() *fakeItemRepo { return &fakeItemRepo{} }

func (r *fakeItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.seq++
	it.ID = fmt.Sprintf("item-%d", r.seq)
	it.CreatedAt = time.Now().UTC()
	it.UpdatedAt = it.CreatedAt
	cp := *it
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeItemRepo) List(_ context.Context, ownerID string, offset, limit int) ([]*entity.Item, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	matched := make([]*entity.Item, 0, len(r.items))
	for _, it := range r.items {
		if ownerID == "" || it.OwnerID == ownerID {
			matched = append(matched, it)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []*entity.Item{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]*entity.Item, 0, end-offset)
	for _, it := range matched[offset:end] {
		cp := *it
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *fakeItemRepo) Update(_ context.Context, id string, changes map[string]any) (*entity.Item, error) {
	for _, it := range r.items {
		if it.ID != id {
			continue
		}
		for k, v := range changes {
			switch k {
			case "title":
				it.Title = v.(string)
			case "description":
				it.Description = v.(string)
			default:
				return nil, fmt.Errorf("unexpected column %q", k)
			}
		}
		it.UpdatedAt = time.Now().UTC()
		cp := *it
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeItemRepo) Delete(_ context.Context, id string) (*entity.Item, error) {
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return it, nil
		}
	}
	return nil, domain.ErrNotFound
}
