package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/devstack-id/fullstack-api/internal/domain/entity"
	repo "github.com/devstack-id/fullstack-api/internal/domain/repository"
)

// ItemService implements owner-scoped CRUD over items. All permission
// decisions for items live here; handlers only translate HTTP.
type ItemService struct {
	Repo   repo.ItemRepository
	Logger *logrus.Logger
}

func NewItemService(r repo.ItemRepository, logger *logrus.Logger) *ItemService {
	return &ItemService{Repo: r, Logger: logger}
}

type CreateItemInput struct {
	Title       string
	Description string
}

// UpdateItemInput uses pointers so an absent field is distinguishable from an
// explicit zero value; only supplied fields are written.
type UpdateItemInput struct {
	Title       *string
	Description *string
}

func (s *ItemService) Create(ctx context.Context, caller *entity.User, in CreateItemInput) (*entity.Item, error) {
	it := &entity.Item{
		OwnerID:     caller.ID,
		Title:       in.Title,
		Description: in.Description,
	}
	if err := s.Repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *ItemService) Get(ctx context.Context, caller *entity.User, id string) (*entity.Item, error) {
	it, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanAccess(caller, it.OwnerID); err != nil {
		return nil, err
	}
	return it, nil
}

// List returns the caller's items; superusers see everything.
func (s *ItemService) List(ctx context.Context, caller *entity.User, offset, limit int) ([]*entity.Item, int64, error) {
	ownerID := caller.ID
	if caller.IsSuperuser {
		ownerID = ""
	}
	return s.Repo.List(ctx, ownerID, offset, limit)
}

func (s *ItemService) Update(ctx context.Context, caller *entity.User, id string, in UpdateItemInput) (*entity.Item, error) {
	it, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanAccess(caller, it.OwnerID); err != nil {
		return nil, err
	}
	changes := map[string]any{}
	if in.Title != nil {
		changes["title"] = *in.Title
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}
	return s.Repo.Update(ctx, id, changes)
}

func (s *ItemService) Delete(ctx context.Context, caller *entity.User, id string) (*entity.Item, error) {
	it, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanAccess(caller, it.OwnerID); err != nil {
		return nil, err
	}
	return s.Repo.Delete(ctx, id)
}
