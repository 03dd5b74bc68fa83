package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devstack-id/fullstack-api/internal/domain"
	"github.com/devstack-id/fullstack-api/internal/domain/entity"
)

func newItemService() (*ItemService, *fakeItemRepo) {
	r := newFakeItemRepo()
	return NewItemService(r, nil), r
}

func strptr(s string) *string { return &s }

func TestItemCreateEchoesFieldsAndOwner(t *testing.T) {
	svc, _ := newItemService()
	caller := &entity.User{ID: "u-1"}

	it, err := svc.Create(context.Background(), caller, CreateItemInput{
		Title:       "laptop",
		Description: "work machine",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, it.ID)
	assert.Equal(t, "u-1", it.OwnerID)
	assert.Equal(t, "laptop", it.Title)
	assert.Equal(t, "work machine", it.Description)
	assert.False(t, it.CreatedAt.IsZero())
}

func TestItemGetDeniedForNonOwner(t *testing.T) {
	svc, _ := newItemService()
	owner := &entity.User{ID: "u-1"}
	stranger := &entity.User{ID: "u-2"}

	it, err := svc.Create(context.Background(), owner, CreateItemInput{Title: "secret"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), stranger, it.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	got, err := svc.Get(context.Background(), owner, it.ID)
	require.NoError(t, err)
	assert.Equal(t, it.ID, got.ID)
}

func TestItemGetAllowedForSuperuser(t *testing.T) {
	svc, _ := newItemService()
	owner := &entity.User{ID: "u-1"}
	admin := &entity.User{ID: "u-9", IsSuperuser: true}

	it, err := svc.Create(context.Background(), owner, CreateItemInput{Title: "anything"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), admin, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.OwnerID)
}

func TestItemUpdateOnlyTouchesSuppliedFields(t *testing.T) {
	svc, _ := newItemService()
	owner := &entity.User{ID: "u-1"}

	it, err := svc.Create(context.Background(), owner, CreateItemInput{
		Title:       "original",
		Description: "keep me",
	})
	require.NoError(t, err)

	upd, err := svc.Update(context.Background(), owner, it.ID, UpdateItemInput{Title: strptr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", upd.Title)
	assert.Equal(t, "keep me", upd.Description)

	// Explicit empty string is a real change, not an omission.
	upd, err = svc.Update(context.Background(), owner, it.ID, UpdateItemInput{Description: strptr("")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", upd.Title)
	assert.Equal(t, "", upd.Description)
}

func TestItemUpdateDeniedForNonOwner(t *testing.T) {
	svc, _ := newItemService()
	owner := &entity.User{ID: "u-1"}
	stranger := &entity.User{ID: "u-2"}

	it, err := svc.Create(context.Background(), owner, CreateItemInput{Title: "mine"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), stranger, it.ID, UpdateItemInput{Title: strptr("stolen")})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	got, err := svc.Get(context.Background(), owner, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
}

func TestItemDeleteThenGetNotFound(t *testing.T) {
	svc, _ := newItemService()
	owner := &entity.User{ID: "u-1"}

	it, err := svc.Create(context.Background(), owner, CreateItemInput{Title: "short lived"})
	require.NoError(t, err)

	removed, err := svc.Delete(context.Background(), owner, it.ID)
	require.NoError(t, err)
	assert.Equal(t, it.ID, removed.ID)

	_, err = svc.Get(context.Background(), owner, it.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Delete(context.Background(), owner, it.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemListScopedToOwner(t *testing.T) {
	svc, _ := newItemService()
	alice := &entity.User{ID: "u-1"}
	bob := &entity.User{ID: "u-2"}
	admin := &entity.User{ID: "u-9", IsSuperuser: true}

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), alice, CreateItemInput{Title: fmt.Sprintf("a%d", i)})
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Create(context.Background(), bob, CreateItemInput{Title: fmt.Sprintf("b%d", i)})
		require.NoError(t, err)
	}

	items, total, err := svc.List(context.Background(), alice, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, it := range items {
		assert.Equal(t, "u-1", it.OwnerID)
	}

	_, total, err = svc.List(context.Background(), admin, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}

func TestItemListPagination(t *testing.T) {
	svc, _ := newItemService()
	owner := &entity.User{ID: "u-1"}

	for i := 0; i < 15; i++ {
		_, err := svc.Create(context.Background(), owner, CreateItemInput{Title: fmt.Sprintf("item %02d", i)})
		require.NoError(t, err)
	}

	page1, total, err := svc.List(context.Background(), owner, 0, 10)
	require.NoError(t, err)
	assert.Len(t, page1, 10)
	assert.Equal(t, int64(15), total)

	page2, total, err := svc.List(context.Background(), owner, 10, 10)
	require.NoError(t, err)
	assert.Len(t, page2, 5)
	assert.Equal(t, int64(15), total)

	// No overlap between pages.
	seen := map[string]bool{}
	for _, it := range page1 {
		seen[it.ID] = true
	}
	for _, it := range page2 {
		assert.False(t, seen[it.ID])
	}
}

func TestItemLifecycleAcrossUsers(t *testing.T) {
	svc, _ := newItemService()
	owner := &entity.User{ID: "u-1"}
	stranger := &entity.User{ID: "u-2"}
	admin := &entity.User{ID: "u-9", IsSuperuser: true}
	ctx := context.Background()

	it, err := svc.Create(ctx, owner, CreateItemInput{Title: "ledger", Description: "q3"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "ledger", got.Title)

	_, err = svc.Get(ctx, stranger, it.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = svc.Delete(ctx, admin, it.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, owner, it.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
