package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devstack-id/fullstack-api/internal/application"
	"github.com/devstack-id/fullstack-api/internal/domain"
	"github.com/devstack-id/fullstack-api/internal/domain/entity"
	"github.com/devstack-id/fullstack-api/internal/interface/middleware"
	"github.com/devstack-id/fullstack-api/pkg/response"
	"github.com/devstack-id/fullstack-api/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	m.Run()
}

// memItemRepo keeps items in insertion order, applying changes maps the same
// way the Postgres store does.
type memItemRepo struct {
	seq   int
	items []*entity.Item
}

func (r *memItemRepo) Create(_ context.Context, it *entity.Item) error {
	r.seq++
	it.ID = fmt.Sprintf("item-%d", r.seq)
	it.CreatedAt = time.Now().UTC()
	it.UpdatedAt = it.CreatedAt
	cp := *it
	r.items = append(r.items, &cp)
	return nil
}

func (r *memItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memItemRepo) List(_ context.Context, ownerID string, offset, limit int) ([]*entity.Item, int64, error) {
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
	return matched[offset:end], total, nil
}

func (r *memItemRepo) Update(_ context.Context, id string, changes map[string]any) (*entity.Item, error) {
	for _, it := range r.items {
		if it.ID != id {
			continue
		}
		if v, ok := changes["title"]; ok {
			it.Title = v.(string)
		}
		if v, ok := changes["description"]; ok {
			it.Description = v.(string)
		}
		it.UpdatedAt = time.Now().UTC()
		cp := *it
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memItemRepo) Delete(_ context.Context, id string) (*entity.Item, error) {
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return it, nil
		}
	}
	return nil, domain.ErrNotFound
}

// asUser injects the caller the way Auth does after token validation.
func asUser(u *entity.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxCallerKey, u)
		c.Next()
	}
}

func newItemRig(caller *entity.User) (*gin.Engine, *memItemRepo) {
	repo := &memItemRepo{}
	h := NewItemHandler(application.NewItemService(repo, nil), nil)

	r := gin.New()
	g := r.Group("/api/items", asUser(caller))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r, repo
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestItemCreateEndpoint(t *testing.T) {
	r, _ := newItemRig(&entity.User{ID: "u-1", IsActive: true})

	w := doJSON(r, http.MethodPost, "/api/items", `{"title":"laptop","description":"work"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var it ItemPublic
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &it))
	assert.NotEmpty(t, it.ID)
	assert.Equal(t, "u-1", it.OwnerID)
	assert.Equal(t, "laptop", it.Title)
	assert.Equal(t, "work", it.Description)
}

func TestItemCreateValidation(t *testing.T) {
	r, _ := newItemRig(&entity.User{ID: "u-1", IsActive: true})

	w := doJSON(r, http.MethodPost, "/api/items", `{"description":"no title"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var d response.Detail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, "title: is required", d.Detail)
}

func TestItemGetForeignIsForbidden(t *testing.T) {
	owner := &entity.User{ID: "u-1", IsActive: true}
	r, repo := newItemRig(&entity.User{ID: "u-2", IsActive: true})

	it := &entity.Item{OwnerID: owner.ID, Title: "secret"}
	require.NoError(t, repo.Create(context.Background(), it))

	w := doJSON(r, http.MethodGet, "/api/items/"+it.ID, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"permission denied"}`, w.Body.String())
}

func TestItemGetMissingIsNotFound(t *testing.T) {
	r, _ := newItemRig(&entity.User{ID: "u-1", IsActive: true})
	w := doJSON(r, http.MethodGet, "/api/items/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemListEnvelope(t *testing.T) {
	caller := &entity.User{ID: "u-1", IsActive: true}
	r, repo := newItemRig(caller)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(),
			&entity.Item{OwnerID: "u-1", Title: fmt.Sprintf("mine %d", i)}))
	}
	require.NoError(t, repo.Create(context.Background(),
		&entity.Item{OwnerID: "u-9", Title: "someone else's"}))

	w := doJSON(r, http.MethodGet, "/api/items?offset=1&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var out response.List[ItemPublic]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, int64(3), out.Count)
	assert.Len(t, out.Data, 2)
	for _, it := range out.Data {
		assert.Equal(t, "u-1", it.OwnerID)
	}
}

func TestItemUpdatePartial(t *testing.T) {
	caller := &entity.User{ID: "u-1", IsActive: true}
	r, repo := newItemRig(caller)

	it := &entity.Item{OwnerID: "u-1", Title: "before", Description: "keep"}
	require.NoError(t, repo.Create(context.Background(), it))

	w := doJSON(r, http.MethodPut, "/api/items/"+it.ID, `{"title":"after"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got ItemPublic
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "keep", got.Description)
}

func TestItemDeleteReturnsRecordThen404(t *testing.T) {
	caller := &entity.User{ID: "u-1", IsActive: true}
	r, repo := newItemRig(caller)

	it := &entity.Item{OwnerID: "u-1", Title: "short lived"}
	require.NoError(t, repo.Create(context.Background(), it))

	w := doJSON(r, http.MethodDelete, "/api/items/"+it.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got ItemPublic
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, it.ID, got.ID)

	w = doJSON(r, http.MethodDelete, "/api/items/"+it.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		query         string
		offset, limit int
	}{
		{"", 0, 100},
		{"?offset=10&limit=5", 10, 5},
		{"?offset=-3", 0, 100},
		{"?limit=0", 0, 100},
		{"?limit=5000", 0, 100},
		{"?offset=abc&limit=xyz", 0, 100},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/api/items"+tc.query, nil)
		offset, limit := pageParams(c)
		assert.Equal(t, tc.offset, offset, tc.query)
		assert.Equal(t, tc.limit, limit, tc.query)
	}
}
