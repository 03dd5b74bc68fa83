package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devstack-id/fullstack-api/internal/domain"
	"github.com/devstack-id/fullstack-api/internal/domain/entity"
	"github.com/devstack-id/fullstack-api/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memUserRepo serves only the lookups Auth performs.
type memUserRepo struct {
	byID map[string]*entity.User
}

func (r *memUserRepo) Create(context.Context, *entity.User) error { return nil }

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) List(context.Context, int, int) ([]*entity.User, int64, error) {
	return nil, 0, nil
}

func (r *memUserRepo) Update(context.Context, string, map[string]any) (*entity.User, error) {
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) Delete(context.Context, string) (*entity.User, error) {
	return nil, domain.ErrNotFound
}

func newAuthRig() (*gin.Engine, *memUserRepo, *helpers.JWTManager) {
	repo := &memUserRepo{byID: map[string]*entity.User{}}
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)

	r := gin.New()
	r.GET("/me", Auth(repo, jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": Caller(c).ID})
	})
	r.GET("/admin", Auth(repo, jwt), RequireSuperuser(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, repo, jwt
}

func do(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	r, _, _ := newAuthRig()
	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"not authenticated"}`, w.Body.String())
}

func TestAuthMalformedHeader(t *testing.T) {
	r, _, _ := newAuthRig()
	for _, h := range []string{"Token abc", "Bearer", "abc"} {
		w := do(r, "/me", h)
		assert.Equal(t, http.StatusUnauthorized, w.Code, h)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	r, _, _ := newAuthRig()
	w := do(r, "/me", "Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"could not validate credentials"}`, w.Body.String())
}

func TestAuthValidToken(t *testing.T) {
	r, repo, jwt := newAuthRig()
	repo.byID["u-1"] = &entity.User{ID: "u-1", IsActive: true}

	token, _, err := jwt.GenerateAccessToken("u-1")
	require.NoError(t, err)

	w := do(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u-1"}`, w.Body.String())

	// Scheme is case-insensitive.
	w = do(r, "/me", "bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthDeletedUser(t *testing.T) {
	r, _, jwt := newAuthRig()
	token, _, err := jwt.GenerateAccessToken("gone")
	require.NoError(t, err)

	w := do(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInactiveUser(t *testing.T) {
	r, repo, jwt := newAuthRig()
	repo.byID["u-1"] = &entity.User{ID: "u-1", IsActive: false}

	token, _, err := jwt.GenerateAccessToken("u-1")
	require.NoError(t, err)

	w := do(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"inactive user"}`, w.Body.String())
}

func TestRequireSuperuser(t *testing.T) {
	r, repo, jwt := newAuthRig()
	repo.byID["u-1"] = &entity.User{ID: "u-1", IsActive: true}
	repo.byID["u-2"] = &entity.User{ID: "u-2", IsActive: true, IsSuperuser: true}

	plain, _, err := jwt.GenerateAccessToken("u-1")
	require.NoError(t, err)
	admin, _, err := jwt.GenerateAccessToken("u-2")
	require.NoError(t, err)

	w := do(r, "/admin", "Bearer "+plain)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"the user doesn't have enough privileges"}`, w.Body.String())

	w = do(r, "/admin", "Bearer "+admin)
	assert.Equal(t, http.StatusOK, w.Code)
}
