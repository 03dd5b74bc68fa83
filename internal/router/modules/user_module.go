package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devstack-id/fullstack-api/internal/container"
	"github.com/devstack-id/fullstack-api/internal/domain/repository"
	handlers "github.com/devstack-id/fullstack-api/internal/interface/http"
	"github.com/devstack-id/fullstack-api/internal/interface/middleware"
	"github.com/devstack-id/fullstack-api/pkg/helpers"
)

// UserModule wires profile routes and the superuser administration routes.
// Protected: GET/PATCH /api/users/me, POST /api/users/me/avatar
// Superuser: GET/POST /api/users, GET /api/users/search, GET/PATCH/DELETE /api/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, users repository.UserRepository, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUser(), nil),
	)
	{
		auth.GET("/me", m.Handler.Me)
		auth.PATCH("/me", m.Handler.UpdateMe)
		auth.POST("/me/avatar", m.Handler.UploadAvatar)
	}

	admin := rg.Group("/users")
	admin.Use(middleware.Auth(m.Users, m.JWT), middleware.RequireSuperuser())
	{
		admin.GET("", m.Handler.List)
		admin.POST("", m.Handler.Create)
		admin.GET("/search", m.Handler.Search)
		admin.GET("/:id", m.Handler.Get)
		admin.PATCH("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}
