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

// ItemModule wires the owned-resource CRUD routes.
// GET/POST /api/items, GET/PUT/DELETE /api/items/:id, all authenticated.
type ItemModule struct {
	Handler *handlers.ItemHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewItemModule(h *handlers.ItemHandler, users repository.UserRepository, jwt *helpers.JWTManager) *ItemModule {
	return &ItemModule{Handler: h, Users: users, JWT: jwt}
}

func (m *ItemModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	items := rg.Group("/items")
	items.Use(middleware.Auth(m.Users, m.JWT))
	items.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUser(), nil),
	)
	{
		items.GET("", m.Handler.List)
		items.POST("", m.Handler.Create)
		items.GET("/:id", m.Handler.Get)
		items.PUT("/:id", m.Handler.Update)
		items.DELETE("/:id", m.Handler.Delete)
	}
}
