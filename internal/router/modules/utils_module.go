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

// UtilsModule wires operator endpoints (superuser only).
type UtilsModule struct {
	Handler *handlers.UtilsHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewUtilsModule(h *handlers.UtilsHandler, users repository.UserRepository, jwt *helpers.JWTManager) *UtilsModule {
	return &UtilsModule{Handler: h, Users: users, JWT: jwt}
}

func (m *UtilsModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	utils := rg.Group("/utils")
	utils.Use(middleware.Auth(m.Users, m.JWT), middleware.RequireSuperuser())
	utils.Use(middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByUser(), nil))
	{
		utils.POST("/test-email", m.Handler.TestEmail)
	}
}
