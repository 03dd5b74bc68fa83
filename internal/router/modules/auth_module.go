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

// AuthModule wires the public authentication endpoints.
// POST /api/login, /api/refresh, /api/signup,
// /api/password-recovery, /api/password-reset
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, users repository.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)
	signupLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	recoverLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/password-recovery", recoverLimiter, m.Handler.RecoverPassword)
	rg.POST("/password-reset", resetLimiter, m.Handler.ResetPassword)
}
