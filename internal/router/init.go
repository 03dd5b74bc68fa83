package router

import (
	"github.com/devstack-id/fullstack-api/internal/application"
	"github.com/devstack-id/fullstack-api/internal/container"
	pginfra "github.com/devstack-id/fullstack-api/internal/infrastructure/postgres"
	handlers "github.com/devstack-id/fullstack-api/internal/interface/http"
	"github.com/devstack-id/fullstack-api/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	pool := container.GetPGPool()
	logger := container.GetLogger()
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(pool)
	itemRepo := pginfra.NewItemRepository(pool)

	userSvc := application.NewUserService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		logger,
		container.GetRabbitPub(),
		cfg,
		container.GetGCS(),
		container.GetES(),
	)
	itemSvc := application.NewItemService(itemRepo, logger)

	authHandler := handlers.NewAuthHandler(userSvc, logger)
	userHandler := handlers.NewUserHandler(userSvc, logger)
	itemHandler := handlers.NewItemHandler(itemSvc, logger)
	utilsHandler := handlers.NewUtilsHandler(container.GetRabbitPub(), logger, cfg)

	r.Add(modules.NewAuthModule(authHandler, userRepo, container.GetJWT()))
	r.Add(modules.NewUserModule(userHandler, userRepo, container.GetJWT()))
	r.Add(modules.NewItemModule(itemHandler, userRepo, container.GetJWT()))
	r.Add(modules.NewUtilsModule(utilsHandler, userRepo, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
