package server

import (
	"go.uber.org/fx"

	"github.com/looplj/modelguard/internal/guard"
	"github.com/looplj/modelguard/internal/server/api"
	"github.com/looplj/modelguard/internal/server/middleware"
)

type Handlers struct {
	fx.In

	Entities *api.EntityHandlers
	Grants   *api.GrantHandlers
}

func SetupRoutes(server *Server, guardConfig guard.Config, handlers Handlers) {
	server.Use(middleware.WithLoggingTracing(server.Config.Trace))
	server.Use(middleware.AccessLog())
	server.Use(middleware.ErrorResponses())
	server.Use(middleware.DenialPage(guardConfig.DenialTemplate))
	server.Use(middleware.WithActorAuth(server.Config.Auth))

	if guardConfig.DenialTemplate != "" {
		server.LoadHTMLFiles(guardConfig.DenialTemplate)
	}

	root := server.Group(server.Config.BasePath)

	v1 := root.Group("/v1", middleware.WithTimeout(server.Config.RequestTimeout))
	handlers.Entities.Register(v1)
	handlers.Grants.Register(v1)
}
