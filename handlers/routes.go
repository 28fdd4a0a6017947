package handlers

import (
	"github.com/staffdesk/identity/config"
	"github.com/staffdesk/identity/middleware/ratelimit"
	"github.com/staffdesk/identity/server"
	"github.com/staffdesk/identity/session"
	"go.uber.org/fx"
)

func RegisterRoutes(srv *server.Server, cfg *config.Config, manager *session.Manager, sessionSvc session.Service, verificationHandler *VerificationHandler, authHandler *AuthHandler) {
	srv.Use(session.Middleware(manager))
	srv.Use(session.ServiceMiddleware(sessionSvc))

	api := srv.Group("/api")

	verifyGroup := api.Group("")
	if cfg.RateLimit.Enabled {
		verifyGroup.Use(ratelimit.Middleware(&ratelimit.Config{
			Rate:   cfg.RateLimit.Rate,
			Period: cfg.RateLimit.Period,
		}))
	}
	verifyGroup.POST("/email-verification", verificationHandler.Handle)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me)
	api.GET("/auth/sessions", authHandler.Sessions, session.RequireAuth())
}

var Module = fx.Options(
	fx.Provide(NewVerificationHandler),
	fx.Provide(NewAuthHandler),
	fx.Invoke(RegisterRoutes),
)
