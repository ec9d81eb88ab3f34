package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/veladapass/ticketops/internal/handler"
	"github.com/veladapass/ticketops/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the public event landing endpoint.
func RegisterRoutes(e *echo.Echo, client *handler.ClientHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/event", client.EventInfo)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; the rate limiter
// guards login and registration against credential stuffing on a short
// PIN space. Protected session endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
