package router

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/accounts/api/internal/config"
	"github.com/octobees/accounts/api/internal/handler"
	middlewarepkg "github.com/octobees/accounts/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Users   *handler.UsersHandler
	Storage handler.Pinger
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", handler.Health(handlers.Storage))

	users := e.Group("/users")
	users.POST("/register", handlers.Users.Register, middlewarepkg.RateLimiter(cfg.RateLimitRegister))
	users.GET("", handlers.Users.List)
	users.GET("/:username", handlers.Users.Get)
}
