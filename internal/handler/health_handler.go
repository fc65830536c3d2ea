package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health answers GET /healthz, returning 503 when storage is unreachable.
func Health(storage Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := storage.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "health check failed", "error", err)
			return Error(c, http.StatusServiceUnavailable, "storage unavailable")
		}
		return Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	}
}
