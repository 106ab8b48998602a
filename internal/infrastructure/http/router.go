// Package http mounts the operational endpoints shared by every deployment.
package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/ports"
	"github.com/diecastgarage/storefront/internal/infrastructure/http/handlers"
)

// RegisterHealth mounts /health (liveness) and /health/ready (readiness)
// ahead of the auth and session middleware.
func RegisterHealth(e *echo.Echo, probes map[string]ports.Pinger) {
	e.GET("/health", handlers.NewHealthHandler(time.Now()).Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(probes).Readiness)
}
