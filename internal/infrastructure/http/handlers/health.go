// Package handlers serves the operational probes.
package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

const probeTimeout = 3 * time.Second

// PingFunc adapts a plain function to ports.Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler answers the liveness probe with the process uptime.
type HealthHandler struct {
	startedAt time.Time
	now       func() time.Time
}

func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, now: time.Now}
}

type livenessResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

// Liveness godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  livenessResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, livenessResponse{
		Status:        "ok",
		UptimeSeconds: int64(h.now().Sub(h.startedAt).Seconds()),
	})
}

// ReadinessHandler pings every backend in parallel. One failing probe makes
// the instance unready.
type ReadinessHandler struct {
	probes map[string]ports.Pinger
}

func NewReadinessHandler(probes map[string]ports.Pinger) *ReadinessHandler {
	return &ReadinessHandler{probes: probes}
}

type probeResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                 `json:"status"`
	Dependencies map[string]probeResult `json:"dependencies"`
}

// Readiness godoc
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]probeResult, len(h.probes))
		healthy = true
	)
	for name, probe := range h.probes {
		wg.Add(1)
		go func(name string, probe ports.Pinger) {
			defer wg.Done()
			start := time.Now()
			err := probe.Ping(ctx)
			res := probeResult{Status: "ok", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				res.Status, res.Error = "unhealthy", err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			results[name] = res
			if err != nil {
				healthy = false
			}
		}(name, probe)
	}
	wg.Wait()

	resp := readinessResponse{Status: "ok", Dependencies: results}
	if !healthy {
		resp.Status = "degraded"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
