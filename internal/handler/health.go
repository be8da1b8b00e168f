package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stream-proxy-go/internal/service"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	stream  *service.StreamService
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(stream *service.StreamService, v Version) *HealthHandler {
	return &HealthHandler{stream: stream, version: v}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Status reports the build version and the provider rules in match order.
func (h *HealthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": string(h.version),
		"rules":   h.stream.RuleNames(),
	})
}
