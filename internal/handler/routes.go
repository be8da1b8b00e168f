package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// streamMethods are the methods accepted by relay routes. OPTIONS never
// reaches them; the CORS middleware answers preflights first.
var streamMethods = []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}

// RegisterRoutes wires all route handlers onto the Echo instance.
func RegisterRoutes(e *echo.Echo, stream *StreamHandler, fancode *FancodeHandler, external *ExternalHandler, health *HealthHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/proxy/status", health.Status)

	e.Match(streamMethods, "/api/stream", stream.Handle)
	e.Match(streamMethods, "/api/stream/*", stream.Handle)
	e.Match(streamMethods, "/api/fancode/*", fancode.Handle)
	e.Match([]string{http.MethodGet, http.MethodOptions}, "/api/fancode-external", external.Handle)
}
