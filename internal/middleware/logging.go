// Package middleware provides Echo middleware for CORS, logging, metrics and security.
package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// ContextKeyProvider is the echo.Context key under which route handlers
// record the provider rule that served the request.
const ContextKeyProvider = "provider"

// RequestLogger returns an Echo middleware that logs each request with slog.
// The query string is never logged; stream URLs carry signed tokens.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
				"remote_ip", c.RealIP(),
				"bytes_out", res.Size,
			}
			if provider, ok := c.Get(ContextKeyProvider).(string); ok {
				attrs = append(attrs, "provider", provider)
			}
			logger.Info("request", attrs...)

			return err
		}
	}
}
