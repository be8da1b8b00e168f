package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CORS header values. The proxy is deliberately open to any origin.
const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "*"
	corsExpose       = "*"
	corsMaxAge       = "86400"
)

// CORS returns an Echo middleware that stamps the permissive CORS header set
// on every response and answers preflight requests with 204 before any
// route handler runs. Headers are set before calling next so that error
// responses written later by Echo's error handler carry them too.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, corsAllowOrigin)
			h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
			h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)

			if c.Request().Method == http.MethodOptions {
				h.Set(echo.HeaderAccessControlMaxAge, corsMaxAge)
				return c.NoContent(http.StatusNoContent)
			}

			h.Set(echo.HeaderAccessControlExposeHeaders, corsExpose)
			return next(c)
		}
	}
}
