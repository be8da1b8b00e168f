package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// hopByHopHeaders are headers that should not be forwarded by proxies.
var hopByHopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// SecurityHeaders returns an Echo middleware that strips hop-by-hop headers,
// including those named in Connection, from the inbound request and adds
// security headers to the response. The response headers are set before the
// handler runs because streamed responses commit their headers early.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqHeader := c.Request().Header
			for _, tokens := range reqHeader.Values("Connection") {
				for _, h := range strings.Split(tokens, ",") {
					if h = strings.TrimSpace(h); h != "" {
						reqHeader.Del(h)
					}
				}
			}
			for _, h := range hopByHopHeaders {
				reqHeader.Del(h)
			}

			c.Response().Header().Set("X-Content-Type-Options", "nosniff")
			c.Response().Header().Set("X-Frame-Options", "DENY")

			return next(c)
		}
	}
}
