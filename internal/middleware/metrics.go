package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"stream-proxy-go/internal/metrics"
)

// HeaderProxyError names the failure class on relay error responses.
const HeaderProxyError = "X-Proxy-Error"

// MetricsMiddleware returns an Echo middleware that records request count,
// latency and in-flight gauge for each inbound request, plus a relay failure
// counter keyed by the X-Proxy-Error class and resolved provider.
// Latency covers the whole relayed body, not just time to first byte.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			err := next(c)

			// An *echo.HTTPError has not been written yet; Echo's error
			// handler writes it after we return.
			statusCode := c.Response().Status
			var he *echo.HTTPError
			if err != nil && errors.As(err, &he) {
				statusCode = he.Code
			}

			status := strconv.Itoa(statusCode)
			method := metrics.NormalizeMethod(c.Request().Method)
			path := metrics.NormalizePath(c.Request().URL.Path)

			m.RequestsTotal.WithLabelValues(method, status, path).Inc()
			m.RequestDuration.WithLabelValues(method, status, path).Observe(time.Since(start).Seconds())

			if class := c.Response().Header().Get(HeaderProxyError); class != "" {
				provider, _ := c.Get(ContextKeyProvider).(string)
				if provider == "" {
					provider = "none"
				}
				m.ProxyErrors.WithLabelValues(class, provider).Inc()
			}

			return err
		}
	}
}
