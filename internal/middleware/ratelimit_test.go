package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// newLimitedEcho mirrors the server chain: CORS outermost, then the limiter.
func newLimitedEcho(rps float64) *echo.Echo {
	e := echo.New()
	e.Use(CORS())
	e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(rps))))
	e.GET("/api/stream/*", func(c echo.Context) error {
		return c.String(http.StatusOK, "segment")
	})
	return e
}

func TestRateLimiter_RejectsWithCORS(t *testing.T) {
	e := newLimitedEcho(1)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stream/fancode/a.ts", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want %d", rec.Code, http.StatusOK)
	}

	var limited *httptest.ResponseRecorder
	for range 10 {
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stream/fancode/a.ts", http.NoBody))
		if rec.Code == http.StatusTooManyRequests {
			limited = rec
			break
		}
	}
	if limited == nil {
		t.Fatal("expected at least one 429 response after burst, got none")
	}
	// Players only see the 429 if the browser lets them read it.
	if got := limited.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
		t.Errorf("429 Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRateLimiter_PreflightNotCounted(t *testing.T) {
	e := newLimitedEcho(1)

	for i := range 5 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/stream/fancode/a.ts", http.NoBody))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("preflight %d: status = %d, want 204", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stream/fancode/a.ts", http.NoBody))
	if rec.Code != http.StatusOK {
		t.Errorf("GET after preflights: status = %d, want %d", rec.Code, http.StatusOK)
	}
}
