package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"stream-proxy-go/internal/client"
	"stream-proxy-go/internal/config"
	"stream-proxy-go/internal/middleware"
	"stream-proxy-go/internal/resolver"
	"stream-proxy-go/internal/service"
)

// fakeUpstream answers every upstream request with fn and counts calls.
type fakeUpstream struct {
	calls atomic.Int32
	fn    func(*http.Request) (*http.Response, error)
}

func (f *fakeUpstream) Do(r *http.Request) (*http.Response, error) {
	f.calls.Add(1)
	return f.fn(r)
}

func respond(status int, header http.Header, body string) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{StatusCode: status, Header: header, Body: io.NopCloser(strings.NewReader(body))}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires every route over up with the same CORS and recovery
// middleware the server uses.
func newTestServer(t *testing.T, up client.Doer) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Fancode:  config.FancodeConfig{APIBaseURL: "https://www.fancode.com/api"},
		External: config.ExternalConfig{FeedURL: "https://feed.example.net/Fancode/"},
	}
	logger := discardLogger()
	uc := client.NewUpstreamClientWithDoer(up, 0, logger, nil)

	streamSvc := service.NewStreamService(resolver.New(""), uc, nil, logger)
	fancodeSvc := service.NewFancodeService(uc, cfg, logger)
	externalSvc, err := service.NewExternalFeedService(uc, cfg, logger)
	if err != nil {
		t.Fatalf("NewExternalFeedService: %v", err)
	}

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(echomw.Recover())
	RegisterRoutes(e,
		NewStreamHandler(streamSvc, logger),
		NewFancodeHandler(fancodeSvc, logger),
		NewExternalHandler(externalSvc, logger),
		NewHealthHandler(streamSvc, "test"),
	)
	return e
}
