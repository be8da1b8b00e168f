package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"stream-proxy-go/internal/middleware"
	"stream-proxy-go/internal/model"
	"stream-proxy-go/internal/resolver"
	"stream-proxy-go/internal/service"
)

// legacyErrorBody is the plain-text failure body players already expect.
const legacyErrorBody = "Proxy Error"

// StreamHandler relays manifests and segments from the CDN a path resolves to.
type StreamHandler struct {
	service *service.StreamService
	logger  *slog.Logger
}

// NewStreamHandler creates a StreamHandler.
func NewStreamHandler(svc *service.StreamService, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		service: svc,
		logger:  logger.With("component", "stream_handler"),
	}
}

// Handle resolves the wildcard path to an upstream and streams the response back.
func (h *StreamHandler) Handle(c echo.Context) error {
	req := c.Request()

	pr := &model.ProxyRequest{
		Ctx:      req.Context(),
		Method:   req.Method,
		Segments: resolver.Segments(c.Param("*")),
		RawQuery: req.URL.RawQuery,
		Body:     req.Body,
	}

	target, resp, err := h.service.Forward(pr)
	c.Set(middleware.ContextKeyProvider, target.Provider)
	if err != nil {
		return h.mapError(c, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	for key, vals := range resp.Header {
		for _, v := range vals {
			c.Response().Header().Add(key, v)
		}
	}
	c.Response().WriteHeader(resp.StatusCode)

	// Once the status is sent a mid-stream failure can only truncate the
	// body; the player's retry logic takes it from there.
	n, err := service.Stream(c.Response(), resp.Body)
	h.service.RecordRelayed(target.Provider, n)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, service.ErrClientWrite) || req.Context().Err() != nil {
			level = slog.LevelDebug
		}
		h.logger.Log(req.Context(), level, "stream relay interrupted",
			"err", err,
			"provider", target.Provider,
			"bytes", n,
		)
	}

	return nil
}

// mapError writes the legacy plain-text failure. Upstream refusals keep the
// upstream status code; failures with no upstream response are 500.
func (h *StreamHandler) mapError(c echo.Context, target model.ResolvedTarget, err error) error {
	var statusErr *service.UpstreamStatusError
	if errors.As(err, &statusErr) {
		h.logger.Warn("upstream rejected stream request",
			"provider", target.Provider,
			"profile", target.Profile,
			"status", statusErr.StatusCode,
		)
		c.Response().Header().Set(middleware.HeaderProxyError, "upstream_rejected")
		return c.String(statusErr.StatusCode, legacyErrorBody)
	}

	var netErr *service.NetworkError
	if errors.As(err, &netErr) {
		if netErr.Canceled() {
			h.logger.Debug("client went away before upstream answered", "provider", target.Provider)
		} else {
			h.logger.Error("upstream network failure",
				"err", err,
				"provider", target.Provider,
				"timeout", netErr.Timeout(),
				"dns", netErr.DNS(),
			)
		}
		c.Response().Header().Set(middleware.HeaderProxyError, "network_failure")
		return c.String(http.StatusInternalServerError, legacyErrorBody)
	}

	h.logger.Error("stream proxy error", "err", err, "provider", target.Provider)
	c.Response().Header().Set(middleware.HeaderProxyError, "internal")
	return c.String(http.StatusInternalServerError, legacyErrorBody)
}
