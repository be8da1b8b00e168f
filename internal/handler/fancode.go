package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"stream-proxy-go/internal/resolver"
	"stream-proxy-go/internal/service"
)

const noStore = "no-cache, no-store, must-revalidate"

// FancodeHandler proxies the FanCode JSON API.
type FancodeHandler struct {
	service *service.FancodeService
	logger  *slog.Logger
}

// NewFancodeHandler creates a FancodeHandler.
func NewFancodeHandler(svc *service.FancodeService, logger *slog.Logger) *FancodeHandler {
	return &FancodeHandler{
		service: svc,
		logger:  logger.With("component", "fancode_handler"),
	}
}

// Handle forwards the wildcard path to the FanCode API. Every failure,
// including an upstream refusal, is reported as a 500 JSON error.
func (h *FancodeHandler) Handle(c echo.Context) error {
	req := c.Request()
	segs := resolver.Segments(c.Param("*"))

	resp, err := h.service.Forward(req.Context(), req.Method, segs, req.Header.Get(echo.HeaderContentType), req.Body)
	if err != nil {
		h.logger.Error("fancode api proxy error", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch from FanCode API",
		})
	}
	defer func() { _ = resp.Body.Close() }()

	header := c.Response().Header()
	for key, vals := range resp.Header {
		for _, v := range vals {
			header.Add(key, v)
		}
	}
	if header.Get(echo.HeaderContentType) == "" {
		header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	header.Set("Cache-Control", noStore)
	c.Response().WriteHeader(resp.StatusCode)

	if _, err := service.Stream(c.Response(), resp.Body); err != nil {
		h.logger.Warn("fancode api relay interrupted", "err", err)
	}
	return nil
}
