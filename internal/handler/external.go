package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"stream-proxy-go/internal/feed"
	"stream-proxy-go/internal/service"
)

// ExternalHandler serves the scraped third-party match listing.
type ExternalHandler struct {
	service *service.ExternalFeedService
	logger  *slog.Logger
}

// NewExternalHandler creates an ExternalHandler.
func NewExternalHandler(svc *service.ExternalFeedService, logger *slog.Logger) *ExternalHandler {
	return &ExternalHandler{
		service: svc,
		logger:  logger.With("component", "external_handler"),
	}
}

// Handle returns {"matches": [...]} for listing page ?i= (default 1).
func (h *ExternalHandler) Handle(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", noStore)

	matches, err := h.service.Matches(c.Request().Context(), c.QueryParam("i"))
	if err != nil {
		var statusErr *service.UpstreamStatusError
		if errors.As(err, &statusErr) {
			h.logger.Warn("external feed rejected request", "status", statusErr.StatusCode)
			return c.JSON(http.StatusBadGateway, map[string]string{
				"error": fmt.Sprintf("Upstream error %d", statusErr.StatusCode),
			})
		}
		h.logger.Error("external feed error", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to fetch external FanCode feed",
		})
	}

	return c.JSON(http.StatusOK, map[string][]feed.Match{"matches": matches})
}
