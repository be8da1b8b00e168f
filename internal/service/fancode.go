package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"stream-proxy-go/internal/client"
	"stream-proxy-go/internal/config"
	"stream-proxy-go/internal/model"
	"stream-proxy-go/internal/resolver"
)

// FancodeService proxies the FanCode JSON API, which checks for a
// same-origin XHR from www.fancode.com.
type FancodeService struct {
	client    *client.UpstreamClient
	baseURL   string
	userAgent string
	logger    *slog.Logger
}

// NewFancodeService creates a FancodeService targeting cfg.Fancode.APIBaseURL.
func NewFancodeService(c *client.UpstreamClient, cfg *config.Config, logger *slog.Logger) *FancodeService {
	return &FancodeService{
		client:    c,
		baseURL:   strings.TrimSuffix(cfg.Fancode.APIBaseURL, "/"),
		userAgent: cfg.Stream.UserAgent,
		logger:    logger.With("component", "fancode_service"),
	}
}

// UpstreamURL returns the API URL for segs. The inbound query string is not
// forwarded.
func (s *FancodeService) UpstreamURL(segs []string) string {
	return s.baseURL + "/" + strings.Join(segs, "/")
}

// Forward sends the request to the FanCode API. The inbound body is
// forwarded, with its contentType, for methods other than GET and HEAD. Errors follow the same
// *NetworkError / *UpstreamStatusError contract as StreamService.Relay.
func (s *FancodeService) Forward(ctx context.Context, method string, segs []string, contentType string, body io.Reader) (*model.ProxyResponse, error) {
	if !hasBody(method) {
		body = nil
	}

	u := s.UpstreamURL(segs)
	s.logger.Debug("forwarding api request", "method", method, "url", u)

	resp, err := s.client.DoStream(ctx, method, u, s.headers(body, contentType), body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("fancode api: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, Provider: "fancode-api"}
	}

	resp.Header = filterResponseHeaders(resp.Header)
	return resp, nil
}

func (s *FancodeService) headers(body io.Reader, contentType string) http.Header {
	ua := s.userAgent
	if ua == "" {
		ua = resolver.DefaultUserAgent
	}
	h := http.Header{}
	h.Set("User-Agent", ua)
	h.Set("Referer", "https://www.fancode.com/")
	h.Set("Origin", "https://www.fancode.com")
	h.Set("Accept", "application/json, text/plain, */*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("X-Requested-With", "XMLHttpRequest")
	if body != nil && contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return h
}
