// Package service implements origin resolution, upstream relaying, and the
// auxiliary FanCode API and match-feed fetchers.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"stream-proxy-go/internal/client"
	"stream-proxy-go/internal/metrics"
	"stream-proxy-go/internal/model"
	"stream-proxy-go/internal/resolver"
)

// StreamService resolves stream paths to CDN targets and opens the upstream
// response for relaying.
type StreamService struct {
	resolver *resolver.Resolver
	client   *client.UpstreamClient
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewStreamService creates a StreamService. The metrics parameter is optional.
func NewStreamService(r *resolver.Resolver, c *client.UpstreamClient, m *metrics.Metrics, logger *slog.Logger) *StreamService {
	return &StreamService{
		resolver: r,
		client:   c,
		metrics:  m,
		logger:   logger.With("component", "stream_service"),
	}
}

// Resolve maps a decomposed stream path to its upstream target.
func (s *StreamService) Resolve(segs []string, rawQuery string) model.ResolvedTarget {
	target := s.resolver.Resolve(segs, rawQuery)
	if s.metrics != nil {
		s.metrics.ResolvedTotal.WithLabelValues(target.Provider).Inc()
	}
	s.logger.Debug("resolved stream target",
		"provider", target.Provider,
		"profile", target.Profile,
		"upstream", redactQuery(target.UpstreamURL),
	)
	return target
}

// Forward resolves pr and relays it upstream. See Relay for the error contract.
func (s *StreamService) Forward(pr *model.ProxyRequest) (model.ResolvedTarget, *model.ProxyResponse, error) {
	target := s.Resolve(pr.Segments, pr.RawQuery)
	resp, err := s.Relay(pr.Ctx, target, pr.Method, pr.Body)
	return target, resp, err
}

// Relay issues the upstream request for target. On success the caller owns
// and must close the response body. Failures are either *NetworkError (no
// response) or *UpstreamStatusError (upstream refused); the upstream body is
// already closed in both cases.
func (s *StreamService) Relay(ctx context.Context, target model.ResolvedTarget, method string, body io.Reader) (*model.ProxyResponse, error) {
	if !hasBody(method) {
		body = nil
	}

	resp, err := s.client.DoStream(ctx, method, target.UpstreamURL, target.Header.Clone(), body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("relay %s: %w", target.Provider, err)}
	}

	if !isSuccess(resp.StatusCode) {
		_ = resp.Body.Close()
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, Provider: target.Provider}
	}

	resp.Header = filterResponseHeaders(resp.Header)
	return resp, nil
}

// RecordRelayed adds n relayed body bytes to the provider's counter.
func (s *StreamService) RecordRelayed(provider string, n int64) {
	if s.metrics != nil && n > 0 {
		s.metrics.RelayedBytes.WithLabelValues(provider).Add(float64(n))
	}
}

// RuleNames lists the provider rules in evaluation order.
func (s *StreamService) RuleNames() []string {
	return s.resolver.RuleNames()
}

// redactQuery drops the query string; DAI stitching tokens live there.
func redactQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.RawQuery != "" {
		u.RawQuery = "REDACTED"
	}
	return u.String()
}
