package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"stream-proxy-go/internal/client"
	"stream-proxy-go/internal/config"
	"stream-proxy-go/internal/feed"
	"stream-proxy-go/internal/resolver"
)

// maxFeedBytes caps how much decoded listing HTML is handed to the scraper.
const maxFeedBytes = 5 << 20

// ExternalFeedService fetches and scrapes the third-party match listing.
type ExternalFeedService struct {
	client   *client.UpstreamClient
	feedURL  *url.URL
	logger   *slog.Logger
	now      func() time.Time
	maxBytes int64
}

// NewExternalFeedService creates an ExternalFeedService for cfg.External.FeedURL.
func NewExternalFeedService(c *client.UpstreamClient, cfg *config.Config, logger *slog.Logger) (*ExternalFeedService, error) {
	u, err := url.Parse(cfg.External.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("parse external feed_url: %w", err)
	}
	return &ExternalFeedService{
		client:   c,
		feedURL:  u,
		logger:   logger.With("component", "external_feed"),
		now:      time.Now,
		maxBytes: maxFeedBytes,
	}, nil
}

// Matches fetches listing page i and returns its match cards.
func (s *ExternalFeedService) Matches(ctx context.Context, page string) ([]feed.Match, error) {
	if page == "" {
		page = "1"
	}

	u := *s.feedURL
	q := u.Query()
	q.Set("i", page)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("User-Agent", resolver.DefaultUserAgent)
	header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	header.Set("Accept-Language", "en-US,en;q=0.9")
	header.Set("Accept-Encoding", "gzip, br")
	header.Set("Referer", s.feedURL.Scheme+"://"+s.feedURL.Host+"/")

	resp, err := s.client.DoStream(ctx, http.MethodGet, u.String(), header, nil)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("external feed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, Provider: "external-feed"}
	}

	// The cap applies after decoding so a small compressed body cannot
	// expand without bound inside the parser.
	decoded, err := feed.Decode(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, fmt.Errorf("external feed: %w", err)
	}

	matches, err := feed.Parse(io.LimitReader(decoded, s.maxBytes), s.now())
	if err != nil {
		return nil, fmt.Errorf("external feed: %w", err)
	}
	s.logger.Debug("scraped external feed", "page", page, "matches", len(matches))
	return matches, nil
}
