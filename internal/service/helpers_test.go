package service

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"stream-proxy-go/internal/client"
	"stream-proxy-go/internal/metrics"
	"stream-proxy-go/internal/resolver"
)

// doerFunc adapts a function to client.Doer.
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

// trackedBody records whether the relay closed the upstream body.
type trackedBody struct {
	io.Reader
	mu     sync.Mutex
	closed bool
}

func (b *trackedBody) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

func (b *trackedBody) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func newResponse(status int, header http.Header, body string) (*http.Response, *trackedBody) {
	if header == nil {
		header = http.Header{}
	}
	tb := &trackedBody{Reader: strings.NewReader(body)}
	return &http.Response{StatusCode: status, Header: header, Body: tb}, tb
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(d client.Doer) *client.UpstreamClient {
	return client.NewUpstreamClientWithDoer(d, 0, discardLogger(), nil)
}

func newTestStreamService(d client.Doer, m *metrics.Metrics) *StreamService {
	return NewStreamService(resolver.New(""), newTestClient(d), m, discardLogger())
}

// counterValue returns the value of the named counter with the given label pair.
func counterValue(m *metrics.Metrics, name, label, value string) float64 {
	families, err := m.Registry.Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
