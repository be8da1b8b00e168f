// Package model defines shared types for the proxy.
package model

import (
	"context"
	"io"
	"net/http"
)

// ProxyRequest is an inbound stream request after path decomposition.
type ProxyRequest struct {
	Ctx      context.Context
	Method   string
	Segments []string
	RawQuery string
	Body     io.Reader
}

// ResolvedTarget is the outcome of origin resolution for one request.
type ResolvedTarget struct {
	Provider    string
	Profile     string
	UpstreamURL string
	Header      http.Header
}

// ProxyResponse represents the upstream response to be streamed back.
type ProxyResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}
