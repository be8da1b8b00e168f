package service

import (
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// hopByHopHeaders are headers that must not be relayed to the next hop.
var hopByHopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// filterResponseHeaders copies end-to-end upstream headers, dropping
// hop-by-hop headers and any CORS headers the upstream set; the proxy owns
// the CORS contract.
func filterResponseHeaders(src http.Header) http.Header {
	dst := src.Clone()
	if dst == nil {
		return make(http.Header)
	}

	for _, connHeaders := range dst.Values("Connection") {
		for _, h := range strings.Split(connHeaders, ",") {
			if h = strings.TrimSpace(h); h != "" && httpguts.ValidHeaderFieldName(h) {
				dst.Del(h)
			}
		}
	}
	for _, h := range hopByHopHeaders {
		dst.Del(h)
	}
	for key := range dst {
		if strings.HasPrefix(strings.ToLower(key), "access-control-") {
			delete(dst, key)
		}
	}
	return dst
}

// hasBody reports whether the inbound method carries a body worth forwarding.
func hasBody(method string) bool {
	return method != http.MethodGet && method != http.MethodHead
}

// isSuccess reports whether an upstream status may be relayed as-is.
// 3xx passes through (304 revalidation of manifests is common).
func isSuccess(status int) bool {
	return status >= 200 && status < 400
}
