package service

import (
	"net/http"
	"testing"
)

func TestFilterResponseHeaders(t *testing.T) {
	src := http.Header{
		"Content-Type":                     []string{"video/mp2t"},
		"Content-Encoding":                 []string{"gzip"},
		"Cache-Control":                    []string{"max-age=2"},
		"Connection":                       []string{"keep-alive, X-Custom-Hop, bad header"},
		"X-Custom-Hop":                     []string{"1"},
		"Transfer-Encoding":                []string{"chunked"},
		"Access-Control-Allow-Origin":      []string{"https://cdn.example"},
		"Access-Control-Allow-Credentials": []string{"true"},
	}

	got := filterResponseHeaders(src)

	for _, kept := range []string{"Content-Type", "Content-Encoding", "Cache-Control"} {
		if got.Get(kept) == "" {
			t.Errorf("%s dropped", kept)
		}
	}
	for _, dropped := range []string{"Connection", "X-Custom-Hop", "Transfer-Encoding", "Access-Control-Allow-Origin", "Access-Control-Allow-Credentials"} {
		if v := got.Get(dropped); v != "" {
			t.Errorf("%s = %q, want dropped", dropped, v)
		}
	}
	if src.Get("Access-Control-Allow-Origin") == "" {
		t.Error("source header map modified")
	}
}

func TestFilterResponseHeaders_Nil(t *testing.T) {
	if got := filterResponseHeaders(nil); got == nil {
		t.Error("filterResponseHeaders(nil) = nil, want empty header")
	}
}

func TestIsSuccess(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{199, false},
		{200, true},
		{206, true},
		{302, true},
		{304, true},
		{399, true},
		{400, false},
		{403, false},
		{500, false},
	}
	for _, tt := range tests {
		if got := isSuccess(tt.status); got != tt.want {
			t.Errorf("isSuccess(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
