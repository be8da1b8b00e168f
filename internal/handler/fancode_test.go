package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFancodeHandler_Success(t *testing.T) {
	var got *http.Request
	up := &fakeUpstream{fn: func(r *http.Request) (*http.Response, error) {
		got = r
		return respond(http.StatusOK, nil, `{"data":[]}`), nil
	}}
	e := newTestServer(t, up)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fancode/v1/matches/live?secret=1", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.URL.String() != "https://www.fancode.com/api/v1/matches/live" {
		t.Errorf("upstream URL = %q", got.URL.String())
	}
	if rec.Body.String() != `{"data":[]}` {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want default application/json", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != noStore {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestFancodeHandler_Failures(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*http.Request) (*http.Response, error)
	}{
		{"upstream 404", func(*http.Request) (*http.Response, error) {
			return respond(http.StatusNotFound, nil, "nope"), nil
		}},
		{"network", func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection reset")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(t, &fakeUpstream{fn: tt.fn})

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fancode/v1/x", http.NoBody))

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body["error"] != "Failed to fetch from FanCode API" {
				t.Errorf("error = %q", body["error"])
			}
		})
	}
}
