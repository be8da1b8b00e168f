package service

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// UpstreamStatusError reports an upstream that answered with a non-success
// status. It is not transient: retrying the same URL and headers gets the
// same answer.
type UpstreamStatusError struct {
	StatusCode int
	Provider   string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.Provider, e.StatusCode)
}

// NetworkError reports a failure before any upstream response arrived:
// DNS, dial, TLS, timeouts, or cancellation.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "upstream network failure: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a connect, header, or idle timeout.
func (e *NetworkError) Timeout() bool {
	var te interface{ Timeout() bool }
	if errors.As(e.Err, &te) && te.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Canceled reports whether the client went away before the upstream answered.
func (e *NetworkError) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// DNS reports whether the upstream host could not be resolved.
func (e *NetworkError) DNS() bool {
	var dnsErr *net.DNSError
	return errors.As(e.Err, &dnsErr)
}
