package client

import (
	"errors"
	"fmt"

	"github.com/habedi/findstream/auth"
)

var (
	// ErrUpstreamFetch is returned when the stream listing endpoint fails for any page.
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrUpstreamAuth is the same sentinel as auth.ErrUpstreamAuth.
	ErrUpstreamAuth = auth.ErrUpstreamAuth

	// ErrMalformedResponse is the same sentinel as auth.ErrMalformedResponse.
	ErrMalformedResponse = auth.ErrMalformedResponse
)

// StatusError describes a listing request that returned a non-successful status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned status %d: %s", ErrUpstreamFetch, e.URL, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUpstreamFetch }
