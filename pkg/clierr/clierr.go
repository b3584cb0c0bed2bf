package clierr

import (
	"errors"

	"github.com/habedi/findstream/client"
)

// Type categorizes a CLI-facing error for consistent messaging & exit codes.
type Type string

const (
	Validation Type = "validation"
	Config     Type = "config"
	Upstream   Type = "upstream"
	Internal   Type = "internal"
)

// Error is a structured user-facing error.
type Error struct {
	Type    Type
	Message string
	Err     error // optional underlying error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// New constructs a new CLI Error.
func New(t Type, msg string, err error) *Error { return &Error{Type: t, Message: msg, Err: err} }

// FromUpstream turns a failed search into a message that does not leak upstream details.
func FromUpstream(err error) *Error {
	switch {
	case errors.Is(err, client.ErrUpstreamAuth):
		return New(Upstream, "could not authenticate with Twitch; check the client id and secret", err)
	case errors.Is(err, client.ErrMalformedResponse):
		return New(Upstream, "Twitch returned an unexpected response, please try again later", err)
	case errors.Is(err, client.ErrUpstreamFetch):
		return New(Upstream, "could not fetch streams from Twitch, please try again later", err)
	default:
		return New(Internal, "search failed unexpectedly", err)
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cliErr *Error
	if !errors.As(err, &cliErr) {
		return 1
	}
	switch cliErr.Type {
	case Validation:
		return 2
	case Config:
		return 3
	case Upstream:
		return 4
	default:
		return 1
	}
}
