package auth

import (
	"errors"
	"time"
)

// SafetyMargin is subtracted from the lifetime reported by the token endpoint,
// so a token is renewed a day before Twitch would reject it.
const SafetyMargin = 24 * time.Hour

var (
	// ErrUpstreamAuth is returned when the token endpoint is unreachable or rejects the credentials.
	ErrUpstreamAuth = errors.New("upstream authentication failed")

	// ErrMalformedResponse is returned when an upstream body does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// Credentials identify the application against the token endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Token is a bearer token together with the moment it must be renewed.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// NewToken builds a Token issued at issuedAt that the server declared valid for lifetime.
func NewToken(accessToken string, issuedAt time.Time, lifetime time.Duration) Token {
	return Token{
		AccessToken: accessToken,
		ExpiresAt:   EffectiveExpiry(issuedAt, lifetime),
	}
}

// EffectiveExpiry returns issuedAt + lifetime - SafetyMargin.
func EffectiveExpiry(issuedAt time.Time, lifetime time.Duration) time.Time {
	return issuedAt.Add(lifetime).Add(-SafetyMargin)
}

// IsExpired reports whether the token must be renewed at now.
// The expiry instant itself already counts as expired.
func IsExpired(token Token, now time.Time) bool {
	return !now.Before(token.ExpiresAt)
}

// Expired is shorthand for IsExpired(t, now).
func (t Token) Expired(now time.Time) bool {
	return IsExpired(t, now)
}
