package auth

import (
	"context"
	"time"
)

// TokenFetcher defines the contract for any component that can obtain a new
// client-credentials access token.
type TokenFetcher interface {
	FetchToken(ctx context.Context, creds Credentials) (accessToken string, lifetime time.Duration, err error)
}

// TokenFetcherFunc adapts an ordinary function to the TokenFetcher interface.
type TokenFetcherFunc func(ctx context.Context, creds Credentials) (string, time.Duration, error)

func (f TokenFetcherFunc) FetchToken(ctx context.Context, creds Credentials) (string, time.Duration, error) {
	return f(ctx, creds)
}
