package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTokenURL is Twitch's OAuth2 token endpoint.
const DefaultTokenURL = "https://id.twitch.tv/oauth2/token"

// TwitchTokenFetcher implements TokenFetcher with the client-credentials grant.
type TwitchTokenFetcher struct {
	TokenURL   string
	HTTPClient *http.Client
}

// NewTwitchTokenFetcher returns a fetcher for tokenURL; an empty URL selects DefaultTokenURL.
func NewTwitchTokenFetcher(tokenURL string, httpClient *http.Client) *TwitchTokenFetcher {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TwitchTokenFetcher{TokenURL: tokenURL, HTTPClient: httpClient}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   *int64 `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// FetchToken posts the credentials to the token endpoint and returns the new
// access token with the lifetime the server declared for it.
func (f *TwitchTokenFetcher) FetchToken(ctx context.Context, creds Credentials) (string, time.Duration, error) {
	tokenURL, err := url.Parse(f.TokenURL)
	if err != nil {
		return "", 0, fmt.Errorf("%w: invalid token URL %q: %w", ErrUpstreamAuth, f.TokenURL, err)
	}
	query := tokenURL.Query()
	query.Set("client_id", creds.ClientID)
	query.Set("client_secret", creds.ClientSecret)
	query.Set("grant_type", "client_credentials")
	query.Set("scope", "")
	tokenURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL.String(), nil)
	if err != nil {
		return "", 0, fmt.Errorf("%w: failed to create token request: %w", ErrUpstreamAuth, err)
	}

	log.Debug().Str("url", f.TokenURL).Msg("Requesting access token")
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		// *url.Error quotes the full URL, and the query carries the client secret.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", 0, fmt.Errorf("%w: failed to post token request to %s: %w", ErrUpstreamAuth, f.TokenURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("%w: failed to read token response: %w", ErrUpstreamAuth, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Msg("Token endpoint returned non-successful status")
		return "", 0, fmt.Errorf("%w: token endpoint returned status %d: %s", ErrUpstreamAuth, resp.StatusCode, preview(body))
	}

	var result tokenResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", 0, fmt.Errorf("%w: failed to parse token response: %w", ErrMalformedResponse, err)
	}
	if result.AccessToken == "" || result.ExpiresIn == nil || *result.ExpiresIn < 0 {
		return "", 0, fmt.Errorf("%w: token response needs access_token and a non-negative expires_in", ErrMalformedResponse)
	}

	return result.AccessToken, time.Duration(*result.ExpiresIn) * time.Second, nil
}

func preview(body []byte) string {
	if len(body) > 200 {
		return string(body[:200])
	}
	return string(body)
}
