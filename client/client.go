package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/habedi/findstream/auth"
	"github.com/habedi/findstream/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultAPIURL is the base URL of the Twitch Helix API.
	DefaultAPIURL = "https://api.twitch.tv/helix"

	// PageSize is the largest page the stream listing endpoint allows.
	PageSize = 100
)

// Client is the single owner of the Twitch credentials, the current access
// token and the HTTP client that carries it. All listing calls are serialized:
// only one GetAllStreams, including any token refresh it triggers, runs at a time.
type Client struct {
	creds   auth.Credentials
	fetcher auth.TokenFetcher
	apiURL  string
	base    http.RoundTripper
	now     func() time.Time
	metrics *metrics.Metrics

	// lock guards everything below.
	lock       *semaphore.Weighted
	token      auth.Token
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIURL overrides the Helix base URL.
func WithAPIURL(apiURL string) Option {
	return func(c *Client) {
		if apiURL != "" {
			c.apiURL = strings.TrimSuffix(apiURL, "/")
		}
	}
}

// WithTokenFetcher replaces the default TwitchTokenFetcher.
func WithTokenFetcher(fetcher auth.TokenFetcher) Option {
	return func(c *Client) {
		if fetcher != nil {
			c.fetcher = fetcher
		}
	}
}

// WithTransport sets the round tripper used underneath the auth headers.
func WithTransport(base http.RoundTripper) Option {
	return func(c *Client) { c.base = base }
}

// WithClock sets the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetrics records token refreshes, pages and upstream errors on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client and fetches the initial access token. An error here
// means the service cannot talk to Twitch at all and should not start.
func New(ctx context.Context, creds auth.Credentials, opts ...Option) (*Client, error) {
	c := &Client{
		creds:   creds,
		fetcher: auth.NewTwitchTokenFetcher(auth.DefaultTokenURL, nil),
		apiURL:  DefaultAPIURL,
		base:    http.DefaultTransport,
		now:     time.Now,
		lock:    semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(c)
	}

	log.Info().Msg("Getting initial token")
	if err := c.refreshToken(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// refreshToken replaces the token and rebuilds the authorized HTTP client.
// The caller must hold the lock (or own c exclusively, as New does).
func (c *Client) refreshToken(ctx context.Context) error {
	issuedAt := c.now()
	accessToken, lifetime, err := c.fetcher.FetchToken(ctx, c.creds)
	if err != nil {
		c.metrics.ObserveUpstreamError(metrics.KindAuth)
		if !errors.Is(err, auth.ErrUpstreamAuth) {
			err = fmt.Errorf("%w: %w", auth.ErrUpstreamAuth, err)
		}
		log.Error().Err(err).Msg("Failed to obtain access token")
		return err
	}

	c.token = auth.NewToken(accessToken, issuedAt, lifetime)
	c.httpClient = newAuthorizedClient(c.base, c.creds.ClientID, c.token.AccessToken)
	c.metrics.ObserveTokenRefresh()
	log.Info().Time("expires_at", c.token.ExpiresAt).Msg("Access token obtained")
	return nil
}

// GetAllStreams returns every live stream of category in the order Twitch
// lists them. It refreshes the token first if it has expired, then walks the
// cursor-paginated listing until no cursor is returned. Any failure discards
// the pages collected so far; callers never see a partial list.
func (c *Client) GetAllStreams(ctx context.Context, category Category) ([]Stream, error) {
	gameID := category.GameID()
	if gameID == "" {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(category))
	}

	if err := c.lock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.lock.Release(1)

	if c.token.Expired(c.now()) {
		log.Info().Msg("Refreshing token")
		if err := c.refreshToken(ctx); err != nil {
			return nil, err
		}
	}

	streams, err := c.collectPages(ctx, gameID)
	if err != nil {
		kind := metrics.KindFetch
		if errors.Is(err, ErrMalformedResponse) {
			kind = metrics.KindMalformed
		}
		c.metrics.ObserveUpstreamError(kind)
		log.Error().Err(err).Str("category", category.String()).Msg("Failed to fetch streams")
		return nil, err
	}

	log.Debug().Str("category", category.String()).Int("count", len(streams)).Msg("Fetched all streams")
	return streams, nil
}

// collectPages is the pagination walk behind GetAllStreams.
func (c *Client) collectPages(ctx context.Context, gameID string) ([]Stream, error) {
	streams := make([]Stream, 0, PageSize)
	seen := map[string]bool{}
	cursor := ""

	for {
		page, err := c.fetchPage(ctx, gameID, cursor)
		if err != nil {
			return nil, err
		}
		c.metrics.ObservePage(len(page.Data))
		streams = append(streams, page.Data...)

		next := page.nextCursor()
		if next == "" {
			return streams, nil
		}
		if seen[next] {
			return nil, fmt.Errorf("%w: cursor %q returned twice", ErrMalformedResponse, next)
		}
		seen[next] = true
		cursor = next
	}
}

// tokenExpiry reports when the current token will be renewed. It waits for
// any in-flight listing to finish.
func (c *Client) tokenExpiry(ctx context.Context) (time.Time, error) {
	if err := c.lock.Acquire(ctx, 1); err != nil {
		return time.Time{}, err
	}
	defer c.lock.Release(1)
	return c.token.ExpiresAt, nil
}
