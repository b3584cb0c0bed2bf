package client

import (
	"net/http"

	"golang.org/x/oauth2"
)

// clientIDTransport adds the Client-Id header Helix requires next to the bearer token.
type clientIDTransport struct {
	clientID string
	base     http.RoundTripper
}

func (t *clientIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Client-Id", t.clientID)
	return t.base.RoundTrip(req)
}

// newAuthorizedClient returns an HTTP client that sends accessToken and clientID on every request.
// It is rebuilt whenever the token changes.
func newAuthorizedClient(base http.RoundTripper, clientID, accessToken string) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: accessToken,
				TokenType:   "Bearer",
			}),
			Base: &clientIDTransport{clientID: clientID, base: base},
		},
	}
}
