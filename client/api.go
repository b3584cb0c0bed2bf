package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
)

// --- HTTP Helper Functions (kept private) ---

func createRequest(ctx context.Context, method, urlStr string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, nil)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("url", urlStr).Msg("Failed to create HTTP request object")
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// sendRequest sends req and converts any non-2xx status into a *StatusError.
// There are no retries; a failed request fails the whole listing.
func sendRequest(httpClient *http.Client, req *http.Request) (*http.Response, error) {
	log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("Sending HTTP request")
	resp, err := httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		closeResponseBody(resp)
		log.Error().Str("url", req.URL.String()).Int("status", resp.StatusCode).Msg("HTTP request returned non-OK status")
		return nil, &StatusError{URL: req.URL.String(), StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}
	log.Debug().Str("url", req.URL.String()).Int("status", resp.StatusCode).Msg("HTTP request successful")
	return resp, nil
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read response body")
		return nil, err
	}
	return body, nil
}

func closeResponseBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, resp.Body, 1024*1024)
	_ = resp.Body.Close()
}

func parseStreamsPage(body []byte) (*streamsPage, error) {
	var page streamsPage
	if err := json.Unmarshal(body, &page); err != nil {
		log.Error().Err(err).Str("body_preview", string(body[:min(len(body), 200)])).Msg("Failed to parse streams page")
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if page.Data == nil {
		return nil, fmt.Errorf("%w: streams page has no data array", ErrMalformedResponse)
	}
	return &page, nil
}

// --- Helix API Interaction ---

// streamsURL builds the listing URL for one page; after is empty for the first page.
func (c *Client) streamsURL(gameID, after string) string {
	query := url.Values{}
	query.Set("game_id", gameID)
	query.Set("first", strconv.Itoa(PageSize))
	if after != "" {
		query.Set("after", after)
	}
	return c.apiURL + "/streams?" + query.Encode()
}

// fetchPage retrieves and parses a single page of live streams for gameID.
func (c *Client) fetchPage(ctx context.Context, gameID, after string) (*streamsPage, error) {
	req, err := createRequest(ctx, http.MethodGet, c.streamsURL(gameID, after))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}

	resp, err := sendRequest(c.httpClient, req)
	if err != nil {
		return nil, err
	}
	defer closeResponseBody(resp)

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read streams page: %w", ErrUpstreamFetch, err)
	}

	return parseStreamsPage(body)
}
