package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/habedi/findstream/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPISearch_ReturnsSimpleStreams(t *testing.T) {
	source := &fakeSource{streams: sampleStreams()}
	srv, _ := newTestServer(t, source)

	rec := do(t, srv, http.MethodPost, "/api/search", `{"category":"Art","query":"ART go"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, client.Art, source.lastCategory())

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw, 3)
	for _, entry := range raw {
		assert.ElementsMatch(t, []string{"title", "username", "language", "stream_time", "viewer_count"}, keys(entry))
	}

	var got []SimpleStream
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "painter", got[0].Username)
	assert.Equal(t, "English", got[0].Language)
	require.NotNil(t, got[0].StreamTime)
	assert.Equal(t, int64((26*time.Hour + 3*time.Minute).Seconds()), *got[0].StreamTime)
	assert.Equal(t, uint64(5), got[0].ViewerCount)

	assert.Equal(t, "coder", got[1].Username)
	assert.Nil(t, got[1].StreamTime)
	assert.Nil(t, raw[1]["stream_time"])
}

func TestAPISearch_Language(t *testing.T) {
	srv, _ := newTestServer(t, &fakeSource{streams: sampleStreams()})

	rec := do(t, srv, http.MethodPost, "/api/search", `{"category":"Art","query":"art","language":"en"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []SimpleStream
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "painter", got[0].Username)
}

func TestAPISearch_EmptyResultIsEmptyArray(t *testing.T) {
	srv, _ := newTestServer(t, &fakeSource{streams: sampleStreams()})

	rec := do(t, srv, http.MethodPost, "/api/search", `{"category":"Art","query":""}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAPISearch_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"not json", `{"category":`, http.StatusBadRequest},
		{"missing query", `{"category":"Art"}`, http.StatusUnprocessableEntity},
		{"missing category", `{"query":"x"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"category":"Cooking","query":"x"}`, http.StatusUnprocessableEntity},
		{"unknown language", `{"category":"Art","query":"x","language":"xx-yy"}`, http.StatusUnprocessableEntity},
		{"upper-case language", `{"category":"Art","query":"x","language":"EN"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{}
			srv, _ := newTestServer(t, source)

			rec := do(t, srv, http.MethodPost, "/api/search", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, client.Category(0), source.lastCategory())
		})
	}
}

func TestAPISearch_UpstreamError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeSource{err: errors.New("token endpoint said no")})

	rec := do(t, srv, http.MethodPost, "/api/search", `{"category":"Art","query":"x"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "token endpoint said no")
}

func TestAPISearch_GetNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, &fakeSource{})

	rec := do(t, srv, http.MethodGet, "/api/search", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
