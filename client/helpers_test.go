package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/habedi/findstream/auth"
)

// pageSpec describes one page served by fakeTwitch.
type pageSpec struct {
	streams []Stream
	next    string
	status  int
	raw     string
}

// fakeTwitch serves both the token endpoint and the Helix stream listing.
type fakeTwitch struct {
	t *testing.T

	mu          sync.Mutex
	pages       map[string]pageSpec
	expiresIn   int64
	tokenStatus int
	authHeaders []string
	afterParams []string

	tokenCalls  atomic.Int32
	pageCalls   atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	pageDelay   time.Duration

	server *httptest.Server
}

func newFakeTwitch(t *testing.T, pages map[string]pageSpec) *fakeTwitch {
	t.Helper()
	f := &fakeTwitch{t: t, pages: pages, expiresIn: 5011271}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", f.handleToken)
	mux.HandleFunc("/helix/streams", f.handleStreams)
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeTwitch) handleToken(w http.ResponseWriter, r *http.Request) {
	n := f.tokenCalls.Add(1)
	f.mu.Lock()
	status, expiresIn := f.tokenStatus, f.expiresIn
	f.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"invalid client"}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": fmt.Sprintf("token-%d", n),
		"expires_in":   expiresIn,
		"token_type":   "bearer",
	})
}

func (f *fakeTwitch) handleStreams(w http.ResponseWriter, r *http.Request) {
	f.pageCalls.Add(1)
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxInFlight.Load()
		if current <= seen || f.maxInFlight.CompareAndSwap(seen, current) {
			break
		}
	}
	if f.pageDelay > 0 {
		time.Sleep(f.pageDelay)
	}

	after := r.URL.Query().Get("after")
	f.mu.Lock()
	f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
	f.afterParams = append(f.afterParams, after)
	spec, ok := f.pages[after]
	f.mu.Unlock()

	if r.Header.Get("Client-Id") != "test-client" || r.URL.Query().Get("first") != "100" || r.URL.Query().Get("game_id") == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if spec.status != 0 {
		w.WriteHeader(spec.status)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}
	if spec.raw != "" {
		_, _ = w.Write([]byte(spec.raw))
		return
	}

	body := map[string]interface{}{"data": spec.streams, "pagination": map[string]string{}}
	if spec.next != "" {
		body["pagination"] = map[string]string{"cursor": spec.next}
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeTwitch) options(extra ...Option) []Option {
	opts := []Option{
		WithAPIURL(f.server.URL + "/helix"),
		WithTokenFetcher(auth.NewTwitchTokenFetcher(f.server.URL+"/oauth2/token", f.server.Client())),
		WithTransport(f.server.Client().Transport),
	}
	return append(opts, extra...)
}

var testCreds = auth.Credentials{ClientID: "test-client", ClientSecret: "test-secret"}

// makeStreams returns n streams whose ids are prefix-0 .. prefix-(n-1).
func makeStreams(prefix string, n int) []Stream {
	out := make([]Stream, n)
	for i := range out {
		out[i] = Stream{
			ID:          fmt.Sprintf("%s-%d", prefix, i),
			UserName:    fmt.Sprintf("user_%s_%d", prefix, i),
			GameID:      "1469308723",
			Title:       fmt.Sprintf("Stream %s %d", prefix, i),
			ViewerCount: uint64(i),
			Language:    "en",
		}
	}
	return out
}

func threePages() map[string]pageSpec {
	return map[string]pageSpec{
		"":   {streams: makeStreams("p1", 100), next: "c1"},
		"c1": {streams: makeStreams("p2", 100), next: "c2"},
		"c2": {streams: makeStreams("p3", 7)},
	}
}
