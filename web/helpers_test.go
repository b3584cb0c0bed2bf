package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/habedi/findstream/client"
	"github.com/habedi/findstream/metrics"
	"github.com/habedi/findstream/search"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	mu         sync.Mutex
	streams    []client.Stream
	err        error
	block      bool
	categories []client.Category
}

func (f *fakeSource) GetAllStreams(ctx context.Context, category client.Category) ([]client.Stream, error) {
	f.mu.Lock()
	f.categories = append(f.categories, category)
	streams, err, block := f.streams, f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return streams, nil
}

func (f *fakeSource) lastCategory() client.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.categories) == 0 {
		return 0
	}
	return f.categories[len(f.categories)-1]
}

func sampleStreams() []client.Stream {
	started := fixedNow.Add(-(26*time.Hour + 3*time.Minute))
	return []client.Stream{
		{
			ID: "1", UserName: "painter", Title: "Pixel ART all day", Language: "en",
			ViewerCount: 5, StartedAt: &started,
			ThumbnailURL: "https://thumbs/painter-{width}x{height}.jpg",
		},
		{
			ID: "2", UserName: "coder", Title: "Writing Go", Language: "de",
			ViewerCount:  12,
			ThumbnailURL: "https://thumbs/coder-{width}x{height}.jpg",
		},
		{
			ID: "3", UserName: "sketcher", Title: "art and chill", Language: "de",
			ViewerCount: 1, StartedAt: &started,
			ThumbnailURL: "https://thumbs/sketcher-{width}x{height}.jpg",
		},
	}
}

func newTestServer(t *testing.T, source *fakeSource, tweak ...func(*Options)) (*Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("findstream")
	opts := Options{
		RequestTimeout: time.Second,
		RateLimit:      1000,
		Burst:          1000,
		Metrics:        m,
		Now:            func() time.Time { return fixedNow },
	}
	for _, fn := range tweak {
		fn(&opts)
	}
	srv, err := New(search.NewService(source, m), opts)
	require.NoError(t, err)
	return srv, m
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}
