package search

import (
	"context"
	"fmt"
	"time"

	"github.com/habedi/findstream/client"
	"github.com/habedi/findstream/metrics"
	"github.com/rs/zerolog/log"
)

// StreamSource returns every live stream of a category. *client.Client satisfies it.
type StreamSource interface {
	GetAllStreams(ctx context.Context, category client.Category) ([]client.Stream, error)
}

// Result is the outcome of one search.
type Result struct {
	Category client.Category
	Words    []string
	Language string
	Streams  []client.Stream
}

// Service runs searches against a StreamSource.
type Service struct {
	Source  StreamSource
	Metrics *metrics.Metrics
}

// NewService is the constructor for the search service.
func NewService(source StreamSource, m *metrics.Metrics) *Service {
	return &Service{Source: source, Metrics: m}
}

// Search fetches all streams of category and keeps those whose title matches
// any word of query, restricted to language when it is not empty.
func (s *Service) Search(ctx context.Context, category client.Category, query, language string) (Result, error) {
	start := time.Now()
	words := QueryWords(query)

	streams, err := s.Source.GetAllStreams(ctx, category)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch streams for %s: %w", category, err)
	}

	matches := Filter(streams, words, language)
	s.Metrics.ObserveSearch(time.Since(start))
	log.Debug().
		Str("category", category.String()).
		Strs("words", words).
		Str("language", language).
		Int("fetched", len(streams)).
		Int("matched", len(matches)).
		Msg("Search finished")

	return Result{Category: category, Words: words, Language: language, Streams: matches}, nil
}
