// Package web serves the search page, the JSON search API and the metrics endpoint.
package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/habedi/findstream/client"
	"github.com/habedi/findstream/metrics"
	"github.com/habedi/findstream/search"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Searcher runs one search. *search.Service satisfies it.
type Searcher interface {
	Search(ctx context.Context, category client.Category, query, language string) (search.Result, error)
}

var errNoSearcher = errors.New("web: no searcher configured")

// Options configures a Server.
type Options struct {
	Listen         string
	RequestTimeout time.Duration
	RateLimit      float64
	Burst          int
	Metrics        *metrics.Metrics
	Now            func() time.Time
}

// Server is the findstream HTTP server.
type Server struct {
	searcher   Searcher
	metrics    *metrics.Metrics
	now        func() time.Time
	templates  map[string]*template.Template
	handler    http.Handler
	httpServer *http.Server
}

// New builds the router, the middleware chain and the templates.
func New(searcher Searcher, opts Options) (*Server, error) {
	if searcher == nil {
		return nil, errNoSearcher
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.Burst < 1 {
		opts.Burst = 20
	}

	templates, err := loadTemplates(opts.Now)
	if err != nil {
		return nil, err
	}

	s := &Server{
		searcher:  searcher,
		metrics:   opts.Metrics,
		now:       opts.Now,
		templates: templates,
	}

	router := mux.NewRouter()
	router.Use(instrument(opts.Metrics))
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	router.HandleFunc("/api-info", s.handleAPIInfo).Methods(http.MethodGet)
	router.HandleFunc("/favicon.svg", s.handleFavicon).Methods(http.MethodGet)
	router.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search", s.handleAPISearch).Methods(http.MethodPost)

	var handler http.Handler = router
	handler = withTimeout(opts.RequestTimeout)(handler)
	handler = loadShed(rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst), opts.Metrics)(handler)
	handler = gzhttp.GzipHandler(handler)
	handler = accessLog(handler)
	handler = withRequestID(handler)
	s.handler = handler

	s.httpServer = &http.Server{
		Addr:              opts.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the full middleware chain and router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("Listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
