// Package metrics holds the Prometheus collectors shared by the Twitch client
// and the HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream error kinds used as the "kind" label of UpstreamErrors.
const (
	KindAuth      = "auth"
	KindFetch     = "fetch"
	KindMalformed = "malformed"
)

type Metrics struct {
	Registry *prometheus.Registry

	TokenRefreshes prometheus.Counter
	PagesFetched   prometheus.Counter
	StreamsFetched prometheus.Counter
	UpstreamErrors *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	LoadShed       prometheus.Counter
}

// New registers all collectors on a fresh registry, so tests can create as
// many instances as they like.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		TokenRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Number of access tokens obtained from the token endpoint",
		}),
		PagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_pages_total",
			Help:      "Number of stream listing pages fetched from the Helix API",
		}),
		StreamsFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_streams_total",
			Help:      "Number of streams received from the Helix API",
		}),
		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Number of failed upstream operations by kind",
		}, []string{"kind"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests served by route and status code",
		}, []string{"route", "code"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent fetching and filtering streams for one search",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LoadShed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_shed_total",
			Help:      "Number of requests rejected because the server was overloaded",
		}),
	}
}

// The observe helpers are no-ops on a nil receiver so metrics stay optional.

func (m *Metrics) ObserveTokenRefresh() {
	if m == nil {
		return
	}
	m.TokenRefreshes.Inc()
}

func (m *Metrics) ObservePage(streams int) {
	if m == nil {
		return
	}
	m.PagesFetched.Inc()
	m.StreamsFetched.Add(float64(streams))
}

func (m *Metrics) ObserveUpstreamError(kind string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveRequest(route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveSearch(d time.Duration) {
	if m == nil {
		return
	}
	m.SearchDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveLoadShed() {
	if m == nil {
		return
	}
	m.LoadShed.Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
