// Package metrics exposes Prometheus collectors for timeline polling and
// image fetching.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes recorded for images.
const (
	OutcomeImage   = "image"
	OutcomeNoImage = "no_image"
	OutcomeFailed  = "failed"
)

// Metrics bundles the collectors. A nil *Metrics is valid and records nothing,
// which keeps call sites free of nil checks in tests.
type Metrics struct {
	resourceFetches *prometheus.CounterVec
	cacheEntries    *prometheus.GaugeVec
	requests        *prometheus.CounterVec
	dropped         *prometheus.CounterVec
	posts           prometheus.Gauge
}

// New registers the collectors on reg. Registration errors panic, mirroring
// promauto, so a duplicate registration surfaces at startup.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		resourceFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mastoview",
				Name:      "resource_fetches_total",
				Help:      "Completed image fetches by cache and outcome.",
			},
			[]string{"cache", "outcome"},
		),
		cacheEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "mastoview",
				Name:      "resource_cache_entries",
				Help:      "Number of URLs tracked per cache.",
			},
			[]string{"cache"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mastoview",
				Name:      "timeline_requests_total",
				Help:      "Completed timeline requests by direction and outcome.",
			},
			[]string{"direction", "outcome"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mastoview",
				Name:      "refresh_dropped_total",
				Help:      "Refresh requests dropped by the scheduling gate.",
			},
			[]string{"reason"},
		),
		posts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "mastoview",
				Name:      "timeline_posts",
				Help:      "Posts currently held in the timeline.",
			},
		),
	}
	reg.MustRegister(m.resourceFetches, m.cacheEntries, m.requests, m.dropped, m.posts)
	return m
}

func (m *Metrics) ResourceFetched(cache, outcome string) {
	if m == nil {
		return
	}
	m.resourceFetches.WithLabelValues(cache, outcome).Inc()
}

func (m *Metrics) CacheEntries(cache string, n int) {
	if m == nil {
		return
	}
	m.cacheEntries.WithLabelValues(cache).Set(float64(n))
}

func (m *Metrics) RequestCompleted(direction, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(direction, outcome).Inc()
}

func (m *Metrics) RefreshDropped(reason string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) TimelinePosts(n int) {
	if m == nil {
		return
	}
	m.posts.Set(float64(n))
}
