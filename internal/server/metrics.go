package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's prometheus collectors on a private registry,
// so parallel tests never fight over the default one.
type Metrics struct {
	Registry *prometheus.Registry

	Requests          *prometheus.CounterVec
	ConnectionsActive prometheus.Gauge
	HandsDealt        prometheus.Counter
	DecisionsServed   prometheus.Counter
}

// NewMetrics builds the collector set. activeSessions is sampled on every
// scrape.
func NewMetrics(activeSessions func() float64) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		Registry: registry,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgecount",
			Name:      "requests_total",
			Help:      "Requests handled, by operation and result code.",
		}, []string{"op", "code"}),
		ConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "edgecount",
			Name:      "connections_active",
			Help:      "Open WebSocket connections.",
		}),
		HandsDealt: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "edgecount",
			Name:      "hands_dealt_total",
			Help:      "Auto-mode rounds dealt.",
		}),
		DecisionsServed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "edgecount",
			Name:      "decisions_served_total",
			Help:      "Strategy recommendations served.",
		}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "edgecount",
		Name:      "sessions_active",
		Help:      "Sessions currently alive.",
	}, activeSessions)

	return m
}

// ok is the requests_total code label for successful operations.
const okCode = "OK"
