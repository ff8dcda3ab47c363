package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ChainMetrics struct {
	Connected        prometheus.Gauge
	FetchErrorsTotal *prometheus.CounterVec
	FetchLatencyMS   *prometheus.HistogramVec
	ReconnectsTotal  *prometheus.CounterVec
}

var (
	chainOnce sync.Once
	chain     *ChainMetrics
)

func Chain() *ChainMetrics {
	chainOnce.Do(func() {
		r := Registerer()
		chain = &ChainMetrics{
			Connected: promauto.With(r).NewGauge(prometheus.GaugeOpts{
				Name: "chain_connected",
				Help: "RPC client connectivity status (1=connected,0=disconnected)",
			}),
			FetchErrorsTotal: promauto.With(r).NewCounterVec(
				prometheus.CounterOpts{
					Name: "chain_fetch_errors_total",
					Help: "chain read errors by kind (block/transaction) and code",
				},
				[]string{"kind", "code"},
			),
			FetchLatencyMS: promauto.With(r).NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "chain_fetch_latency_ms",
					Help:    "chain read latency (ms) by kind",
					Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000},
				},
				[]string{"kind"},
			),
			ReconnectsTotal: promauto.With(r).NewCounterVec(
				prometheus.CounterOpts{
					Name: "chain_reconnects_total",
					Help: "RPC reconnect attempts by reason",
				},
				[]string{"reason"},
			),
		}
	})
	return chain
}
