package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ContractMetrics struct {
	CallsTotal    *prometheus.CounterVec
	CallLatencyMS *prometheus.HistogramVec
}

var (
	contractOnce sync.Once
	contract     *ContractMetrics
)

func Contract() *ContractMetrics {
	contractOnce.Do(func() {
		r := Registerer()
		contract = &ContractMetrics{
			CallsTotal: promauto.With(r).NewCounterVec(
				prometheus.CounterOpts{
					Name: "contract_calls_total",
					Help: "read-only contract calls by method and result",
				},
				[]string{"method", "result"},
			),
			CallLatencyMS: promauto.With(r).NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "contract_call_latency_ms",
					Help:    "contract call latency (ms) by method",
					Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000},
				},
				[]string{"method"},
			),
		}
	})
	return contract
}
