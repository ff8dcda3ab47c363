package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type OrderingMetrics struct {
	ChecksTotal      *prometheus.CounterVec
	SkippedTxsTotal  prometheus.Counter
	CheckedTxs       prometheus.Histogram
	CacheLookupTotal *prometheus.CounterVec
}

var (
	orderingOnce sync.Once
	ordering     *OrderingMetrics
)

func Ordering() *OrderingMetrics {
	orderingOnce.Do(func() {
		r := Registerer()
		ordering = &OrderingMetrics{
			ChecksTotal: promauto.With(r).NewCounterVec(
				prometheus.CounterOpts{
					Name: "ordering_checks_total",
					Help: "completed block ordering checks by result (ordered/unordered/failed)",
				},
				[]string{"result"},
			),
			SkippedTxsTotal: promauto.With(r).NewCounter(prometheus.CounterOpts{
				Name: "ordering_skipped_txs_total",
				Help: "transactions skipped during ordering checks because they could not be resolved",
			}),
			CheckedTxs: promauto.With(r).NewHistogram(prometheus.HistogramOpts{
				Name:    "ordering_checked_txs",
				Help:    "transactions compared per ordering check",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
			}),
			CacheLookupTotal: promauto.With(r).NewCounterVec(
				prometheus.CounterOpts{
					Name: "ordering_cache_lookups_total",
					Help: "report cache lookups by outcome (hit/miss/error)",
				},
				[]string{"outcome"},
			),
		}
	})
	return ordering
}
