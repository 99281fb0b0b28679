package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOk    = "ok"
	OutcomeError = "error"

	RegionSorted   = "sorted"
	RegionUnsorted = "unsorted"
)

var Registry = prometheus.NewRegistry()

var (
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flatdb_operations_total",
			Help: "Record store operations by name and outcome.",
		},
		[]string{"op", "outcome"},
	)

	SearchComparisons = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flatdb_search_comparisons",
			Help:    "Records probed by one binary search over the sorted region.",
			Buckets: prometheus.LinearBuckets(1, 2, 16),
		},
	)

	Records = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flatdb_records",
			Help: "Records in the open database by region.",
		},
		[]string{"region"},
	)
)

func init() {
	Registry.MustRegister(OperationsTotal, SearchComparisons, Records)
}

func ObserveOperation(op string, err error) {
	outcome := OutcomeOk
	if err != nil {
		outcome = OutcomeError
	}
	OperationsTotal.WithLabelValues(op, outcome).Inc()
}

func SetRecords(sorted, unsorted int) {
	Records.WithLabelValues(RegionSorted).Set(float64(sorted))
	Records.WithLabelValues(RegionUnsorted).Set(float64(unsorted))
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
