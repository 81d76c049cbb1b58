// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Filter evaluation metrics, labelled by the consumer that asked for the
// evaluation (page, api, tui).
var (
	FilterEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_evaluations_total",
			Help:      "Total number of reference filter evaluations",
		},
		[]string{"consumer"},
	)

	FilterEmptyResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_empty_results_total",
			Help:      "Filter evaluations that matched no reference",
		},
		[]string{"consumer"},
	)

	FilterResultSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_result_size",
			Help:      "Number of references returned per filter evaluation",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"consumer"},
	)
)

var registerFilterOnce sync.Once

// RegisterFilterMetrics registers the filter metrics with the default
// registry. Calling it more than once is a no-op.
func RegisterFilterMetrics() {
	registerFilterOnce.Do(func() {
		prometheus.MustRegister(FilterEvaluationsTotal)
		prometheus.MustRegister(FilterEmptyResultsTotal)
		prometheus.MustRegister(FilterResultSize)
	})
}

// ObserveFilter records one filter evaluation returning n references.
func ObserveFilter(consumer string, n int) {
	FilterEvaluationsTotal.WithLabelValues(consumer).Inc()
	FilterResultSize.WithLabelValues(consumer).Observe(float64(n))
	if n == 0 {
		FilterEmptyResultsTotal.WithLabelValues(consumer).Inc()
	}
}
