package spatial

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	categoryLabel = "category"
	layerLabel    = "layer"
	strategyLabel = "strategy"
)

var (
	spatialObjectCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spatial_object_count",
		Help: "The number of live objects.",
	}, []string{categoryLabel})

	spatialBucketCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spatial_bucket_count",
		Help: "The number of non-empty grid buckets.",
	}, []string{categoryLabel, layerLabel})

	spatialQueryCountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatial_query_count_total",
		Help: "The total number of range queries.",
	}, []string{categoryLabel, layerLabel, strategyLabel})

	spatialQueryResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spatial_query_results",
		Help:    "The number of objects returned by fully consumed range queries.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{categoryLabel, layerLabel})

	spatialRejectedInsertCountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spatial_rejected_insert_count_total",
		Help: "The total number of inserts rejected because of an overlapping footprint.",
	}, []string{categoryLabel, layerLabel})
)

func instrumentIncreaseObjectGauge(category string) {
	spatialObjectCount.
		With(prometheus.Labels{categoryLabel: category}).
		Inc()
}

func instrumentDecreaseObjectGauge(category string) {
	spatialObjectCount.
		With(prometheus.Labels{categoryLabel: category}).
		Dec()
}

func instrumentBucketGauge(category, layer string, buckets int) {
	spatialBucketCount.
		With(prometheus.Labels{
			categoryLabel: category,
			layerLabel:    layer,
		}).
		Set(float64(buckets))
}

func instrumentCountQuery(category, layer string, s Strategy) {
	spatialQueryCountTotal.
		With(prometheus.Labels{
			categoryLabel: category,
			layerLabel:    layer,
			strategyLabel: s.String(),
		}).
		Inc()
}

func instrumentQueryResults(category, layer string, n int) {
	spatialQueryResults.
		With(prometheus.Labels{
			categoryLabel: category,
			layerLabel:    layer,
		}).
		Observe(float64(n))
}

func instrumentCountRejectedInsert(category, layer string) {
	spatialRejectedInsertCountTotal.
		With(prometheus.Labels{
			categoryLabel: category,
			layerLabel:    layer,
		}).
		Inc()
}
