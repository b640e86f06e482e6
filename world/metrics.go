package world

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindLabel = "kind"
)

var (
	brokenBlockCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_broken_block_count_total",
		Help: "The total number of broken blocks.",
	}, []string{kindLabel})

	generatedColumnCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_generated_column_count_total",
		Help: "The total number of generated columns.",
	})

	generatedBlockCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "world_generated_block_count_total",
		Help: "The total number of blocks placed by world generation.",
	}, []string{kindLabel})
)

func instrumentCountBrokenBlock(k BlockKind) {
	brokenBlockCount.
		With(prometheus.Labels{kindLabel: k.String()}).
		Inc()
}

func instrumentCountGeneratedColumns(n int) {
	generatedColumnCount.Add(float64(n))
}

func instrumentCountGeneratedBlock(k BlockKind) {
	generatedBlockCount.
		With(prometheus.Labels{kindLabel: k.String()}).
		Inc()
}
