package view

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	cmdTypeLabel = "type"
)

var (
	viewerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "view_viewer_count",
		Help: "The number of viewers.",
	})

	cmdCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "view_cmd_count_total",
		Help: "The total number of commands queued for viewers.",
	}, []string{cmdTypeLabel})
)

func instrumentIncreaseViewerGauge() {
	viewerCount.Inc()
}

func instrumentDecreaseViewerGauge() {
	viewerCount.Dec()
}

func instrumentCountCmd(t CmdType) {
	cmdCount.
		With(prometheus.Labels{cmdTypeLabel: string(t)}).
		Inc()
}
