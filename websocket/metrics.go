package websocket

import (
	"context"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/worldgrid/view"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/net/websocket"
)

const (
	errTypeLabel = "error_type"
	codecLabel   = "codec"
)

var (
	wsConnectedViewers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ws_connected_viewers",
		Help: "The number of connected viewers.",
	}, []string{codecLabel})

	wsReceivedMsgs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_received_msgs",
		Help: "The number of messages received from WebSocket connections.",
	}, []string{codecLabel})

	wsReceivedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_received_bytes",
		Help: "The number of bytes received from WebSocket connections.",
	}, []string{codecLabel})

	wsReceiveError = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_receive_errors",
		Help: "The errors that occured while receiving a websocket message.",
	}, []string{codecLabel, errTypeLabel})

	wsSentMsgs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_sent_msgs",
		Help: "The number of messages sent to WebSocket connections.",
	}, []string{codecLabel})

	wsSentBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_sent_bytes",
		Help: "The number of bytes sent to WebSocket connections.",
	}, []string{codecLabel})

	wsSendError = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_send_errors",
		Help: "The errors that occured while sending a websocket message.",
	}, []string{codecLabel, errTypeLabel})

	wsBoundsLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "ws_bounds_latency",
		Help: "The time to move the bounds of a viewer, generation included.",
	}, []string{codecLabel})
)

// HandlerWithMetrics instruments the traffic of a connection.
func HandlerWithMetrics(h Handler) Handler {
	return &handlerWithMetrics{
		Handler: h,
	}
}

type handlerWithMetrics struct {
	Handler

	codec string
}

func (h *handlerWithMetrics) HandleConnect(conn *websocket.Conn) {
	h.codec = string(view.CodecJSON)
	if c := view.Codec(conn.Request().URL.Query().Get("codec")); c == view.CodecMsgpack {
		h.codec = string(c)
	}

	wsConnectedViewers.
		With(prometheus.Labels{codecLabel: h.codec}).
		Inc()

	h.Handler.HandleConnect(conn)
}

func (h *handlerWithMetrics) HandleDisconnect(err error) {
	wsConnectedViewers.
		With(prometheus.Labels{codecLabel: h.codec}).
		Dec()

	h.Handler.HandleDisconnect(err)
}

func (h *handlerWithMetrics) HandleBounds(ctx context.Context, req BoundsRequest) error {
	start := time.Now()
	err := h.Handler.HandleBounds(ctx, req)

	wsBoundsLatency.
		With(prometheus.Labels{codecLabel: h.codec}).
		Observe(time.Since(start).Seconds())
	return err
}

func (h *handlerWithMetrics) Receiver() Receiver {
	receive := h.Handler.Receiver()

	return func() (BoundsRequest, int, error) {
		req, n, err := receive()
		if err != nil {
			wsReceiveError.
				With(prometheus.Labels{
					codecLabel:   h.codec,
					errTypeLabel: errors.Type(err),
				}).
				Inc()
			return req, n, err
		}

		labels := prometheus.Labels{codecLabel: h.codec}
		wsReceivedMsgs.With(labels).Inc()
		wsReceivedBytes.With(labels).Add(float64(n))
		return req, n, nil
	}
}

func (h *handlerWithMetrics) Sender() Sender {
	send := h.Handler.Sender()

	return func(payload []byte) (int, error) {
		n, err := send(payload)
		if err != nil {
			wsSendError.
				With(prometheus.Labels{
					codecLabel:   h.codec,
					errTypeLabel: errors.Type(err),
				}).
				Inc()
			return n, err
		}

		labels := prometheus.Labels{codecLabel: h.codec}
		wsSentMsgs.With(labels).Inc()
		wsSentBytes.With(labels).Add(float64(n))
		return n, nil
	}
}
