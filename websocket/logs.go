package websocket

import (
	"context"
	goerrors "errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"golang.org/x/net/websocket"
)

const (
	boundsCounter   = "bounds_requests"
	batchCounter    = "sent_batches"
	cmdCounter      = "sent_cmds"
	viewerIDTag     = "viewer_id"
	remoteAddrTag   = "remote_addr"
	userAgentTag    = "user_agent"
	forwardedForTag = "x_forwarded_for"
)

// HandlerWithLogs logs the lifecycle of a connection and periodically sums up
// its traffic.
func HandlerWithLogs(h Handler, summaryInterval time.Duration) Handler {
	ctx, cancel := context.WithCancel(context.Background())

	handler := &handlerWithLogs{
		Handler:            h,
		summaryInterval:    summaryInterval,
		closeSummaryWorker: cancel,
		counter:            make(map[string]int),
	}

	go handler.startSummaryWorker(ctx)
	return handler
}

type handlerWithLogs struct {
	Handler

	summaryInterval    time.Duration
	closeSummaryWorker func()
	counterMutex       sync.Mutex
	counter            map[string]int
}

func (h *handlerWithLogs) HandleConnect(conn *websocket.Conn) {
	h.Handler.HandleConnect(conn)

	req := conn.Request()
	logs.WithTag(viewerIDTag, h.ViewerID()).
		WithTag(remoteAddrTag, req.RemoteAddr).
		WithTag(userAgentTag, req.UserAgent()).
		WithTag(forwardedForTag, req.Header.Get("X-Forwarded-For")).
		Info("new viewer is connected")
}

func (h *handlerWithLogs) HandleBounds(ctx context.Context, req BoundsRequest) error {
	h.incCounter(boundsCounter, 1)

	if err := h.Handler.HandleBounds(ctx, req); err != nil {
		return err
	}

	logs.WithTag(viewerIDTag, h.ViewerID()).
		WithTag("bounds", req.Bounds).
		Debug("viewer bounds moved")
	return nil
}

func (h *handlerWithLogs) HandleDisconnect(err error) {
	h.Handler.HandleDisconnect(err)

	entry := logs.WithTag(viewerIDTag, h.ViewerID())
	if err != nil && !isClosed(err) && !goerrors.Is(err, context.Canceled) {
		entry = entry.WithTag("reason", err.Error())
	}
	entry.Info("viewer disconnected")
}

func (h *handlerWithLogs) Flush() ([]byte, int, error) {
	payload, n, err := h.Handler.Flush()
	if err != nil {
		logs.WithTag(viewerIDTag, h.ViewerID()).
			Error(errors.New("flushing commands failed").Wrap(err))
		return payload, n, err
	}

	if payload != nil {
		h.incCounter(batchCounter, 1)
		h.incCounter(cmdCounter, n)
	}
	return payload, n, nil
}

func (h *handlerWithLogs) Receiver() Receiver {
	receive := h.Handler.Receiver()

	return func() (BoundsRequest, int, error) {
		req, n, err := receive()
		if err != nil && !isClosed(err) {
			logs.WithTag(viewerIDTag, h.ViewerID()).
				Error(errors.New("receiving message failed").Wrap(err))
		} else if err == nil {
			logs.WithTag(viewerIDTag, h.ViewerID()).
				WithTag("size", n).
				Debug("message received")
		}
		return req, n, err
	}
}

func (h *handlerWithLogs) Sender() Sender {
	send := h.Handler.Sender()

	return func(payload []byte) (int, error) {
		n, err := send(payload)
		if err != nil && !isClosed(err) {
			logs.WithTag(viewerIDTag, h.ViewerID()).
				Error(errors.New("sending message failed").Wrap(err))
		} else if err == nil {
			logs.WithTag(viewerIDTag, h.ViewerID()).
				WithTag("size", n).
				Debug("message sent")
		}
		return n, err
	}
}

func (h *handlerWithLogs) Close() {
	h.Handler.Close()
	h.closeSummaryWorker()
	h.logSummary()
}

func (h *handlerWithLogs) startSummaryWorker(ctx context.Context) {
	ticker := time.NewTicker(h.summaryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			h.logSummary()
		}
	}
}

func (h *handlerWithLogs) incCounter(name string, n int) {
	h.counterMutex.Lock()
	defer h.counterMutex.Unlock()

	h.counter[name] += n
}

func (h *handlerWithLogs) logSummary() {
	h.counterMutex.Lock()
	defer h.counterMutex.Unlock()

	if len(h.counter) == 0 {
		return
	}

	entry := logs.
		WithTag(viewerIDTag, h.ViewerID()).
		WithTag("time_interval", h.summaryInterval)

	for k, v := range h.counter {
		entry = entry.WithTag(k, v)
		delete(h.counter, k)
	}

	entry.Info("view stream summary")
}

func isClosed(err error) bool {
	return goerrors.Is(err, io.EOF) || goerrors.Is(err, net.ErrClosed)
}
