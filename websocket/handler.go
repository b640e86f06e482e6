package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/worldgrid/aabb"
	"golang.org/x/net/websocket"
)

const (
	sendChanSize    = 64
	requestChanSize = 8
)

// BoundsRequest asks to move the bounds of the viewer bound to the
// connection.
type BoundsRequest struct {
	Bounds aabb.Box2f `json:"bounds" msgpack:"bounds"`
}

// Receiver receives a request from a client. It returns the request and the
// number of bytes read.
type Receiver func() (BoundsRequest, int, error)

// Sender sends an encoded command batch to a client. It returns the number of
// bytes written.
type Sender func(payload []byte) (int, error)

// Handler represents a view stream handler.
type Handler interface {
	// Handles a client connection.
	HandleConnect(conn *websocket.Conn)

	// Handles a request to move the viewer bounds.
	HandleBounds(ctx context.Context, req BoundsRequest) error

	// Handles a client's disconnection.
	HandleDisconnect(error)

	// Returns the commands queued for the client, encoded, along with their
	// count. It returns a nil payload when nothing is queued.
	Flush() ([]byte, int, error)

	// Receives a value when commands are queued for the client.
	Updates() <-chan struct{}

	// Creates a request receiver used to receive incoming requests.
	Receiver() Receiver

	// Creates a sender used to send command batches.
	Sender() Sender

	// The time a client is idle before being disconnected.
	IdleTimeout() time.Duration

	// The id of the viewer bound to the connection.
	ViewerID() string

	// Closes the handler and releases its allocated resources.
	Close()
}

// Handle handles the given connection until it is closed or the context is
// canceled.
func Handle(ctx context.Context, conn *websocket.Conn, h Handler) {
	handler := handler{
		Conn:    conn,
		Handler: h,
	}

	handler.Handle(ctx)
}

type handler struct {
	// The WebSocket connection.
	Conn *websocket.Conn

	// The view stream handler.
	Handler Handler

	sendChan       chan []byte
	requestChan    chan BoundsRequest
	sender         Sender
	receiver       Receiver
	disconnectChan chan error
}

func (h *handler) Handle(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h.Handler.HandleConnect(h.Conn)

	h.disconnectChan = make(chan error, 8)
	defer func() {
		for len(h.disconnectChan) != 0 {
			<-h.disconnectChan
		}
	}()

	var wg sync.WaitGroup

	h.sendChan = make(chan []byte, sendChanSize)
	h.sender = h.Handler.Sender()

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.startSending(ctx)
	}()

	h.requestChan = make(chan BoundsRequest, requestChanSize)
	h.receiver = h.Handler.Receiver()

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.startReceiving(ctx)
	}()

	idleTimeout := h.Handler.IdleTimeout()
	idleTimer := time.NewTimer(idleTimeout)
	defer idleTimer.Stop()

	updates := h.Handler.Updates()

	var reason error
loop:
	for {
		select {
		case <-ctx.Done():
			reason = ctx.Err()
			break loop

		case <-idleTimer.C:
			reason = errors.New("idle connection").WithTag("duration", idleTimeout)
			break loop

		case req := <-h.requestChan:
			idleTimer.Stop()
			idleTimer.Reset(idleTimeout)

			if err := h.Handler.HandleBounds(ctx, req); err != nil {
				reason = errors.New("handling bounds request failed").Wrap(err)
				break loop
			}

		case <-updates:
			if err := h.flush(ctx); err != nil {
				reason = errors.New("flushing commands failed").Wrap(err)
				break loop
			}

		case reason = <-h.disconnectChan:
			break loop
		}
	}

	h.handleDisconnect(reason)

	// cancel context so go routines can cleanly exit
	cancel()
	wg.Wait()
}

func (h *handler) flush(ctx context.Context) error {
	payload, _, err := h.Handler.Flush()
	if err != nil || payload == nil {
		return err
	}

	select {
	case <-ctx.Done():
		return nil
	case h.sendChan <- payload:
		return nil
	}
}

func (h *handler) startSending(ctx context.Context) {
	defer func() {
		for len(h.sendChan) != 0 {
			<-h.sendChan
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case payload := <-h.sendChan:
			if _, err := h.sender(payload); err != nil {
				h.disconnect(errors.New("sending message failed").Wrap(err))
				return
			}
		}
	}
}

func (h *handler) startReceiving(ctx context.Context) {
	for {
		req, _, err := h.receiver()
		if err != nil {
			h.disconnect(errors.New("receiving message failed").Wrap(err))
			return
		}

		select {
		case <-ctx.Done():
			return
		case h.requestChan <- req:
		}
	}
}

func (h *handler) disconnect(err error) {
	select {
	case h.disconnectChan <- err:
	default:
	}
}

func (h *handler) handleDisconnect(err error) {
	h.Conn.Close()
	h.Handler.HandleDisconnect(err)
}
