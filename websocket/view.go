package websocket

import (
	"context"
	"math"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/worldgrid/aabb"
	"github.com/aukilabs/worldgrid/view"
	"github.com/aukilabs/worldgrid/world"
	"github.com/segmentio/encoding/json"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/net/websocket"
)

const (
	ErrTypeInvalidBounds = "invalid_bounds"
	ErrTypeInvalidFrame  = "invalid_frame"

	// DefaultMaxArea is the largest ground area a viewer can look at.
	DefaultMaxArea = 256 * 256

	DefaultIdleTimeout = 5 * time.Minute
)

// ViewHandler streams the objects of a world to a viewer. The client picks
// the codec of the stream with the codec query parameter.
type ViewHandler struct {
	// The hub the viewer joins.
	Hub *view.Hub

	// Generates the columns a viewer looks at. Nil disables generation.
	Generator *world.Generator

	// The largest ground area a viewer can look at, counted in the integer
	// columns the bounds cover. Defaults to DefaultMaxArea.
	MaxArea float64

	// The time a client is idle before being disconnected. Defaults to
	// DefaultIdleTimeout.
	ClientIdleTimeout time.Duration

	conn     *websocket.Conn
	codec    view.Codec
	viewerID string
	updates  <-chan struct{}
}

func (h *ViewHandler) HandleConnect(conn *websocket.Conn) {
	h.conn = conn

	h.codec = view.CodecJSON
	if view.Codec(conn.Request().URL.Query().Get("codec")) == view.CodecMsgpack {
		h.codec = view.CodecMsgpack
	}

	h.viewerID = h.Hub.Join()
	h.updates, _ = h.Hub.Updates(h.viewerID)
}

func (h *ViewHandler) HandleBounds(ctx context.Context, req BoundsRequest) error {
	if err := h.validateBounds(req.Bounds); err != nil {
		return err
	}

	if h.Generator != nil {
		h.Generator.Generate(aabb.Cover2(req.Bounds))
	}
	return h.Hub.SetBounds(h.viewerID, req.Bounds)
}

func (h *ViewHandler) validateBounds(b aabb.Box2f) error {
	for _, v := range []float64{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("bounds are not finite").
				WithType(ErrTypeInvalidBounds).
				WithTag("bounds", b)
		}
	}

	maxArea := h.MaxArea
	if maxArea <= 0 {
		maxArea = DefaultMaxArea
	}

	// Generation walks the covered columns, so they are what is bounded.
	cover := aabb.Cover2(b)
	width := float64(cover.Max.X) - float64(cover.Min.X)
	height := float64(cover.Max.Y) - float64(cover.Min.Y)
	if area := cover.Measure(); area > maxArea || width > maxArea || height > maxArea {
		return errors.New("bounds are too large").
			WithType(ErrTypeInvalidBounds).
			WithTag("bounds", b).
			WithTag("columns", cover).
			WithTag("area", area).
			WithTag("max_area", maxArea)
	}
	return nil
}

func (h *ViewHandler) HandleDisconnect(err error) {
	h.Hub.Leave(h.viewerID)
}

func (h *ViewHandler) Flush() ([]byte, int, error) {
	cmds, err := h.Hub.Drain(h.viewerID)
	if err != nil || len(cmds) == 0 {
		return nil, 0, err
	}

	payload, err := view.Encode(h.codec, cmds)
	if err != nil {
		return nil, 0, err
	}
	return payload, len(cmds), nil
}

func (h *ViewHandler) Updates() <-chan struct{} {
	return h.updates
}

func (h *ViewHandler) Receiver() Receiver {
	return func() (BoundsRequest, int, error) {
		var data []byte
		if err := websocket.Message.Receive(h.conn, &data); err != nil {
			return BoundsRequest{}, 0, err
		}

		var req BoundsRequest
		var err error
		switch h.codec {
		case view.CodecMsgpack:
			err = msgpack.Unmarshal(data, &req)
		default:
			err = json.Unmarshal(data, &req)
		}
		if err != nil {
			return BoundsRequest{}, len(data), errors.New("decoding bounds request failed").
				WithType(ErrTypeInvalidFrame).
				WithTag("codec", h.codec).
				Wrap(err)
		}
		return req, len(data), nil
	}
}

func (h *ViewHandler) Sender() Sender {
	return func(payload []byte) (int, error) {
		var err error
		if h.codec == view.CodecJSON {
			err = websocket.Message.Send(h.conn, string(payload))
		} else {
			err = websocket.Message.Send(h.conn, payload)
		}
		if err != nil {
			return 0, err
		}
		return len(payload), nil
	}
}

func (h *ViewHandler) IdleTimeout() time.Duration {
	if h.ClientIdleTimeout <= 0 {
		return DefaultIdleTimeout
	}
	return h.ClientIdleTimeout
}

func (h *ViewHandler) ViewerID() string {
	return h.viewerID
}

func (h *ViewHandler) Close() {
}
