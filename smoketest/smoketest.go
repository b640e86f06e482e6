package smoketest

import (
	"cmp"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/worldgrid/aabb"
	"github.com/aukilabs/worldgrid/view"
	wwebsocket "github.com/aukilabs/worldgrid/websocket"
	"github.com/segmentio/encoding/json"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/net/websocket"
)

const (
	ErrTypeSmokeTestFailed = "smoke_test_failed"

	DefaultTimeout = 10 * time.Second
)

// DefaultBounds is the area looked at when a request does not specify one.
var DefaultBounds = aabb.NewBox2(aabb.Vec2f{X: -8, Y: -8}, aabb.Vec2f{X: 8, Y: 8})

// Request describes a smoke test against the view stream of a worldgrid
// server.
type Request struct {
	// The base URL of the tested server, e.g. ws://localhost:4100.
	Endpoint string        `json:"endpoint"`
	Codec    view.Codec    `json:"codec,omitempty"`
	Bounds   *aabb.Box2f   `json:"bounds,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
}

// Result is the outcome of a smoke test.
type Result struct {
	Endpoint string        `json:"endpoint"`
	Codec    view.Codec    `json:"codec"`
	Success  bool          `json:"success"`
	Adds     int           `json:"adds"`
	Removes  int           `json:"removes"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

type Options struct {
	// The origin sent when dialing tested servers.
	Origin    string
	UserAgent string

	// Called with the result of every smoke test run by the handler.
	SendResult func(context.Context, Result) error
}

// Run connects to the view stream of the requested server, looks at the
// requested bounds and waits for the first batch of commands.
func Run(ctx context.Context, opts Options, req Request) (Result, error) {
	start := time.Now()

	req.Codec = cmp.Or(req.Codec, view.CodecJSON)
	if req.Timeout <= 0 {
		req.Timeout = DefaultTimeout
	}
	bounds := DefaultBounds
	if req.Bounds != nil {
		bounds = *req.Bounds
	}

	res := Result{
		Endpoint: req.Endpoint,
		Codec:    req.Codec,
	}
	fail := func(err error) (Result, error) {
		res.Duration = time.Since(start)
		res.Error = err.Error()
		return res, err
	}

	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	conn, err := dial(ctx, opts, req)
	if err != nil {
		return fail(err)
	}
	defer conn.Close()

	// Unblocks reads when the context is canceled before the deadline.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	deadline, _ := ctx.Deadline()
	conn.SetDeadline(deadline)

	if err := sendBounds(conn, req.Codec, bounds); err != nil {
		return fail(errors.New("sending bounds failed").
			WithType(ErrTypeSmokeTestFailed).
			WithTag("endpoint", req.Endpoint).
			Wrap(err))
	}

	var data []byte
	if err := websocket.Message.Receive(conn, &data); err != nil {
		return fail(errors.New("receiving commands failed").
			WithType(ErrTypeSmokeTestFailed).
			WithTag("endpoint", req.Endpoint).
			Wrap(err))
	}

	cmds, err := view.Decode(req.Codec, data)
	if err != nil {
		return fail(errors.New("decoding commands failed").
			WithType(ErrTypeSmokeTestFailed).
			WithTag("endpoint", req.Endpoint).
			Wrap(err))
	}

	for _, c := range cmds {
		switch c.Type {
		case view.CmdAdd:
			res.Adds++
		case view.CmdRemove:
			res.Removes++
		}
	}

	res.Success = true
	res.Duration = time.Since(start)
	return res, nil
}

func dial(ctx context.Context, opts Options, req Request) (*websocket.Conn, error) {
	u, err := url.Parse(req.Endpoint)
	if err != nil {
		return nil, errors.New("parsing endpoint failed").
			WithType(ErrTypeSmokeTestFailed).
			WithTag("endpoint", req.Endpoint).
			Wrap(err)
	}
	u = u.JoinPath("view")
	u.RawQuery = url.Values{"codec": {string(req.Codec)}}.Encode()

	origin := cmp.Or(opts.Origin, "http://localhost")
	config, err := websocket.NewConfig(u.String(), origin)
	if err != nil {
		return nil, errors.New("creating websocket config failed").
			WithType(ErrTypeSmokeTestFailed).
			WithTag("endpoint", req.Endpoint).
			Wrap(err)
	}
	if opts.UserAgent != "" {
		config.Header.Set("User-Agent", opts.UserAgent)
	}

	deadline, _ := ctx.Deadline()
	config.Dialer = &net.Dialer{Deadline: deadline}

	conn, err := websocket.DialConfig(config)
	if err != nil {
		return nil, errors.New("dialing view stream failed").
			WithType(ErrTypeSmokeTestFailed).
			WithTag("endpoint", req.Endpoint).
			Wrap(err)
	}
	return conn, nil
}

func sendBounds(conn *websocket.Conn, codec view.Codec, bounds aabb.Box2f) error {
	req := wwebsocket.BoundsRequest{Bounds: bounds}

	if codec == view.CodecMsgpack {
		b, err := msgpack.Marshal(req)
		if err != nil {
			return err
		}
		return websocket.Message.Send(conn, b)
	}

	b, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return websocket.Message.Send(conn, string(b))
}

// HandleSmokeTest starts a smoke test described by the request body and
// reports its result with the SendResult option.
func HandleSmokeTest(ctx context.Context, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		b, err := io.ReadAll(r.Body)
		if err != nil {
			logs.WithTag("path", r.URL.Path).
				Warn(errors.New("reading body failed").Wrap(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var req Request
		if err := json.Unmarshal(b, &req); err != nil || req.Endpoint == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		go func() {
			res, err := Run(ctx, opts, req)
			if err != nil {
				logs.Warn(err)
			}

			if opts.SendResult == nil {
				return
			}
			if err := opts.SendResult(ctx, res); err != nil {
				logs.WithTag("endpoint", req.Endpoint).
					Warn(errors.New("sending smoke test result failed").Wrap(err))
			}
		}()

		w.WriteHeader(http.StatusAccepted)
	}
}
