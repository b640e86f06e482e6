package smoketest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/worldgrid/aabb"
	"github.com/aukilabs/worldgrid/view"
	wwebsocket "github.com/aukilabs/worldgrid/websocket"
	"github.com/aukilabs/worldgrid/world"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

// newServer starts a worldgrid view stream over a 4x4 grass world.
func newServer(t *testing.T) string {
	t.Helper()

	w, err := world.New(world.DefaultConfig())
	require.NoError(t, err)

	for p := range aabb.Points2(aabb.NewBox2(aabb.IVec2{X: 0, Y: 0}, aabb.IVec2{X: 4, Y: 4})) {
		w.InsertTile(world.Tile{Kind: world.SurfaceGrass, Position: p})
	}
	w.InsertBlock(world.Block{Kind: world.Dandelion, Position: aabb.IVec3{X: 1, Y: 1}})

	hub := view.NewHub(w)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	var mux http.ServeMux
	mux.Handle("/view", websocket.Server{
		Handler: func(conn *websocket.Conn) {
			wg.Add(1)
			defer wg.Done()
			defer conn.Close()

			h := &wwebsocket.ViewHandler{
				Hub:               hub,
				ClientIdleTimeout: time.Minute,
			}
			wwebsocket.Handle(ctx, conn, h)
		},
	})

	server := httptest.NewServer(&mux)
	t.Cleanup(func() {
		cancel()
		server.Close()
		wg.Wait()
		hub.Close()
	})

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestRun(t *testing.T) {
	endpoint := newServer(t)

	t.Run("json", func(t *testing.T) {
		res, err := Run(context.Background(), Options{}, Request{
			Endpoint: endpoint,
			Timeout:  time.Second * 5,
		})
		require.NoError(t, err)
		require.True(t, res.Success)
		require.Equal(t, view.CodecJSON, res.Codec)
		require.Equal(t, 17, res.Adds)
		require.Zero(t, res.Removes)
		require.Empty(t, res.Error)
	})

	t.Run("msgpack", func(t *testing.T) {
		bounds := aabb.NewBox2(aabb.Vec2f{X: 0, Y: 0}, aabb.Vec2f{X: 1, Y: 1})

		res, err := Run(context.Background(), Options{UserAgent: "smoketest"}, Request{
			Endpoint: endpoint,
			Codec:    view.CodecMsgpack,
			Bounds:   &bounds,
			Timeout:  time.Second * 5,
		})
		require.NoError(t, err)
		require.True(t, res.Success)
		require.Equal(t, 1, res.Adds)
	})

	t.Run("no response", func(t *testing.T) {
		bounds := aabb.NewBox2(aabb.Vec2f{X: 100, Y: 100}, aabb.Vec2f{X: 101, Y: 101})

		res, err := Run(context.Background(), Options{}, Request{
			Endpoint: endpoint,
			Bounds:   &bounds,
			Timeout:  time.Millisecond * 200,
		})
		require.Error(t, err)
		require.True(t, errors.IsType(err, ErrTypeSmokeTestFailed))
		require.False(t, res.Success)
		require.NotEmpty(t, res.Error)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		res, err := Run(context.Background(), Options{}, Request{
			Endpoint: "ws://127.0.0.1:1",
			Timeout:  time.Second,
		})
		require.Error(t, err)
		require.False(t, res.Success)
	})
}

func TestHandleSmokeTest(t *testing.T) {
	endpoint := newServer(t)

	t.Run("result is sent", func(t *testing.T) {
		results := make(chan Result, 1)
		handler := HandleSmokeTest(context.Background(), Options{
			SendResult: func(ctx context.Context, r Result) error {
				results <- r
				return nil
			},
		})

		body, err := json.Marshal(Request{Endpoint: endpoint, Timeout: time.Second * 5})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodPost, "/smoke-test", bytes.NewReader(body)))
		require.Equal(t, http.StatusAccepted, w.Code)

		select {
		case res := <-results:
			require.True(t, res.Success)
			require.Equal(t, endpoint, res.Endpoint)
		case <-time.After(time.Second * 5):
			t.Fatal("smoke test result not sent")
		}
	})

	t.Run("bad request", func(t *testing.T) {
		handler := HandleSmokeTest(context.Background(), Options{})

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodPost, "/smoke-test", strings.NewReader("{")))
		require.Equal(t, http.StatusBadRequest, w.Code)

		w = httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodPost, "/smoke-test", strings.NewReader("{}")))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		handler := HandleSmokeTest(context.Background(), Options{})

		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/smoke-test", nil))
		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
