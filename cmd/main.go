package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/events"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/worldgrid/aabb"
	"github.com/aukilabs/worldgrid/featureflag"
	worldgridhttp "github.com/aukilabs/worldgrid/http"
	"github.com/aukilabs/worldgrid/smoketest"
	"github.com/aukilabs/worldgrid/spatial"
	"github.com/aukilabs/worldgrid/view"
	wwebsocket "github.com/aukilabs/worldgrid/websocket"
	"github.com/aukilabs/worldgrid/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

var (
	// The worldgrid version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "worldgrid_info",
		Help:        "Worldgrid information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr               string        `cli:""        env:"WORLDGRID_ADDR"                 help:"Listening address for viewer connections."`
	AdminAddr          string        `cli:""        env:"WORLDGRID_ADMIN_ADDR"           help:"Admin listening address."`
	LogLevel           string        `cli:""        env:"WORLDGRID_LOG_LEVEL"            help:"Log level (debug|info|warning|error)."`
	LogIndent          bool          `cli:""        env:"WORLDGRID_LOG_INDENT"           help:"Indent logs."`
	Seed               int64         `cli:""        env:"WORLDGRID_SEED"                 help:"The world generation seed."`
	GenerateRadius     int           `cli:""        env:"WORLDGRID_GENERATE_RADIUS"      help:"The radius of the area generated around the origin at startup."`
	MaxViewArea        float64       `cli:",hidden" env:"WORLDGRID_MAX_VIEW_AREA"        help:"The largest ground area a viewer can look at."`
	TileCellSize       int           `cli:",hidden" env:"WORLDGRID_TILE_CELL_SIZE"       help:"The grid cell size of the tile layer."`
	BlockCellSize      int           `cli:",hidden" env:"WORLDGRID_BLOCK_CELL_SIZE"      help:"The grid cell size of the block layers."`
	EntityCellSize     int           `cli:",hidden" env:"WORLDGRID_ENTITY_CELL_SIZE"     help:"The grid cell size of the entity layer."`
	VolumeThreshold    int           `cli:",hidden" env:"WORLDGRID_VOLUME_THRESHOLD"     help:"The query volume up to which queries enumerate points instead of scanning buckets."`
	ClientIdleTimeout  time.Duration `cli:",hidden" env:"WORLDGRID_CLIENT_IDLE_TIMEOUT"  help:"Time until an idle viewer will be disconnected."`
	LogSummaryInterval time.Duration `cli:",hidden" env:"WORLDGRID_LOG_SUMMARY_INTERVAL" help:"The duration between each log summary by connection."`
	Events             eventsConfig  `cli:",hidden" env:"-"                              help:"Event pusher configuration."`
	FeatureFlags       []string      `cli:",hidden" env:"WORLDGRID_FEATURE_FLAGS"        help:"Comma separated feature flags"`
	Version            bool          `cli:""        env:"-"                              help:"Show version."`
	Help               bool          `cli:""        env:"-"                              help:"Show help."`
}

type eventsConfig struct {
	Endpoint      string        `cli:",hidden" env:"WORLDGRID_EVENTS_ENDPOINT"       help:"Endpoint to where events are pushed."`
	FlushInterval time.Duration `cli:",hidden" env:"WORLDGRID_EVENTS_FLUSH_INTERVAL" help:"The duration between each event flush."`
	BatchSize     int           `cli:",hidden" env:"WORLDGRID_EVENTS_BATCH_SIZE"     help:"The maximum number of events sent at once."`
	QueueSize     int           `cli:",hidden" env:"WORLDGRID_EVENTS_QUEUE_SIZE"     help:"The size of the queue where events are stored."`
}

func main() {
	worldConfig := world.DefaultConfig()

	conf := config{
		Addr:               ":4100",
		AdminAddr:          ":18290",
		LogLevel:           logs.InfoLevel.String(),
		Seed:               time.Now().UnixNano(),
		GenerateRadius:     64,
		MaxViewArea:        wwebsocket.DefaultMaxArea,
		TileCellSize:       worldConfig.TileCellSize,
		BlockCellSize:      worldConfig.BlockCellSize,
		EntityCellSize:     worldConfig.EntityCellSize,
		VolumeThreshold:    worldConfig.VolumeThreshold,
		ClientIdleTimeout:  time.Minute * 5,
		LogSummaryInterval: time.Minute,
		Events: eventsConfig{
			FlushInterval: events.DefaultFlushInterval,
			BatchSize:     events.DefaultBatchSize,
			QueueSize:     events.DefaultQueueSize,
		},
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts worldgrid server.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	if conf.Events.Endpoint != "" {
		eventsPusher := events.Pusher{
			Endpoint:      conf.Events.Endpoint,
			FlushInterval: conf.Events.FlushInterval,
			BatchSize:     conf.Events.BatchSize,
			QueueSize:     conf.Events.QueueSize,
			Transport:     metrics.HTTPTransport(http.DefaultTransport),
		}
		go eventsPusher.Start()
		defer eventsPusher.Close()

		eventsLogger := events.Logger{
			Pusher:           &eventsPusher,
			SDKType:          "worldgrid",
			SDKVersionFamily: version,
		}
		logs.SetLogger(eventsLogger.Log)
	}

	featureFlags := featureflag.New(conf.FeatureFlags)

	w, err := world.New(world.Config{
		TileCellSize:    conf.TileCellSize,
		BlockCellSize:   conf.BlockCellSize,
		EntityCellSize:  conf.EntityCellSize,
		VolumeThreshold: conf.VolumeThreshold,
	})
	if err != nil {
		logs.Fatal(errors.New("creating world failed").Wrap(err))
	}

	featureFlags.IfSet(featureflag.FlagForceDirectQuery, func() {
		w.SetQueryStrategy(spatial.StrategyDirect)
	})
	featureFlags.IfSet(featureflag.FlagForceBucketQuery, func() {
		w.SetQueryStrategy(spatial.StrategyBuckets)
	})

	var generator *world.Generator
	featureFlags.IfNotSet(featureflag.FlagDisableGeneration, func() {
		generator = world.NewGenerator(w, conf.Seed)
	})

	var ready atomic.Bool
	go func() {
		defer ready.Store(true)

		if generator == nil {
			return
		}

		r := conf.GenerateRadius
		res := generator.Generate(aabb.NewBox2(aabb.IVec2{X: -r, Y: -r}, aabb.IVec2{X: r, Y: r}))
		logs.WithTag("world_id", w.ID).
			WithTag("seed", conf.Seed).
			WithTag("columns", res.Columns).
			WithTag("blocks", res.Blocks).
			Info("initial area generated")
	}()
	readinessCheck := ready.Load

	hub := view.NewHub(w)
	defer hub.Close()

	var service http.ServeMux
	service.Handle("/health", worldgridhttp.HandleWithCORS(http.HandlerFunc(worldgridhttp.HandleHealthCheck)))
	service.Handle("/version", worldgridhttp.HandleWithCORS(http.HandlerFunc(worldgridhttp.HandleVersion(version))))
	service.Handle("/ready", worldgridhttp.HandleWithCORS(http.HandlerFunc(worldgridhttp.HandleReadyCheck(readinessCheck))))

	featureFlags.IfNotSet(featureflag.FlagDisableViewStream, func() {
		service.Handle("/view", worldgridhttp.HandleWithCORS(websocket.Server{
			Handshake: func(c *websocket.Config, r *http.Request) error {
				return nil
			},
			Handler: func(conn *websocket.Conn) {
				defer conn.Close()

				var h wwebsocket.Handler = &wwebsocket.ViewHandler{
					Hub:               hub,
					Generator:         generator,
					MaxArea:           conf.MaxViewArea,
					ClientIdleTimeout: conf.ClientIdleTimeout,
				}
				h = wwebsocket.HandlerWithLogs(h, conf.LogSummaryInterval)
				h = wwebsocket.HandlerWithMetrics(h)
				defer h.Close()

				wwebsocket.Handle(ctx, conn, h)
			},
		}))
	})

	service.Handle("/ping", websocket.Server{
		Handler: func(ws *websocket.Conn) {
			defer ws.Close()
			io.Copy(ws, ws)
		},
	})

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", worldgridhttp.HandleHealthCheck)
	admin.HandleFunc("/ready", worldgridhttp.HandleReadyCheck(readinessCheck))
	admin.HandleFunc("/debug/spatial", worldgridhttp.HandleDebugSpatial(w))
	admin.HandleFunc("/smoke-test", smoketest.HandleSmokeTest(ctx, smoketest.Options{
		UserAgent: "worldgrid/" + version,
		SendResult: func(ctx context.Context, res smoketest.Result) error {
			logs.WithTag("endpoint", res.Endpoint).
				WithTag("codec", res.Codec).
				WithTag("success", res.Success).
				WithTag("adds", res.Adds).
				WithTag("duration", res.Duration).
				Info("smoke test done")
			return nil
		},
	}))
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("world_id", w.ID).
		WithTag("feature_flags", conf.FeatureFlags).
		Info("starting worldgrid server")

	worldgridhttp.ListenAndServe(ctx,
		&http.Server{Addr: conf.Addr, Handler: metrics.HTTPHandler(&service,
			worldgridhttp.MetricsPathFormatter)},
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)
}

func validateConfig(conf config) error {
	if conf.GenerateRadius < 0 {
		return errors.New("generate radius must not be negative").
			WithTag("generate_radius", conf.GenerateRadius)
	}

	if conf.MaxViewArea <= 0 {
		return errors.New("max view area must be positive").
			WithTag("max_view_area", conf.MaxViewArea)
	}

	if conf.ClientIdleTimeout <= 0 {
		return errors.New("client idle timeout must be positive").
			WithTag("client_idle_timeout", conf.ClientIdleTimeout)
	}

	if conf.LogSummaryInterval <= 0 {
		return errors.New("log summary interval must be positive").
			WithTag("log_summary_interval", conf.LogSummaryInterval)
	}

	return nil
}
