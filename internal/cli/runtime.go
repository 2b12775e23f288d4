package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sembako/internal/config"
	"sembako/internal/core"
	sembakolog "sembako/internal/log"
	"sembako/internal/shell"
	"sembako/pkg/domain"
)

const metricsShutdownTimeout = 5 * time.Second

// runtime is everything a command needs once configuration is resolved.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
}

func (r *runtime) Close() error {
	return r.closer.Close()
}

func loadRuntime(deps commandDeps) (*runtime, error) {
	overrides := map[string]any{}
	if deps.globals.StorageDriver != "" {
		overrides["storage.driver"] = deps.globals.StorageDriver
	}
	if deps.globals.LogLevel != "" {
		overrides["logging.level"] = deps.globals.LogLevel
	}
	cfg, err := config.Load(config.LoadOptions{ConfigFile: deps.globals.ConfigFile, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	logger, closer, err := sembakolog.New(cfg.Logging, deps.io.ErrOut)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger, closer: closer}, nil
}

// runShell connects the configured store and runs the menu until exit. A
// store that cannot be reached leaves the menu running in degraded mode.
func runShell(ctx context.Context, deps commandDeps) error {
	rt, err := loadRuntime(deps)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	store, err := core.OpenStore(ctx, rt.cfg.Storage)
	var connErr *domain.ConnectionError
	switch {
	case err == nil:
		fmt.Fprintln(deps.io.Out, "Koneksi ke database berhasil.")
	case errors.As(err, &connErr):
		rt.logger.Error("storage unavailable", "driver", connErr.Driver, "error", connErr.Err)
		fmt.Fprintf(deps.io.ErrOut, "Koneksi gagal: %v\n", connErr.Err)
		store = core.NewUnavailableStore(connErr)
	default:
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			rt.logger.Warn("close store", "error", err)
		}
	}()

	mirror := core.NewMirror()
	opts := []core.Option{core.WithLogger(rt.logger)}
	if rt.cfg.Metrics.Addr != "" {
		metrics, err := startMetrics(rt.cfg.Metrics.Addr, mirror, rt.logger)
		if err != nil {
			return err
		}
		defer metrics.stop()
		opts = append(opts, core.WithMetricsRecorder(metrics.recorder))
	}

	svc := core.NewService(store, mirror, opts...)
	return shell.New(svc, deps.io.In, deps.io.Out, deps.io.ErrOut).Run(ctx)
}

type metricsServer struct {
	recorder *core.PrometheusRecorder
	addr     string
	srv      *http.Server
	logger   *slog.Logger
}

// startMetrics serves /metrics on addr from a dedicated registry.
func startMetrics(addr string, mirror *core.Mirror, logger *slog.Logger) (*metricsServer, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}
	recorder, err := core.NewPrometheusRecorder(reg)
	if err != nil {
		return nil, err
	}
	if err := core.RegisterMirrorGauge(reg, mirror); err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	m := &metricsServer{
		recorder: recorder,
		addr:     ln.Addr().String(),
		srv:      &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		logger:   logger,
	}
	go func() {
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", m.addr)
	return m, nil
}

func (m *metricsServer) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	if err := m.srv.Shutdown(ctx); err != nil {
		m.logger.Warn("metrics shutdown", "error", err)
	}
}
