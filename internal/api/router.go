package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/creamcroissant/ansine/internal/api/handler"
	"github.com/creamcroissant/ansine/internal/api/middleware"
	"github.com/creamcroissant/ansine/internal/config"
	"github.com/creamcroissant/ansine/internal/metrics"
)

// Options carry everything the router needs; all fields except Store are
// optional.
type Options struct {
	Logger          *slog.Logger
	Store           *metrics.Store
	Services        config.ServiceMap
	RefreshInterval int
	Telemetry       bool
	AssetsDir       string
}

// NewRouter wires the dashboard endpoints:
//
//	GET /                  rendered index page
//	GET /metrics           current snapshot as JSON
//	GET /api/services      configured service links
//	GET /assets/*          front-end assets (embedded or external dir)
//	GET /healthz           liveness
//	GET /_internal/metrics Prometheus telemetry (when enabled)
func NewRouter(opts Options) (http.Handler, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("router requires a snapshot store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
		chiMiddleware.Recoverer,
	)

	loggingCfg := middleware.DefaultLoggingConfig()
	loggingCfg.Logger = logger
	r.Use(middleware.StructuredLogger(loggingCfg))

	if opts.Telemetry {
		mCfg := middleware.DefaultMetricsConfig()
		r.Use(middleware.NewMetrics(mCfg).Middleware(mCfg))
		r.Handle("/_internal/metrics", promhttp.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	statusHandler := handler.NewStatusHandler(opts.Store)
	r.Get("/metrics", statusHandler.Metrics)

	servicesHandler := handler.NewServicesHandler(opts.Services)
	r.Get("/api/services", servicesHandler.List)

	page, err := newIndexPage(opts.Services, opts.RefreshInterval)
	if err != nil {
		return nil, err
	}
	r.Get("/", serveIndex(page))

	assets, err := getFileSystem(opts.AssetsDir)
	if err != nil {
		return nil, fmt.Errorf("assets filesystem: %w", err)
	}
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(assets)))

	return r, nil
}
