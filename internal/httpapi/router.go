package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstage/internal/observability"
	"github.com/goliatone/go-formstage/pkg/orchestrator"
	"github.com/goliatone/go-formstage/pkg/templates"
)

// Route paths served by the router. The form endpoints match
// render.DefaultEndpoints.
const (
	PathPage    = "/"
	PathEvents  = "/events"
	PathNext    = "/stages/next"
	PathBack    = "/stages/back"
	PathRepeat  = "/repeats"
	PathHealth  = "/healthz"
	PathMetrics = "/metrics"
	PathAssets  = "/assets/"
)

const (
	defaultTimeout = 30 * time.Second
	maxFormBytes   = 1 << 20
)

type routerConfig struct {
	logger      *zap.Logger
	gatherer    prometheus.Gatherer
	middlewares []func(http.Handler) http.Handler
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

// WithLogger sets the logger used for request logs and handler errors.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *routerConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithGatherer exposes gatherer at /metrics. Without it the route is absent.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(cfg *routerConfig) {
		cfg.gatherer = gatherer
	}
}

// WithMiddleware appends middleware after the defaults.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// NewRouter constructs the chi router serving engine.
func NewRouter(engine *orchestrator.Orchestrator, opts ...Option) chi.Router {
	cfg := routerConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		observability.RequestLogger(cfg.logger),
		middleware.Recoverer,
		middleware.Timeout(defaultTimeout),
	)
	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	h := &handlers{engine: engine, logger: cfg.logger}
	r.Get(PathPage, h.page)
	r.Post(PathEvents, h.events)
	r.Post(PathNext, h.action(orchestrator.ActionNext))
	r.Post(PathBack, h.action(orchestrator.ActionBack))
	r.Post(PathRepeat, h.action(orchestrator.ActionRepeat))
	r.Get(PathHealth, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.gatherer != nil {
		r.Handle(PathMetrics, promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}
	r.Handle(PathAssets+"*", http.StripPrefix(PathAssets, http.FileServerFS(templates.AssetsFS())))
	return r
}
