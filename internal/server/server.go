// Package server exposes normalize, classify and solve over HTTP, along
// with the tool-call endpoint, health and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	gosolve "github.com/njchilds90/gosolve"
	"github.com/njchilds90/gosolve/internal/cache"
)

const defaultMaxBodyBytes = 1 << 20 // 1 MiB

// Options configures a Server. Zero values fall back to sensible defaults.
type Options struct {
	Logger       *zap.Logger
	Cache        cache.Cache          // nil disables result caching
	Registry     *prometheus.Registry // nil creates a private registry
	Unknown      string
	Language     language.Tag
	MaxBodyBytes int64
	// AllowedOrigins lists the CORS origins browsers may call from; nil
	// allows any origin.
	AllowedOrigins []string
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	logger   *zap.Logger
	cache    cache.Cache
	registry *prometheus.Registry
	metrics  *metrics
	validate *validator.Validate
	unknown  string
	lang     language.Tag
	maxBody  int64
	origins  []string
}

// New creates a Server.
func New(opts Options) *Server {
	s := &Server{
		logger:   opts.Logger,
		cache:    opts.Cache,
		registry: opts.Registry,
		validate: validator.New(),
		unknown:  opts.Unknown,
		lang:     opts.Language,
		maxBody:  opts.MaxBodyBytes,
		origins:  opts.AllowedOrigins,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.unknown == "" {
		s.unknown = gosolve.DefaultUnknown
	}
	if s.lang == language.Und {
		s.lang = language.English
	}
	if s.maxBody <= 0 {
		s.maxBody = defaultMaxBodyBytes
	}
	if len(s.origins) == 0 {
		s.origins = []string{"*"}
	}
	s.metrics = newMetrics(s.registry)
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.observe)
	r.Use(s.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Cache"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Get("/schema", s.schema)
	r.Post("/tool", s.tool)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/normalize", s.normalize)
		r.Post("/classify", s.classify)
		r.Post("/solve", s.solve)
		r.Post("/check", s.check)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("gosolve server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Also reached when the listener fails, in which case Shutdown is a no-op.
		<-gctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
