// Package server exposes the museum map over HTTP.
//
// The API has three parts. Stateless scene rendering ([Server] renders a
// scene for the query's viewport and caches the bytes by snapshot hash).
// Sessions, which mount one [mapview.View] per client and feed it gesture
// events, clicks and control presses. And the enrichment proxy, which
// forwards recognized label text to the webhook and relays the cleaned reply.
//
// Routes:
//
//	GET    /health
//	GET    /metrics
//	GET    /api/anchors
//	GET    /api/artifacts
//	GET    /api/scene
//	POST   /api/sessions
//	DELETE /api/sessions/{id}
//	POST   /api/sessions/{id}/events
//	POST   /api/sessions/{id}/click
//	POST   /api/sessions/{id}/controls/{action}
//	GET    /api/sessions/{id}/scene
//	GET    /api/sessions/{id}/detail
//	DELETE /api/sessions/{id}/detail
//	POST   /api/artifact
//	POST   /api/ask
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/museummap/pkg/anchor"
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/binder"
	"github.com/matzehuels/museummap/pkg/buildinfo"
	"github.com/matzehuels/museummap/pkg/cache"
	"github.com/matzehuels/museummap/pkg/enrich"
	"github.com/matzehuels/museummap/pkg/observability/prom"
	"github.com/matzehuels/museummap/pkg/session"
)

// DefaultSceneTTL is how long rendered scenes stay cached.
const DefaultSceneTTL = 10 * time.Minute

// Server serves the map API.
type Server struct {
	source   artifact.Source
	sessions session.Store
	anchors  []anchor.Anchor
	enrich   *enrich.Client
	cache    cache.Cache
	keyer    cache.Keyer
	sceneTTL time.Duration
	policy   binder.Policy
	metrics  *prom.Collector
	origins  []string
	logger   *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAnchors replaces the default anchor set.
func WithAnchors(anchors []anchor.Anchor) Option {
	return func(s *Server) { s.anchors = anchors }
}

// WithEnrichment enables /api/artifact and /api/ask. Without it both
// respond 501.
func WithEnrichment(c *enrich.Client) Option {
	return func(s *Server) { s.enrich = c }
}

// WithCache caches rendered scenes under keys from keyer.
func WithCache(c cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(s *Server) {
		s.cache = c
		s.keyer = keyer
		s.sceneTTL = ttl
	}
}

// WithPolicy sets the duplicate-slot policy for every snapshot the server binds.
func WithPolicy(p binder.Policy) Option {
	return func(s *Server) { s.policy = p }
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(c *prom.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New returns a server reading artifacts from src and keeping views in
// sessions. If src is also an [artifact.Store], /api/artifact?save=true
// stores enriched drafts in it.
func New(src artifact.Source, sessions session.Store, opts ...Option) *Server {
	s := &Server{
		source:   src,
		sessions: sessions,
		anchors:  anchor.Defaults(),
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		sceneTTL: DefaultSceneTTL,
		policy:   binder.PolicyFirst,
		origins:  []string{"*"},
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.instrument)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Artifact-ID", "X-Cache"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/anchors", s.handleAnchors)
		r.Get("/artifacts", s.handleArtifacts)
		r.Get("/scene", s.handleScene)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", s.handleDeleteSession)
				r.Post("/events", s.handleEvents)
				r.Post("/click", s.handleClick)
				r.Post("/controls/{action}", s.handleControl)
				r.Get("/scene", s.handleSessionScene)
				r.Get("/detail", s.handleDetail)
				r.Delete("/detail", s.handleCloseDetail)
			})
		})

		r.Post("/artifact", s.handleDescribe)
		r.Post("/ask", s.handleAsk)
	})

	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveHTTP(r.Method, route, status, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Museum map server is running",
		"version": buildinfo.Version,
	})
}
