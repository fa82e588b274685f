// Package server serves a word cloud over HTTP.
//
// The page shell shows the cloud as inline SVG next to the details panel.
// Clicking a word posts its index to /api/select/{index}; the response is
// the panel HTML for that topic, and the selection is also pushed to
// WebSocket clients on /ws and, when configured, published on NATS.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/topiccloud/pkg/layout"
	"github.com/matzehuels/topiccloud/pkg/observability"
	"github.com/matzehuels/topiccloud/pkg/pipeline"
	"github.com/matzehuels/topiccloud/pkg/selection"
	"github.com/matzehuels/topiccloud/pkg/source"
)

// DefaultTitle is the page heading.
const DefaultTitle = "My Topics Challenge"

// Config holds the HTTP server settings.
type Config struct {
	Addr           string        `toml:"addr"`
	CORSOrigins    []string      `toml:"cors_origins"`
	NATSURL        string        `toml:"nats_url"`
	NATSSubject    string        `toml:"nats_subject"`
	Title          string        `toml:"title"`
	ReadTimeout    time.Duration `toml:"-"`
	WriteTimeout   time.Duration `toml:"-"`
	RequestTimeout time.Duration `toml:"-"`
}

// SetDefaults fills empty fields.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.NATSSubject == "" {
		c.NATSSubject = selection.DefaultSubject
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 60 * time.Second
	}
}

// Server represents the HTTP server.
type Server struct {
	cfg       Config
	runner    *pipeline.Runner
	source    source.Source
	opts      pipeline.Options
	logger    *log.Logger
	publisher *selection.Publisher
	hub       *Hub

	target layout.Target[*cloud]

	router *chi.Mux
	server *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithPublisher publishes every selection through p.
func WithPublisher(p *selection.Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server computing clouds from src with opts. The first
// cloud is computed by Reload, which callers run before serving.
func New(cfg Config, runner *pipeline.Runner, src source.Source, opts pipeline.Options, options ...Option) *Server {
	cfg.SetDefaults()
	s := &Server{
		cfg:    cfg,
		runner: runner,
		source: src,
		opts:   opts,
		logger: runner.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	s.hub = NewHub(s.logger, s.cfg.CORSOrigins)
	s.router = s.routes()
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) routes() *chi.Mux {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.observe)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// WebSocket endpoint, outside the request timeout
	router.Get("/ws", s.hub.ServeHTTP)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))

		r.Get("/", s.handleIndex)
		r.Get("/cloud.svg", s.handleSVG)

		r.Route("/api", func(r chi.Router) {
			r.Get("/health", s.handleHealth)
			r.Get("/scene", s.handleScene)
			r.Get("/topics/{index}", s.handleTopic)
			r.Post("/select/{index}", s.handleSelect)
			r.Post("/reload", s.handleReload)
		})
	})

	return router
}

// observe reports every response to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server and disconnects
// WebSocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.server.Shutdown(ctx)
}
