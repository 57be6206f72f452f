// Package gateway exposes a dispatch manager over HTTP and WebSocket.
//
// Every WebSocket message is handled on its own goroutine, so one
// connection may have several commands in flight against the shared
// manager. Writes to a connection are serialised.
package gateway

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	mdwlog "github.com/msto63/cmdcore/foundation/core/log"
	"github.com/msto63/cmdcore/internal/audit"
	"github.com/msto63/cmdcore/pkg/core/cache"
	"github.com/msto63/cmdcore/pkg/core/config"
	"github.com/msto63/cmdcore/pkg/core/dispatch"
	"github.com/msto63/cmdcore/pkg/core/health"
	"github.com/msto63/cmdcore/pkg/core/message"
	"github.com/msto63/cmdcore/pkg/core/sender"
	"github.com/msto63/cmdcore/pkg/core/version"
)

// Config holds the gateway settings.
type Config struct {
	Address        string
	RatePerSecond  float64
	Burst          int
	MaxMessageSize int64
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	CompletionTTL  time.Duration
	CompletionSize int
	AllowedOrigins []string
}

// ConfigFrom converts the gateway section of the application config.
func ConfigFrom(cfg *config.Config) Config {
	g := cfg.Gateway
	return Config{
		Address:        cfg.GatewayAddress(),
		RatePerSecond:  g.RatePerSecond,
		Burst:          g.Burst,
		MaxMessageSize: g.MaxMessageSize,
		WriteTimeout:   g.WriteTimeout.Duration,
		PongTimeout:    g.PongTimeout.Duration,
		CompletionTTL:  g.CompletionTTL.Duration,
		CompletionSize: g.CompletionSize,
		AllowedOrigins: g.AllowedOrigins,
	}
}

func (c Config) withDefaults() Config {
	if c.Address == "" {
		c.Address = "127.0.0.1:8095"
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 4096
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.PongTimeout <= 0 {
		c.PongTimeout = 60 * time.Second
	}
	if c.CompletionTTL <= 0 {
		c.CompletionTTL = 30 * time.Second
	}
	if c.CompletionSize <= 0 {
		c.CompletionSize = 1000
	}
	return c
}

// SenderFunc returns the sender acting under name.
type SenderFunc func(name string) sender.Sender

// Recorder stores dispatch audit entries.
type Recorder interface {
	Record(ctx context.Context, e *audit.Entry) error
}

// pinger is implemented by recorders that can report their availability.
type pinger interface {
	Ping(ctx context.Context) error
}

// Options wires the gateway's collaborators. Manager is required.
type Options struct {
	Manager  *dispatch.Manager
	Messages *message.Handler
	// Senders defaults to sender.Named.
	Senders SenderFunc
	// Audit is optional.
	Audit  Recorder
	Logger *mdwlog.Logger
}

// Server is the HTTP and WebSocket gateway.
type Server struct {
	cfg         Config
	manager     *dispatch.Manager
	messages    *message.Handler
	senders     SenderFunc
	audit       Recorder
	completions *cache.CompletionCache
	health      *health.Registry
	logger      *mdwlog.Logger
	upgrader    websocket.Upgrader
	router      chi.Router
	httpServer  *http.Server
}

// New creates a gateway. Close releases the completion cache.
func New(cfg Config, opts Options) (*Server, error) {
	if opts.Manager == nil {
		return nil, mdwerror.New("gateway needs a dispatch manager").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("gateway.New")
	}
	cfg = cfg.withDefaults()
	if opts.Messages == nil {
		opts.Messages = message.New(nil)
	}
	if opts.Senders == nil {
		opts.Senders = func(name string) sender.Sender { return sender.Named(name) }
	}
	if opts.Logger == nil {
		opts.Logger = mdwlog.NewNop()
	}

	s := &Server{
		cfg:         cfg,
		manager:     opts.Manager,
		messages:    opts.Messages,
		senders:     opts.Senders,
		audit:       opts.Audit,
		completions: cache.NewCompletionCache(cfg.CompletionSize, cfg.CompletionTTL),
		health:      health.NewRegistry("cmdcore-gateway", version.Version),
		logger:      opts.Logger.WithField("component", "gateway"),
	}
	s.registerHealthChecks()
	s.manager.OnChange(s.InvalidateCompletions)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/commands", s.handleCommands)
	r.Get("/ws", s.handleWS)
	return r
}

// Handler returns the gateway's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// InvalidateCompletions drops cached completion results. The server calls
// it whenever its manager's commands or converters change.
func (s *Server) InvalidateCompletions() {
	s.completions.Invalidate()
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	s.logger.Info("gateway listening", mdwlog.Fields{"address": s.cfg.Address})

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("gateway shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return mdwerror.Wrap(err, "gateway stopped").
			WithCode(mdwerror.CodeNetworkError).
			WithOperation("gateway.Start").
			WithDetail("address", s.cfg.Address)
	}
}

// Close releases background resources.
func (s *Server) Close() {
	s.completions.Close()
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, "*") || slices.Contains(s.cfg.AllowedOrigins, origin)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request", mdwlog.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
			"remote":   r.RemoteAddr,
		})
	})
}

func (s *Server) registerHealthChecks() {
	s.health.RegisterFunc("commands", func(ctx context.Context) health.CheckResult {
		n := s.manager.Len()
		result := health.CheckResult{
			Status:  health.StatusHealthy,
			Details: map[string]interface{}{"paths": n},
		}
		if n == 0 {
			result.Status = health.StatusDegraded
			result.Message = "no commands registered"
		}
		return result
	})

	s.health.RegisterFunc("completion_cache", func(ctx context.Context) health.CheckResult {
		hits, misses, rate := s.completions.Stats()
		return health.CheckResult{
			Status:  health.StatusHealthy,
			Details: map[string]interface{}{"hits": hits, "misses": misses, "hit_rate": rate},
		}
	})

	if p, ok := s.audit.(pinger); ok {
		s.health.RegisterFunc("audit", func(ctx context.Context) health.CheckResult {
			if err := p.Ping(ctx); err != nil {
				return health.CheckResult{Status: health.StatusUnhealthy, Message: err.Error()}
			}
			return health.CheckResult{Status: health.StatusHealthy}
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	report := s.health.Check(ctx)
	writeJSON(w, report.HTTPStatus(), report)
}

func (s *Server) handleCommands(w http.ResponseWriter, _ *http.Request) {
	commands := s.manager.Commands()
	if commands == nil {
		commands = []dispatch.CommandInfo{}
	}
	writeJSON(w, http.StatusOK, commands)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
