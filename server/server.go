// Package server hosts turtle sessions behind an HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"turtle/canvas"
	"turtle/core"
	"turtle/engine"
	"turtle/events"
	"turtle/history"
	"turtle/logging"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CanvasFactory builds the starting canvas of a new session.
type CanvasFactory func() (*canvas.Canvas, error)

// Server serves the session API.
type Server struct {
	router       *gin.Engine
	registry     *registry
	metrics      *Metrics
	gatherer     prometheus.Gatherer
	newCanvas    CanvasFactory
	historyLimit int
	maxSteps     int
	logger       *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxSessions caps the number of hosted sessions.
func WithMaxSessions(n int) Option {
	return func(s *Server) { s.registry.max = n }
}

// WithHistoryLimit caps each session's undo stack. Zero means unlimited.
func WithHistoryLimit(n int) Option {
	return func(s *Server) { s.historyLimit = n }
}

// WithMaxSteps bounds how many instructions one REPEAT may unroll to in
// hosted sessions. Zero keeps engine.DefaultMaxSteps.
func WithMaxSteps(n int) Option {
	return func(s *Server) { s.maxSteps = n }
}

// WithRegistry registers the metrics on reg and serves them from /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = NewMetrics(reg)
		s.gatherer = reg
	}
}

// New creates a server whose sessions start from newCanvas.
func New(newCanvas CanvasFactory, opts ...Option) *Server {
	s := &Server{
		registry:  newRegistry(64),
		newCanvas: newCanvas,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		reg := prometheus.NewRegistry()
		s.metrics = NewMetrics(reg)
		s.gatherer = reg
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.routes(r)
	s.router = r
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	g := r.Group("/sessions")
	g.POST("", s.handleCreate)
	g.GET("/:id", s.handleGet)
	g.DELETE("/:id", s.handleDelete)
	g.POST("/:id/instructions", s.handleExecute)
	g.POST("/:id/program", s.handleProgram)
	g.POST("/:id/step", s.handleStep)
	g.POST("/:id/previous", s.handlePrevious)
	g.POST("/:id/next", s.handleNext)
	g.POST("/:id/clear", s.handleClear)
	g.GET("/:id/export/:format", s.handleExport)
	g.GET("/:id/events", s.handleEvents)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the number of hosted sessions.
func (s *Server) Sessions() int { return s.registry.len() }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// newSession wires a session's engine to its hub, the metrics and the log.
func (s *Server) newSession(h *hub, c *canvas.Canvas) *history.Session {
	sink := events.Fanout{
		events.Func(h.publish),
		s.metrics.Sink(),
		events.LogSink{Logger: s.logger},
	}
	e := engine.New(
		engine.WithSink(sink),
		engine.WithLogger(s.logger),
		engine.WithMaxSteps(s.maxSteps),
	)
	return history.New(c,
		history.WithEngine(e),
		history.WithLogger(s.logger),
		history.WithLimit(s.historyLimit),
	)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// lookup resolves the :id parameter or writes a 404.
func (s *Server) lookup(c *gin.Context) (*entry, bool) {
	e, err := s.registry.get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return e, true
}

// statusOf maps an error to its HTTP status and error code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND"
	case errors.Is(err, ErrTooManySessions):
		return http.StatusServiceUnavailable, "TOO_MANY_SESSIONS"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, errUnknownFormat):
		return http.StatusBadRequest, "UNKNOWN_FORMAT"
	case errors.Is(err, core.ErrSyntax):
		return http.StatusUnprocessableEntity, "SYNTAX_ERROR"
	case errors.Is(err, core.ErrRange):
		return http.StatusUnprocessableEntity, "RANGE_ERROR"
	case errors.Is(err, history.ErrNoPrevious), errors.Is(err, history.ErrNoNext):
		return http.StatusConflict, "HISTORY_NOOP"
	case errors.Is(err, history.ErrProgramEnd):
		return http.StatusConflict, "PROGRAM_END"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
