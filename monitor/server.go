package monitor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/smilemakc/jobtree/logging"
	"github.com/smilemakc/jobtree/store"
)

// Server is the monitor's HTTP surface: a gin.Engine serving the
// status/history routes plus the WebSocket feed, backed by an optional
// store.EventRepository for history queries and an in-process hub for
// live pushes.
type Server struct {
	cfg        Config
	router     *gin.Engine
	httpServer *http.Server
	hub        *hub
	repo       *store.EventRepository
	auth       *Authenticator
	logger     *logging.Logger
}

// New builds a Server. repo may be nil — the history endpoint then
// reports 503 rather than failing to start. logger may be nil.
func New(cfg Config, repo *store.EventRepository, logger *logging.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		hub:    newHub(logger),
		repo:   repo,
		auth:   NewAuthenticator(cfg.JWTSecret),
		logger: logger,
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(gzip.Gzip(gzip.DefaultCompression))

	s.router.GET("/healthz", s.handleHealthz)

	protected := s.router.Group("/", s.auth.Middleware())
	protected.GET("/executions/:workflowID", s.handleExecutionHistory)
	protected.GET("/ws", s.handleWebSocket)
}

// Router exposes the underlying gin.Engine for tests and for callers
// that want to mount the monitor under an existing server.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Publish implements Publisher, forwarding to the live WebSocket feed.
func (s *Server) Publish(event ExecutionEvent) {
	s.hub.Publish(event)
}

// Run starts the HTTP server and blocks until a shutdown signal or a
// listener error, then gracefully drains in-flight requests.
func (s *Server) Run() error {
	if s.logger != nil {
		s.logger.Info("monitor: starting", "addr", s.cfg.Addr)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("monitor: listen: %w", err)
		}
		return nil
	case sig := <-sigCh:
		if s.logger != nil {
			s.logger.Info("monitor: shutdown signal received", "signal", sig.String())
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Error("monitor: graceful shutdown failed", "error", err)
		}
		return s.httpServer.Close()
	}
	return nil
}
