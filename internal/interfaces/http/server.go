package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/seekr-io/seekr/internal/platform/logging"
)

const (
	defaultReadTimeout       = 30 * time.Second
	defaultWriteTimeout      = 60 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 30 * time.Second
)

// ServerConfig holds HTTP listener tunables. Host/Port come from
// internal/config.ServerConfig; the timeouts carry sensible defaults a
// caller rarely needs to override.
type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

func (c *ServerConfig) applyDefaults() {
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
}

func (c *ServerConfig) listenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Server wraps net/http.Server with start/graceful-shutdown lifecycle
// management, matching the cooperative shutdown sequence: stop accepting
// new connections, then let in-flight requests drain up to ShutdownTimeout.
type Server struct {
	httpServer *http.Server
	config     ServerConfig
	logger     logging.Logger
	listener   net.Listener
	started    atomic.Bool
	actualAddr string
}

// NewServer constructs a Server bound to handler. No connection is
// accepted until Start is called.
func NewServer(cfg ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	cfg.applyDefaults()
	return &Server{
		config: cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              cfg.listenAddr(),
			Handler:           handler,
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
		},
	}
}

// Start listens and serves until ctx is cancelled, at which point it
// performs a graceful shutdown and returns nil. A listen or serve failure
// returns a non-nil error immediately.
func (s *Server) Start(ctx context.Context) error {
	if s.started.Load() {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", s.config.listenAddr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.listenAddr(), err)
	}
	s.listener = ln
	s.actualAddr = ln.Addr().String()
	s.started.Store(true)

	s.logger.Info("http server starting", logging.String("address", s.actualAddr))

	serveCh := make(chan error, 1)
	go func() { serveCh <- s.httpServer.Serve(ln) }()

	select {
	case <-ctx.Done():
		s.logger.Info("http server shutdown signal received")
		shutdownErr := s.Shutdown(context.Background())
		serveErr := <-serveCh
		if shutdownErr != nil {
			return shutdownErr
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return serveErr
		}
		return nil

	case err := <-serveCh:
		s.started.Store(false)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown gracefully stops accepting connections and waits up to
// ShutdownTimeout for active requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.started.Load() {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.started.Store(false)
	if err != nil {
		s.logger.Error("http server shutdown error", logging.Err(err))
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// Addr returns the address actually bound, useful when Port is 0.
func (s *Server) Addr() string { return s.actualAddr }
