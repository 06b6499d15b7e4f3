package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/getstubd/stubd/internal/routing"
	"github.com/getstubd/stubd/pkg/config"
	"github.com/getstubd/stubd/pkg/logging"
	"github.com/getstubd/stubd/pkg/metrics"
	"github.com/getstubd/stubd/pkg/objectstore"
)

// Registrar populates a fresh route table. It runs once at startup and
// again on every reload; when it fails the table it was given is
// discarded and the previous table stays installed.
type Registrar func(*routing.Table) error

// Server ties the dispatcher, the object store, and the HTTP listener
// together.
type Server struct {
	cfg        *config.Config
	store      objectstore.Store
	registrar  Registrar
	dispatcher *routing.Dispatcher
	metrics    *metrics.Registry
	log        *slog.Logger

	httpServer *http.Server

	mu        sync.Mutex
	running   bool
	startTime time.Time
	addr      string
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStore sets the object store backing store-bound routes.
func WithStore(store objectstore.Store) ServerOption {
	return func(s *Server) {
		s.store = store
	}
}

// WithRegistrar replaces the registrar derived from the config's route
// entries. Use this to register handlers programmatically.
func WithRegistrar(r Registrar) ServerOption {
	return func(s *Server) {
		s.registrar = r
	}
}

// NewServer creates a Server and builds the initial route table. It
// fails when the registrar rejects the configuration, so a server that
// constructed successfully always has a working table.
func NewServer(cfg *config.Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		cfg:     cfg,
		log:     logging.Nop(),
		metrics: metrics.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = objectstore.NewInMemoryStore()
	}
	if s.registrar == nil {
		s.registrar = config.BuildRegistrar(cfg, s.store)
	}

	table := routing.NewTable()
	if err := s.registrar(table); err != nil {
		return nil, fmt.Errorf("failed to build route table: %w", err)
	}
	s.dispatcher = routing.NewDispatcher(table)
	s.dispatcher.SetLogger(s.log)

	return s, nil
}

// Store returns the object store.
func (s *Server) Store() objectstore.Store {
	return s.store
}

// Routes lists the currently registered routes in registration order.
func (s *Server) Routes() []routing.RouteInfo {
	return s.dispatcher.Table().Routes()
}

// Handler returns the HTTP handler. Useful for tests and embedding.
func (s *Server) Handler() http.Handler {
	return &httpAdapter{srv: s}
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	listener, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.Addr(), err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("starting server", "addr", listener.Addr().String(), "routes", s.dispatcher.Table().Len())
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", "error", err)
		}
	}()

	s.running = true
	s.startTime = time.Now()
	s.addr = listener.Addr().String()
	return nil
}

// Addr returns the bound listen address, useful when the configured
// port was 0.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
		s.httpServer = nil
	}
	s.running = false
	return err
}

// IsRunning reports whether the listener is up.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Reload rebuilds the route table by running the registrar against a
// fresh table and swaps it in atomically. On failure the previous table
// stays installed and keeps serving.
func (s *Server) Reload() error {
	table := routing.NewTable()
	if err := s.registrar(table); err != nil {
		s.metrics.RecordReload(false)
		s.log.Error("reload failed, keeping previous routes", "error", err)
		return err
	}
	s.dispatcher.Swap(table)
	s.metrics.RecordReload(true)
	s.log.Info("routes reloaded", "routes", table.Len())
	return nil
}

// SetRegistrar installs a new registrar and reloads from it. Used when
// the configuration file changed on disk.
func (s *Server) SetRegistrar(r Registrar) error {
	if r == nil {
		return fmt.Errorf("registrar cannot be nil")
	}
	old := s.registrar
	s.registrar = r
	if err := s.Reload(); err != nil {
		s.registrar = old
		return err
	}
	return nil
}

// Metrics returns the server's counter registry.
func (s *Server) Metrics() *metrics.Registry {
	return s.metrics
}
