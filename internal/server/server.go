// ABOUTME: Server orchestrator that builds the resolver, store, and web admin into one HTTP server
// ABOUTME: Manages listener setup, graceful shutdown, and health endpoints

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"tailscale.com/tsnet"

	"github.com/2389/admin-portal/internal/auth"
	"github.com/2389/admin-portal/internal/catalog"
	"github.com/2389/admin-portal/internal/config"
	"github.com/2389/admin-portal/internal/resolver"
	"github.com/2389/admin-portal/internal/store"
	"github.com/2389/admin-portal/internal/webadmin"
)

// shutdownTimeout bounds graceful shutdown after the run context is canceled
const shutdownTimeout = 5 * time.Second

// Server runs the admin portal HTTP server.
type Server struct {
	config      *config.Config
	resolver    *resolver.Resolver
	store       store.Store // nil when persistence is disabled
	httpServer  *http.Server
	tsnetServer *tsnet.Server
	webAdmin    *webadmin.Admin
	metrics     *metrics
	logger      *slog.Logger
}

// initStore opens the SQLite store, or returns nil when database.path is empty.
func initStore(cfg *config.Config) (store.Store, error) {
	if cfg.Database.Path == "" {
		return nil, nil
	}
	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return s, nil
}

// LoadCatalog reads the configured catalog file, or returns the built-in catalog.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Theming.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.Theming.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}

// LoadResolver builds the resolver from the configured catalog and adds every
// client saved in st on top of it. st may be nil.
func LoadResolver(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) (*resolver.Resolver, error) {
	cat, err := LoadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	res, err := cat.Build(logger)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}

	if st != nil {
		if err := restoreClients(ctx, res, st, logger); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// restoreClients adds persisted clients to the directory. Saved clients
// replace catalog clients with the same id.
func restoreClients(ctx context.Context, res *resolver.Resolver, st store.Store, logger *slog.Logger) error {
	records, err := st.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("restoring clients: %w", err)
	}
	for _, rec := range records {
		res.AddClient(rec.ID, rec.Client)
	}
	if len(records) > 0 {
		logger.Info("restored saved clients", "count", len(records))
	}
	return nil
}

// New creates a new Server with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	st, err := initStore(cfg)
	if err != nil {
		return nil, err
	}

	res, err := LoadResolver(context.Background(), cfg, st, logger)
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}

	return newServer(cfg, res, st, logger), nil
}

// newServer assembles the HTTP handler around an already-built resolver.
func newServer(cfg *config.Config, res *resolver.Resolver, st store.Store, logger *slog.Logger) *Server {
	s := &Server{
		config:   cfg,
		resolver: res,
		store:    st,
		logger:   logger.With("component", "server"),
	}

	sessions := auth.NewSessionManager([]byte(cfg.Auth.SessionSecret), cfg.Auth.SessionTTL)
	s.webAdmin = webadmin.New(res, sessions, st, webadmin.Config{
		Username:      cfg.Auth.Username,
		DefaultClient: cfg.Theming.DefaultClient,
		BaseURL:       cfg.BaseURL(),

		MaxLoginFailures: cfg.Auth.MaxLoginFailures,
		LoginLockout:     cfg.Auth.LoginLockout,
	}, logger)

	mux := http.NewServeMux()

	// Health endpoints - no auth required
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.handleReady)

	s.metrics = newMetrics(res)
	mux.Handle("GET /metrics", s.metrics.handler())

	s.webAdmin.RegisterRoutes(mux)
	s.logger.Info("admin web UI enabled",
		"base_url", cfg.BaseURL(),
		"themes", res.Themes().Len(),
		"clients", res.Directory().Len(),
		"persistent", st != nil,
	)

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           withRequestLogging(s.metrics.instrument(s.webAdmin.Recover(mux)), logger.With("component", "http")),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the server's root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Resolver returns the resolver the server renders with.
func (s *Server) Resolver() *resolver.Resolver {
	return s.resolver
}

// setupTCPListener creates a standard TCP listener for HTTP.
func (s *Server) setupTCPListener() (net.Listener, error) {
	s.logger.Info("starting admin portal", "http_addr", s.config.Server.HTTPAddr)

	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return nil, fmt.Errorf("listening on HTTP address: %w", err)
	}
	return ln, nil
}

// setupListener creates the listener based on configuration (Tailscale or TCP).
func (s *Server) setupListener(ctx context.Context) (net.Listener, error) {
	if s.config.Tailscale.Enabled {
		if s.config.Server.HTTPAddr != "" {
			s.logger.Warn("server.http_addr is ignored when tailscale is enabled",
				"http_addr", s.config.Server.HTTPAddr,
			)
		}
		return s.setupTailscaleListener(ctx)
	}
	return s.setupTCPListener()
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown (context canceled), or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.setupListener(ctx)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until the context is canceled, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := s.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// The run context is already canceled at this point.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown gracefully stops the HTTP server and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down admin portal")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", s.httpServer.Shutdown(ctx))
	s.webAdmin.Close()

	if s.tsnetServer != nil {
		errs = appendCloseError(errs, "tailscale shutdown", s.tsnetServer.Close())
	}
	if s.store != nil {
		errs = appendCloseError(errs, "store close", s.store.Close())
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK once the catalog is loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.resolver == nil || s.resolver.Themes().Len() == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("catalog not loaded"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "ready (%d themes, %d clients)", s.resolver.Themes().Len(), s.resolver.Directory().Len())
}
