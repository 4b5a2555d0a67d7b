// Package httpserver wires the webhook and admin HTTP servers for the
// AppForge daemon.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/appforge/internal/config"
	derrors "git.home.luguber.info/inful/appforge/internal/errors"
	"git.home.luguber.info/inful/appforge/internal/server/handlers"
	smw "git.home.luguber.info/inful/appforge/internal/server/middleware"
)

// Options carries optional server dependencies.
type Options struct {
	// PrometheusHandler, when set, is exposed at /metrics on the admin port.
	PrometheusHandler http.Handler
}

// Server manages the HTTP endpoints (webhook, admin).
type Server struct {
	webhookServer *http.Server
	adminServer   *http.Server
	cfg           *config.Config
	opts          Options
	errorAdapter  *derrors.HTTPErrorAdapter

	// Handler modules
	buildHandlers      *handlers.BuildHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance. The queue serves both as
// the enqueue target for build requests and as the runtime the monitoring
// handlers report on.
func New(cfg *config.Config, queue Queue, opts Options) *Server {
	s := &Server{
		cfg:                cfg,
		opts:               opts,
		errorAdapter:       derrors.NewHTTPErrorAdapter(slog.Default()),
		buildHandlers:      handlers.NewBuildHandlers(cfg.Server.Secret, queue),
		monitoringHandlers: handlers.NewMonitoringHandlers(queue),
	}
	s.mchain = smw.Chain(slog.Default(), s.errorAdapter)
	return s
}

// Start binds and starts all HTTP servers.
func (s *Server) Start(ctx context.Context) error {
	// Pre-bind all required ports so we can fail fast with an aggregate error
	// instead of logging independent 'address already in use' lines after
	// partial initialization.
	type preBind struct {
		name string
		port int
		ln   net.Listener
	}
	binds := []preBind{
		{name: "webhook", port: s.cfg.Server.Port},
		{name: "admin", port: s.cfg.Server.AdminPort},
	}
	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		addr := fmt.Sprintf(":%d", binds[i].port)
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s port %d: %w", binds[i].name, binds[i].port, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return fmt.Errorf("http startup failed: %w", errors.Join(bindErrs...))
	}

	s.startWebhookServerWithListener(binds[0].ln)
	s.startAdminServerWithListener(binds[1].ln)

	slog.Info("HTTP servers started",
		slog.Int("webhook_port", s.cfg.Server.Port),
		slog.Int("admin_port", s.cfg.Server.AdminPort),
		slog.String("webhook_path", s.cfg.Server.WebhookPath))
	return nil
}

// Stop gracefully shuts down all HTTP servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.webhookServer != nil {
		if err := s.webhookServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("webhook server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	slog.Info("HTTP servers stopped")
	return nil
}

func (s *Server) webhookMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Server.WebhookPath, s.buildHandlers.HandleBuildRequest)
	return mux
}

func (s *Server) startWebhookServerWithListener(ln net.Listener) {
	s.webhookServer = &http.Server{
		Handler:      s.mchain(s.webhookMux()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.startServerWithListener("webhook", s.webhookServer, ln)
}

func (s *Server) startAdminServerWithListener(ln net.Listener) {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("/health", s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("/status", s.monitoringHandlers.HandleStatus)
	mux.HandleFunc("/tasks", s.monitoringHandlers.HandleTasks)
	if s.opts.PrometheusHandler != nil {
		mux.Handle("/metrics", s.opts.PrometheusHandler)
	}

	s.adminServer = &http.Server{
		Handler:      s.mchain(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.startServerWithListener("admin", s.adminServer, ln)
}

// startServerWithListener launches an http.Server on a pre-bound listener,
// standardizing goroutine startup and error logging across server types.
func (s *Server) startServerWithListener(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		var err error
		if ln != nil {
			err = srv.Serve(ln)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s server error", kind), "error", err)
		}
	}()
}
