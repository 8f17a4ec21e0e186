// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

// Package web exposes the authentication HTTP API.
package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/oops"

	"github.com/techydad05/skbp/internal/auth"
	"github.com/techydad05/skbp/internal/observability"
)

// Server serves the authentication API:
//
//	POST /api/auth     login / register / logout, multiplexed by action
//	GET  /profile      safe user view for the current session
//	POST /profile      form-encoded profile update
type Server struct {
	addr       string
	svc        *auth.Service
	logger     *slog.Logger
	metrics    *observability.Metrics // optional
	cookies    cookieWriter
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// Options configures optional server behavior.
type Options struct {
	// CookieSecure sets the Secure attribute on session cookies. Off by
	// default so local HTTP development works; production config enables it.
	CookieSecure bool

	// Metrics receives auth and HTTP counters when non-nil.
	Metrics *observability.Metrics

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// NewServer creates the API server.
func NewServer(addr string, svc *auth.Service, opts Options) (*Server, error) {
	if svc == nil {
		return nil, oops.Code("WEB_SERVER_INVALID").Errorf("auth service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:    addr,
		svc:     svc,
		logger:  logger,
		metrics: opts.Metrics,
		cookies: cookieWriter{secure: opts.CookieSecure},
	}, nil
}

// Router builds the HTTP handler. Exposed so tests can drive the full
// middleware stack without a listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(s.HTTPMetrics)
	r.Use(Recoverer(s.logger))

	r.Post("/api/auth", s.handleAuth)

	r.Group(func(r chi.Router) {
		r.Use(s.RequireSession)
		r.Get("/profile", s.handleGetProfile)
		r.Post("/profile", s.handleUpdateProfile)
	})

	return r
}

// Start begins serving the API. It returns an error channel that receives
// any error from the HTTP server after it starts; the channel is closed
// when the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("web server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("web server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown web server").Wrap(err)
		}
	}

	s.logger.Info("web server stopped")
	return nil
}

// Addr returns the address the server is listening on, or empty if not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) countLogin(status string) {
	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Server) countRegistration(status string) {
	if s.metrics != nil {
		s.metrics.RegistrationsTotal.WithLabelValues(status).Inc()
	}
}

func (s *Server) countValidation(result string) {
	if s.metrics != nil {
		s.metrics.ValidationsTotal.WithLabelValues(result).Inc()
	}
}
