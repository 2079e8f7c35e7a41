// Package tasks hosts the task tracking web service.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/taskboard/internal/platform/id"
	"github.com/louisbranch/taskboard/internal/platform/timeouts"
	tasksapp "github.com/louisbranch/taskboard/internal/services/tasks/app"
	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/modules"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/httpx"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/observability"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/requestmeta"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/sessioncookie"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage"
	"github.com/louisbranch/taskboard/internal/services/tasks/user"
	"github.com/louisbranch/taskboard/internal/services/tasks/websession"
)

// Config defines startup inputs for the task service.
type Config struct {
	HTTPAddr            string
	Store               storage.Store
	SessionSecret       string
	SessionTTL          time.Duration
	TrustForwardedProto bool
	BcryptCost          int
	Logger              *log.Logger
	Now                 func() time.Time
}

// Server hosts the task HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler with the default modules.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	signer, err := sessioncookie.NewSigner(cfg.SessionSecret, now)
	if err != nil {
		return nil, fmt.Errorf("session signer: %w", err)
	}
	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	sessions, err := websession.NewManager(websession.Config{
		Store:        cfg.Store,
		Signer:       signer,
		TTL:          cfg.SessionTTL,
		SchemePolicy: policy,
		Now:          now,
	})
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	principal := newPrincipalResolver(sessions, cfg.Store)
	deps := module.Dependencies{
		Users:           cfg.Store,
		Tasks:           cfg.Store,
		Sessions:        sessions,
		Hasher:          user.Hasher{Cost: cfg.BcryptCost},
		Now:             now,
		NewID:           id.NewID,
		SchemePolicy:    policy,
		ResolveUserID:   principal.resolveRequestUserID,
		ResolveViewer:   principal.resolveViewer,
		ResolveLanguage: principal.resolveRequestLanguage,
	}
	h, err := tasksapp.Compose(tasksapp.ComposeInput{
		Dependencies:     deps,
		AuthRequired:     principal.authRequired(),
		PublicModules:    modules.DefaultPublicModules(),
		ProtectedModules: modules.DefaultProtectedModules(),
	})
	if err != nil {
		return nil, err
	}
	return httpx.Chain(h,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		withRequestPrincipalState(),
		observability.RequestLogger(logger),
	), nil
}

// NewServer validates config and constructs a task server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose tasks handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("tasks server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown tasks http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve tasks http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
