// Package public serves the unauthenticated surface: home, signup, login,
// logout and health.
package public

import (
	"errors"
	"net/http"

	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/modulehandler"
	"github.com/louisbranch/taskboard/internal/services/tasks/routepath"
)

// Module provides public auth routes.
type Module struct{}

// New returns a public module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "public" }

// Mount wires public route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Users == nil {
		return module.Mount{}, errors.New("user store is required")
	}
	if deps.Sessions == nil {
		return module.Mount{}, errors.New("session manager is required")
	}
	if deps.Hasher == nil {
		return module.Mount{}, errors.New("password hasher is required")
	}
	mux := http.NewServeMux()
	svc := newService(deps)
	h := newHandlers(svc, deps.Sessions, modulehandler.NewBase(deps))
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
