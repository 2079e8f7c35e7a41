// Package tasks serves the signed-in task list, editor and export routes.
package tasks

import (
	"errors"
	"net/http"

	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/modulehandler"
	"github.com/louisbranch/taskboard/internal/services/tasks/routepath"
)

// Module provides authenticated task routes.
type Module struct{}

// New returns a tasks module.
func New() Module {
	return Module{}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "tasks" }

// Mount wires task route handlers.
func (Module) Mount(deps module.Dependencies) (module.Mount, error) {
	if deps.Tasks == nil {
		return module.Mount{}, errors.New("task store is required")
	}
	mux := http.NewServeMux()
	svc := newService(deps)
	h := newHandlers(svc, modulehandler.NewBase(deps))
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.TasksPrefix, Handler: mux}, nil
}
