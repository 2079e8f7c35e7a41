// Package modules lists the feature modules composed into the task service.
package modules

import (
	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/modules/public"
	"github.com/louisbranch/taskboard/internal/services/tasks/modules/tasks"
)

// DefaultPublicModules returns modules served without a session.
func DefaultPublicModules() []module.Module {
	return []module.Module{
		public.New(),
	}
}

// DefaultProtectedModules returns modules mounted under /app/.
func DefaultProtectedModules() []module.Module {
	return []module.Module{
		tasks.New(),
	}
}
