// Package app composes task service modules into a root handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/requestmeta"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/sessioncookie"
	"github.com/louisbranch/taskboard/internal/services/tasks/routepath"
)

const defaultLoginPath = routepath.Login

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	Dependencies     module.Dependencies
	AuthRequired     func(*http.Request) bool
	PublicModules    []module.Module
	ProtectedModules []module.Module
}

// Compose builds a root HTTP handler from module groups. Protected modules
// must mount under /app/ and are wrapped with the auth redirect and the
// same-origin check.
func Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	if input.AuthRequired == nil {
		input.AuthRequired = func(*http.Request) bool { return false }
	}
	seen := make(map[string]string)

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, fmt.Errorf("public module is nil")
		}
		mount, prefix, err := resolveMount(feature, input.Dependencies)
		if err != nil {
			return nil, err
		}
		if isProtectedPrefix(prefix) {
			return nil, fmt.Errorf("module %q has protected prefix %q in public group", feature.ID(), prefix)
		}
		if err := mountModule(root, feature, mount.Handler, prefix, seen); err != nil {
			return nil, err
		}
	}

	wrap := wrapProtectedModule(input.AuthRequired, input.Dependencies.SchemePolicy)
	for _, feature := range input.ProtectedModules {
		if feature == nil {
			return nil, fmt.Errorf("protected module is nil")
		}
		mount, prefix, err := resolveMount(feature, input.Dependencies)
		if err != nil {
			return nil, err
		}
		if !isProtectedPrefix(prefix) || prefix == routepath.AppPrefix {
			return nil, fmt.Errorf("module %q must mount under %s, got %q", feature.ID(), routepath.AppPrefix, prefix)
		}
		if err := mountModule(root, feature, wrap(mount.Handler), prefix, seen); err != nil {
			return nil, err
		}
		// Serve the bare prefix directly instead of the mux's trailing-slash redirect.
		root.Handle(strings.TrimSuffix(prefix, "/"), wrap(mount.Handler))
	}

	return root, nil
}

func mountModule(root *http.ServeMux, feature module.Module, handler http.Handler, prefix string, seen map[string]string) error {
	if previous, ok := seen[prefix]; ok {
		return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, previous)
	}
	seen[prefix] = feature.ID()
	root.Handle(prefix, handler)
	return nil
}

func isProtectedPrefix(prefix string) bool {
	return strings.HasPrefix(prefix, routepath.AppPrefix)
}

func resolveMount(feature module.Module, deps module.Dependencies) (module.Mount, string, error) {
	mount, err := feature.Mount(deps)
	if err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	prefix := normalizePrefix(mount.Prefix)
	if prefix == "" {
		return module.Mount{}, "", fmt.Errorf("mount module %q: prefix is required", feature.ID())
	}
	if mount.Handler == nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, prefix, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func requireAuth(authenticated func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authenticated(r) {
				http.Redirect(w, r, defaultLoginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func wrapProtectedModule(authenticated func(*http.Request) bool, policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	authWrap := requireAuth(authenticated)
	originWrap := requireCookieSessionSameOrigin(policy)
	return func(next http.Handler) http.Handler {
		return authWrap(originWrap(next))
	}
}

func requireCookieSessionSameOrigin(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.HasSameOriginProofWithPolicy(r, policy) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
