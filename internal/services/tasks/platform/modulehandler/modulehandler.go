// Package modulehandler provides a composable base for task service module
// handlers.
//
// Modules embed Base to share user resolution, localization, page rendering,
// and error writing.
package modulehandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/taskboard/internal/platform/requestctx"
	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/flash"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/httpx"
	tasksi18n "github.com/louisbranch/taskboard/internal/services/tasks/platform/i18n"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/pagerender"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/requestmeta"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/weberror"
	"github.com/louisbranch/taskboard/internal/services/tasks/templates"
)

// Base carries the request-scoped resolvers shared by module handlers.
type Base struct {
	resolveUserID   module.ResolveUserID
	resolveLanguage module.ResolveLanguage
	resolveViewer   module.ResolveViewer
	policy          requestmeta.SchemePolicy
}

// NewBase builds a handler base from module dependencies.
func NewBase(deps module.Dependencies) Base {
	return Base{
		resolveUserID:   deps.ResolveUserID,
		resolveLanguage: deps.ResolveLanguage,
		resolveViewer:   deps.ResolveViewer,
		policy:          deps.SchemePolicy,
	}
}

// ResolveRequestViewer resolves chrome viewer state for a request.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	if b.resolveViewer == nil {
		return module.Viewer{}
	}
	return b.resolveViewer(r)
}

// ResolveRequestLanguage returns the effective request language.
func (b Base) ResolveRequestLanguage(r *http.Request) string {
	if b.resolveLanguage == nil {
		return ""
	}
	return b.resolveLanguage(r)
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(r *http.Request) (templates.Localizer, string) {
	return tasksi18n.ResolveLocalizerWith(r, b.resolveLanguage)
}

// RequestUserID extracts the authenticated user ID from the request.
func (b Base) RequestUserID(r *http.Request) string {
	if r == nil || b.resolveUserID == nil {
		return ""
	}
	return strings.TrimSpace(b.resolveUserID(r))
}

// RequestContext returns the request context carrying the authenticated user
// id. Services read the owner from it with requestctx.UserIDFromContext.
func (b Base) RequestContext(r *http.Request) context.Context {
	ctx := httpx.RequestContext(r)
	userID := b.RequestUserID(r)
	if userID == "" {
		return ctx
	}
	return requestctx.WithUserID(ctx, userID)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, b)
}

// WriteNotFound renders the 404 error page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// WritePage renders a full page (HTMX-aware) with the given title and content.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component) {
	if err := pagerender.WritePage(w, r, b, pagerender.Page{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}

// RedirectWithNotice queues a success notice for the next page and redirects.
func (b Base) RedirectWithNotice(w http.ResponseWriter, r *http.Request, location string, key string) {
	if strings.TrimSpace(key) != "" {
		flash.WriteWithPolicy(w, r, flash.NoticeSuccess(key), b.policy)
	}
	httpx.WriteRedirect(w, r, location)
}

// SchemePolicy returns the cookie scheme policy.
func (b Base) SchemePolicy() requestmeta.SchemePolicy {
	return b.policy
}
