// Package pagerender centralizes page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/flash"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/httpx"
	tasksi18n "github.com/louisbranch/taskboard/internal/services/tasks/platform/i18n"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/requestmeta"
	"github.com/louisbranch/taskboard/internal/services/tasks/templates"
)

// RequestResolver resolves viewer and language state from a request.
type RequestResolver interface {
	ResolveRequestViewer(r *http.Request) module.Viewer
	ResolveRequestLanguage(r *http.Request) string
}

// SchemePolicyResolver is implemented by resolvers that know how the service
// decides whether a request arrived over HTTPS.
type SchemePolicyResolver interface {
	SchemePolicy() requestmeta.SchemePolicy
}

// Page describes a page response for both full-page and HTMX flows.
type Page struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WritePage renders page inside the document layout. HTMX requests receive
// only the fragment. Nothing is written when rendering fails.
func WritePage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = emptyComponent{}
	}

	var resolveLanguage func(*http.Request) string
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
	}
	loc, lang := tasksi18n.ResolveLocalizerWith(r, resolveLanguage)
	ctx := httpx.RequestContext(r)

	var buf bytes.Buffer
	if httpx.IsHTMXRequest(r) {
		if err := fragment.Render(ctx, &buf); err != nil {
			return err
		}
		writeHTML(w, statusCode, buf.Bytes())
		return nil
	}

	viewer := module.Viewer{}
	if resolver != nil {
		viewer = resolver.ResolveRequestViewer(r)
	}
	layout := templates.Layout(templates.Page{
		Title:    page.Title,
		Lang:     lang,
		Loc:      loc,
		Username: viewer.Username,
		SignedIn: viewer.SignedIn(),
		Toast:    resolveFlashToast(w, r, loc, schemePolicy(resolver)),
	})
	if err := layout.Render(templ.WithChildren(ctx, fragment), &buf); err != nil {
		return err
	}
	writeHTML(w, statusCode, buf.Bytes())
	return nil
}

func writeHTML(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

func schemePolicy(resolver RequestResolver) requestmeta.SchemePolicy {
	if withPolicy, ok := resolver.(SchemePolicyResolver); ok {
		return withPolicy.SchemePolicy()
	}
	return requestmeta.SchemePolicy{}
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, loc tasksi18n.Localizer, policy requestmeta.SchemePolicy) *templates.Toast {
	notice, ok := flash.ReadAndClearWithPolicy(w, r, policy)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(loc.Sprintf(notice.Key))
	if message == "" {
		message = strings.TrimSpace(notice.Key)
	}
	if message == "" {
		return nil
	}
	return &templates.Toast{
		Kind:    string(notice.Kind),
		Message: message,
	}
}
