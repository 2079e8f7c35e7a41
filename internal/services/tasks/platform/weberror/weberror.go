// Package weberror renders shared error responses for task service modules.
package weberror

import (
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/taskboard/internal/services/tasks/platform/errors"
	tasksi18n "github.com/louisbranch/taskboard/internal/services/tasks/platform/i18n"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/pagerender"
	"github.com/louisbranch/taskboard/internal/services/tasks/templates"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc tasksi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if statusCode < http.StatusInternalServerError {
		if message := strings.TrimSpace(err.Error()); message != "" {
			return message
		}
	}
	return http.StatusText(statusCode)
}

// WriteAppError writes a localized error page. Statuses other than 404 and
// 5xx are rendered as 500.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, resolver pagerender.RequestResolver) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	var resolveLanguage func(*http.Request) string
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
	}
	loc, _ := tasksi18n.ResolveLocalizerWith(r, resolveLanguage)
	err := pagerender.WritePage(w, r, resolver, pagerender.Page{
		Title:      templates.ErrorPageTitle(statusCode, loc),
		StatusCode: statusCode,
		Fragment:   templates.ErrorState(statusCode, loc),
	})
	if err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// WriteModuleError maps err to a status and writes the error page for 404
// and 5xx, or a plain localized message otherwise.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, resolver pagerender.RequestResolver) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, resolver)
		return
	}
	var resolveLanguage func(*http.Request) string
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
	}
	loc, _ := tasksi18n.ResolveLocalizerWith(r, resolveLanguage)
	http.Error(w, PublicMessage(loc, err), statusCode)
}
