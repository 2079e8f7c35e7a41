package templates

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/taskboard/internal/services/tasks/routepath"
)

const (
	errorPageTitleNotFoundKey  = "error.page_title_not_found"
	errorPageTitleServerErrKey = "error.page_title_server_error"
	errorMessageNotFoundKey    = "error.message_not_found"
	errorMessageServerErrKey   = "error.message_server_error"
	errorActionBackKey         = "error.action_back"
)

type errorView struct {
	Heading string
	Message string
	Back    string
	BackURL string
}

// ErrorPageTitle returns the document title for an error page.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if statusCode == http.StatusNotFound {
		return T(loc, errorPageTitleNotFoundKey)
	}
	return T(loc, errorPageTitleServerErrKey)
}

// ErrorState renders the body of the app error page. Statuses other than 404
// render as server errors.
func ErrorState(statusCode int, loc Localizer) templ.Component {
	view := errorView{
		Heading: ErrorPageTitle(statusCode, loc),
		Message: T(loc, errorMessageServerErrKey),
		Back:    T(loc, errorActionBackKey),
		BackURL: routepath.AppTasks,
	}
	if statusCode == http.StatusNotFound {
		view.Message = T(loc, errorMessageNotFoundKey)
	}
	return component("error.html", view)
}
