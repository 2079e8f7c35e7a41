package public

import (
	"log"
	"net/http"

	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	apperrors "github.com/louisbranch/taskboard/internal/services/tasks/platform/errors"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/httpx"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/modulehandler"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/weberror"
	"github.com/louisbranch/taskboard/internal/services/tasks/routepath"
	"github.com/louisbranch/taskboard/internal/services/tasks/templates"
	"github.com/louisbranch/taskboard/internal/services/tasks/user"
)

type handlers struct {
	modulehandler.Base
	service  service
	sessions module.Sessions
}

func newHandlers(s service, sessions module.Sessions, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s, sessions: sessions}
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(r)
	viewer := h.ResolveRequestViewer(r)
	h.WritePage(w, r, templates.T(loc, "core.app_name"), http.StatusOK, templates.HomePage(templates.HomeView{
		Loc:      loc,
		SignedIn: viewer.SignedIn(),
		Username: viewer.Username,
	}))
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteText(w, http.StatusOK, h.service.healthBody())
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

func (h handlers) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	h.renderSignup(w, r, http.StatusOK, "", "")
}

func (h handlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSignupError(w, r, "", apperrors.EK(apperrors.KindInvalidInput, "error.invalid_form", "failed to parse signup form"))
		return
	}
	input := user.SignupInput{
		Username:     r.PostFormValue("username"),
		Password:     r.PostFormValue("password1"),
		Confirmation: r.PostFormValue("password2"),
	}
	account, err := h.service.signup(r.Context(), input)
	if err != nil {
		h.renderSignupError(w, r, input.Username, err)
		return
	}
	if err := h.sessions.Start(w, r, account.ID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	log.Printf("user signed up user_id=%s", account.ID)
	httpx.WriteRedirect(w, r, routepath.AppTasks)
}

func (h handlers) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, "", "")
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "", apperrors.EK(apperrors.KindInvalidInput, "error.invalid_form", "failed to parse login form"))
		return
	}
	creds := user.Credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	account, err := h.service.login(r.Context(), creds)
	if err != nil {
		h.renderLoginError(w, r, creds.Username, err)
		return
	}
	if err := h.sessions.Start(w, r, account.ID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AppTasks)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		h.WriteError(w, r, err)
		return
	}
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h handlers) renderSignupError(w http.ResponseWriter, r *http.Request, username string, err error) {
	statusCode := apperrors.HTTPStatus(err)
	if weberror.ShouldRenderAppError(statusCode) {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(r)
	h.renderSignup(w, r, statusCode, username, weberror.PublicMessage(loc, err))
}

func (h handlers) renderLoginError(w http.ResponseWriter, r *http.Request, username string, err error) {
	statusCode := apperrors.HTTPStatus(err)
	if weberror.ShouldRenderAppError(statusCode) {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(r)
	h.renderLogin(w, r, statusCode, username, weberror.PublicMessage(loc, err))
}

func (h handlers) renderSignup(w http.ResponseWriter, r *http.Request, statusCode int, username string, message string) {
	loc, _ := h.PageLocalizer(r)
	h.WritePage(w, r, templates.T(loc, "auth.signup.title"), statusCode, templates.SignupForm(templates.AuthFormView{
		Loc:      loc,
		Username: username,
		Error:    message,
	}))
}

func (h handlers) renderLogin(w http.ResponseWriter, r *http.Request, statusCode int, username string, message string) {
	loc, _ := h.PageLocalizer(r)
	h.WritePage(w, r, templates.T(loc, "auth.login.title"), statusCode, templates.LoginForm(templates.AuthFormView{
		Loc:      loc,
		Username: username,
		Error:    message,
	}))
}
