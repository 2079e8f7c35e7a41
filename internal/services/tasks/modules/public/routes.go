package public

import (
	"net/http"

	"github.com/louisbranch/taskboard/internal/services/tasks/platform/httpx"
	"github.com/louisbranch/taskboard/internal/services/tasks/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleHome)
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)

	mux.HandleFunc(http.MethodGet+" "+routepath.Signup, h.handleSignupForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.Signup, h.handleSignup)

	mux.HandleFunc(http.MethodGet+" "+routepath.Login, h.handleLoginForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.Login, h.handleLogin)

	mux.HandleFunc(http.MethodPost+" "+routepath.Logout, h.handleLogout)
	mux.HandleFunc(http.MethodGet+" "+routepath.Logout, httpx.MethodNotAllowed(http.MethodPost))

	// Any method on an unknown path gets the app 404 page.
	mux.HandleFunc(routepath.Root+"{rest...}", h.handleNotFound)
}
