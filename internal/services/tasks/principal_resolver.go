package tasks

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/httpx"
	tasksi18n "github.com/louisbranch/taskboard/internal/services/tasks/platform/i18n"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage"
	"github.com/louisbranch/taskboard/internal/services/tasks/websession"
)

type requestPrincipalState struct {
	userIDOnce sync.Once
	userID     string
	viewerOnce sync.Once
	viewer     module.Viewer
}

type requestPrincipalStateKey struct{}

type principalResolver struct {
	sessions *websession.Manager
	users    storage.UserStore
}

func newPrincipalResolver(sessions *websession.Manager, users storage.UserStore) principalResolver {
	return principalResolver{sessions: sessions, users: users}
}

func (r principalResolver) resolveRequestUserIDUncached(req *http.Request) string {
	if req == nil || r.sessions == nil {
		return ""
	}
	session, ok := r.sessions.Resolve(req)
	if !ok {
		return ""
	}
	return session.UserID
}

func (r principalResolver) resolveRequestUserID(request *http.Request) string {
	if state := requestPrincipalStateFromRequest(request); state != nil {
		state.userIDOnce.Do(func() {
			state.userID = r.resolveRequestUserIDUncached(request)
		})
		return state.userID
	}
	return r.resolveRequestUserIDUncached(request)
}

func (r principalResolver) resolveViewerUncached(request *http.Request) module.Viewer {
	userID := r.resolveRequestUserID(request)
	if userID == "" {
		return module.Viewer{}
	}
	viewer := module.Viewer{UserID: userID}
	if r.users == nil {
		return viewer
	}
	account, err := r.users.FindUser(request.Context(), userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("resolve viewer failed user_id=%s err=%v", userID, err)
		}
		return viewer
	}
	viewer.Username = account.Username
	return viewer
}

func (r principalResolver) resolveViewer(request *http.Request) module.Viewer {
	if state := requestPrincipalStateFromRequest(request); state != nil {
		state.viewerOnce.Do(func() {
			state.viewer = r.resolveViewerUncached(request)
		})
		return state.viewer
	}
	return r.resolveViewerUncached(request)
}

func (principalResolver) resolveRequestLanguage(request *http.Request) string {
	return tasksi18n.ResolveTag(request).String()
}

func (r principalResolver) authRequired() func(*http.Request) bool {
	return func(request *http.Request) bool {
		return r.resolveRequestUserID(request) != ""
	}
}

func withRequestPrincipalState() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := &requestPrincipalState{}
			ctx := context.WithValue(r.Context(), requestPrincipalStateKey{}, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestPrincipalStateFromRequest(r *http.Request) *requestPrincipalState {
	if r == nil {
		return nil
	}
	state, _ := r.Context().Value(requestPrincipalStateKey{}).(*requestPrincipalState)
	return state
}
