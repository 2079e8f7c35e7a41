package tasks

import (
	"net/http"

	"github.com/louisbranch/taskboard/internal/services/tasks/platform/httpx"
	"github.com/louisbranch/taskboard/internal/services/tasks/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTasks, h.handlePending)
	mux.HandleFunc(http.MethodGet+" "+routepath.TasksPrefix+"{$}", h.handlePending)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTasksCompleted, h.handleCompleted)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTasksCompletedExport, h.handleExportCompleted)

	mux.HandleFunc(http.MethodGet+" "+routepath.AppTaskNew, h.handleNewForm)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppTaskNew, h.handleCreate)

	mux.HandleFunc(http.MethodGet+" "+routepath.AppTaskPattern, h.handleDetail)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppTaskPattern, h.handleUpdate)

	mux.HandleFunc(http.MethodPost+" "+routepath.AppTaskCompletePattern, h.handleComplete)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTaskCompletePattern, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(http.MethodPost+" "+routepath.AppTaskDeletePattern, h.handleDelete)
	mux.HandleFunc(http.MethodGet+" "+routepath.AppTaskDeletePattern, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc(routepath.AppTaskRestPattern, h.handleNotFound)
}
