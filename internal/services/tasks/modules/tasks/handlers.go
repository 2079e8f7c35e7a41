package tasks

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/taskboard/internal/services/tasks/platform/errors"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/modulehandler"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/weberror"
	"github.com/louisbranch/taskboard/internal/services/tasks/routepath"
	"github.com/louisbranch/taskboard/internal/services/tasks/task"
	"github.com/louisbranch/taskboard/internal/services/tasks/templates"
)

const displayTimeLayout = "2006-01-02 15:04"

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handlePending(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	items, err := h.service.listPending(ctx)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(r)
	h.WritePage(w, r, templates.T(loc, "tasks.pending.title"), http.StatusOK, templates.TaskList(templates.TaskListView{
		Loc:  loc,
		Rows: taskRows(items),
	}))
}

func (h handlers) handleCompleted(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	items, err := h.service.listCompleted(ctx)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(r)
	h.WritePage(w, r, templates.T(loc, "tasks.completed.title"), http.StatusOK, templates.TaskList(templates.TaskListView{
		Loc:       loc,
		Completed: true,
		Rows:      taskRows(items),
	}))
}

func (h handlers) handleExportCompleted(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	items, err := h.service.listCompleted(ctx)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(r)
	viewer := h.ResolveRequestViewer(r)
	report := completedReport{
		Heading:   templates.T(loc, "tasks.export.heading", viewer.Username),
		Generated: templates.T(loc, "tasks.export.generated", h.service.now().UTC().Format(displayTimeLayout)),
		Rows:      taskRows(items),
	}
	var buf bytes.Buffer
	if err := writeCompletedPDF(&buf, report); err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="completed-tasks.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h handlers) handleNewForm(w http.ResponseWriter, r *http.Request) {
	h.renderNewForm(w, r, http.StatusOK, task.Fields{}, "")
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	fields, err := parseFields(r)
	if err != nil {
		h.renderCreateError(w, r, fields, err)
		return
	}
	ctx := h.RequestContext(r)
	if _, err := h.service.create(ctx, fields); err != nil {
		h.renderCreateError(w, r, fields, err)
		return
	}
	h.RedirectWithNotice(w, r, routepath.AppTasks, "tasks.notice.created")
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	item, err := h.service.get(ctx, r.PathValue("taskID"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(r)
	row := taskRow(item)
	h.WritePage(w, r, templates.T(loc, "tasks.detail.title"), http.StatusOK, templates.TaskForm(templates.TaskFormView{
		Loc:       loc,
		Task:      &row,
		Title:     item.Title,
		Memo:      item.Memo,
		Important: item.Important,
	}))
}

// handleUpdate reports invalid fields as a plain error response rather than
// re-rendering the edit form.
func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	fields, err := parseFields(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	ctx := h.RequestContext(r)
	if _, err := h.service.update(ctx, r.PathValue("taskID"), fields); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.RedirectWithNotice(w, r, routepath.AppTasks, "tasks.notice.updated")
}

func (h handlers) handleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	if _, err := h.service.complete(ctx, r.PathValue("taskID")); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.RedirectWithNotice(w, r, routepath.AppTasks, "tasks.notice.completed")
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	if err := h.service.delete(ctx, r.PathValue("taskID")); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.RedirectWithNotice(w, r, routepath.AppTasks, "tasks.notice.deleted")
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

func (h handlers) renderCreateError(w http.ResponseWriter, r *http.Request, fields task.Fields, err error) {
	statusCode := apperrors.HTTPStatus(err)
	if weberror.ShouldRenderAppError(statusCode) {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(r)
	h.renderNewForm(w, r, statusCode, fields, weberror.PublicMessage(loc, err))
}

func (h handlers) renderNewForm(w http.ResponseWriter, r *http.Request, statusCode int, fields task.Fields, message string) {
	loc, _ := h.PageLocalizer(r)
	h.WritePage(w, r, templates.T(loc, "tasks.new.title"), statusCode, templates.TaskForm(templates.TaskFormView{
		Loc:       loc,
		Title:     fields.Title,
		Memo:      fields.Memo,
		Important: fields.Important,
		Error:     message,
	}))
}

func parseFields(r *http.Request) (task.Fields, error) {
	if err := r.ParseForm(); err != nil {
		return task.Fields{}, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_form", "failed to parse task form")
	}
	return task.Fields{
		Title:     r.PostFormValue("title"),
		Memo:      r.PostFormValue("memo"),
		Important: parseCheckbox(r.PostFormValue("important")),
	}, nil
}

func parseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func taskRows(items []task.Task) []templates.TaskRow {
	rows := make([]templates.TaskRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, taskRow(item))
	}
	return rows
}

func taskRow(item task.Task) templates.TaskRow {
	row := templates.TaskRow{
		ID:        item.ID,
		Title:     item.Title,
		Memo:      item.Memo,
		Important: item.Important,
		CreatedAt: formatTime(item.CreatedAt),
	}
	if item.Completed() {
		row.CompletedAt = formatTime(*item.DoDate)
	}
	return row
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(displayTimeLayout)
}
