package templates

import (
	"github.com/a-h/templ"
	"github.com/louisbranch/taskboard/internal/services/tasks/routepath"
)

// HomeView is the landing page.
type HomeView struct {
	Loc      Localizer
	SignedIn bool
	Username string
}

// AuthFormView backs the signup and login forms.
type AuthFormView struct {
	Loc      Localizer
	Username string
	Error    string
}

// TaskRow is one task as listed or edited.
type TaskRow struct {
	ID          string
	Title       string
	Memo        string
	Important   bool
	CreatedAt   string
	CompletedAt string
}

// TaskListView backs the pending and completed lists.
type TaskListView struct {
	Loc       Localizer
	Completed bool
	Rows      []TaskRow
}

// TaskFormView backs the create form and the detail/edit page.
type TaskFormView struct {
	Loc       Localizer
	Task      *TaskRow
	Title     string
	Memo      string
	Important bool
	Error     string
}

// DetailURL returns the row's detail path.
func (r TaskRow) DetailURL() string { return routepath.AppTask(r.ID) }

// CompleteURL returns the row's completion path.
func (r TaskRow) CompleteURL() string { return routepath.AppTaskComplete(r.ID) }

// DeleteURL returns the row's deletion path.
func (r TaskRow) DeleteURL() string { return routepath.AppTaskDelete(r.ID) }

// ExportURL returns the completed-list PDF path.
func (TaskListView) ExportURL() string { return routepath.AppTasksCompletedExport }

// Action returns the form target: the create path, or the task's own path.
func (v TaskFormView) Action() string {
	if v.Task != nil {
		return v.Task.DetailURL()
	}
	return routepath.AppTaskNew
}

// HomePage renders the landing page.
func HomePage(view HomeView) templ.Component { return component("home.html", view) }

// SignupForm renders the signup form.
func SignupForm(view AuthFormView) templ.Component { return component("signup.html", view) }

// LoginForm renders the login form.
func LoginForm(view AuthFormView) templ.Component { return component("login.html", view) }

// TaskList renders a pending or completed task list.
func TaskList(view TaskListView) templ.Component { return component("task_list.html", view) }

// TaskForm renders the create form, or the detail and edit form when
// view.Task is set.
func TaskForm(view TaskFormView) templ.Component { return component("task_form.html", view) }
