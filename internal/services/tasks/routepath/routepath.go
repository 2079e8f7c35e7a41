// Package routepath stores canonical HTTP paths for the task web surface.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root                    = "/"
	Health                  = "/up"
	Signup                  = "/signup"
	Login                   = "/login"
	Logout                  = "/logout"
	AppPrefix               = "/app/"
	AppTasks                = "/app/tasks"
	TasksPrefix             = "/app/tasks/"
	AppTasksCompleted       = "/app/tasks/completed"
	AppTasksCompletedExport = "/app/tasks/completed/export.pdf"
	AppTaskNew              = "/app/tasks/new"
	AppTaskPattern          = TasksPrefix + "{taskID}"
	AppTaskCompletePattern  = TasksPrefix + "{taskID}/complete"
	AppTaskDeletePattern    = TasksPrefix + "{taskID}/delete"
	AppTaskRestPattern      = TasksPrefix + "{taskID}/{rest...}"
)

// AppTask returns the detail path for taskID.
func AppTask(taskID string) string {
	return TasksPrefix + escapeSegment(taskID)
}

// AppTaskComplete returns the completion path for taskID.
func AppTaskComplete(taskID string) string {
	return AppTask(taskID) + "/complete"
}

// AppTaskDelete returns the deletion path for taskID.
func AppTaskDelete(taskID string) string {
	return AppTask(taskID) + "/delete"
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
