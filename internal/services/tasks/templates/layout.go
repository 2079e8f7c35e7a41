package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/taskboard/internal/services/tasks/routepath"
)

// Toast is a one-time notice shown at the top of a page.
type Toast struct {
	Kind    string
	Message string
}

// Page carries the shell around every rendered page.
type Page struct {
	Title    string
	Lang     string
	Loc      Localizer
	Username string
	SignedIn bool
	Toast    *Toast
}

type layoutData struct {
	Page
	Body   template.HTML
	Routes routes
}

type routes struct {
	Home, Login, Signup, Logout, Pending, Completed, New string
}

var defaultRoutes = routes{
	Home:      routepath.Root,
	Login:     routepath.Login,
	Signup:    routepath.Signup,
	Logout:    routepath.Logout,
	Pending:   routepath.AppTasks,
	Completed: routepath.AppTasksCompleted,
	New:       routepath.AppTaskNew,
}

// Layout wraps the children in the ctx (see templ.WithChildren) with the
// document shell.
func Layout(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		body, err := templ.ToGoHTML(templ.ClearChildren(ctx), children)
		if err != nil {
			return err
		}
		if page.Lang == "" {
			page.Lang = "en-US"
		}
		return pages.ExecuteTemplate(w, "layout.html", layoutData{Page: page, Body: body, Routes: defaultRoutes})
	})
}
