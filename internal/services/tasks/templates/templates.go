// Package templates renders the task web pages as templ components backed by
// embedded html/template files.
package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/message"
)

//go:embed html/*.html
var htmlFS embed.FS

var pages = template.Must(
	template.New("tasks").
		Funcs(template.FuncMap{"t": T}).
		ParseFS(htmlFS, "html/*.html"),
)

// Localizer provides translated strings for templates.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}
