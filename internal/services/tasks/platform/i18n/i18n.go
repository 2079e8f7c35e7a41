// Package i18n resolves request language and localized printers for the task
// web surface.
package i18n

import (
	"net/http"
	"strings"

	"github.com/louisbranch/taskboard/internal/platform/i18n/catalog"
	apperrors "github.com/louisbranch/taskboard/internal/services/tasks/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangCookieName stores an explicit language choice.
const LangCookieName = "tasks_lang"

// Localizer exposes translated formatting used by templates and handlers.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

var (
	supported = catalog.Default().Tags()
	matcher   = language.NewMatcher(supported)
)

// ResolveTag picks the supported language for r from the language cookie,
// then Accept-Language, falling back to the base locale.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return supported[0]
	}
	var preferences []string
	if cookie, err := r.Cookie(LangCookieName); err == nil && cookie != nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			preferences = append(preferences, value)
		}
	}
	if header := strings.TrimSpace(r.Header.Get("Accept-Language")); header != "" {
		preferences = append(preferences, header)
	}
	if len(preferences) == 0 {
		return supported[0]
	}
	_, index := language.MatchStrings(matcher, preferences...)
	return supported[index]
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveLocalizer returns the printer and language string for r.
func ResolveLocalizer(r *http.Request) (*message.Printer, string) {
	tag := ResolveTag(r)
	return Printer(tag), tag.String()
}

// ResolveLocalizerWith prefers the language reported by resolveLanguage and
// falls back to ResolveTag when it is nil or blank.
func ResolveLocalizerWith(r *http.Request, resolveLanguage func(*http.Request) string) (*message.Printer, string) {
	if resolveLanguage == nil {
		return ResolveLocalizer(r)
	}
	preferred := strings.TrimSpace(resolveLanguage(r))
	if preferred == "" {
		return ResolveLocalizer(r)
	}
	_, index := language.MatchStrings(matcher, preferred)
	tag := supported[index]
	return Printer(tag), tag.String()
}

// LocalizeError returns the translated message for a typed error, or the raw
// error text.
func LocalizeError(loc Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			return loc.Sprintf(key)
		}
	}
	return strings.TrimSpace(err.Error())
}
