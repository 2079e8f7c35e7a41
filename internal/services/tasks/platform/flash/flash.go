// Package flash carries a one-time notice from a redirecting POST to the page
// rendered after it.
//
// The cookie value is a form-encoded pair (kind and message key). Only keys
// are stored; text is localized when the notice is shown.
package flash

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/taskboard/internal/services/tasks/platform/requestmeta"
)

// CookieName is the cookie used for one-time notices.
const CookieName = "tasks_flash"

const (
	fieldKind = "kind"
	fieldKey  = "key"
)

// Kind selects how a notice is styled.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindError   Kind = "error"
)

// Notice references a localized message shown once.
type Notice struct {
	Kind Kind
	Key  string
}

// NoticeSuccess creates a success notice for the localization key.
func NoticeSuccess(key string) Notice {
	return Notice{Kind: KindSuccess, Key: key}
}

// WriteWithPolicy queues notice for the next full page render. Invalid
// notices are dropped.
func WriteWithPolicy(w http.ResponseWriter, r *http.Request, notice Notice, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	notice, ok := notice.normalized()
	if !ok {
		return
	}
	value := url.Values{fieldKind: {string(notice.Kind)}, fieldKey: {notice.Key}}.Encode()
	http.SetCookie(w, noticeCookie(r, value, policy))
}

// ReadAndClearWithPolicy returns the queued notice, if any, and expires its
// cookie with the same Secure attribute WriteWithPolicy used.
func ReadAndClearWithPolicy(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) (Notice, bool) {
	if r == nil {
		return Notice{}, false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Notice{}, false
	}
	if w != nil {
		cleared := noticeCookie(r, "", policy)
		cleared.MaxAge = -1
		http.SetCookie(w, cleared)
	}
	values, err := url.ParseQuery(strings.TrimSpace(cookie.Value))
	if err != nil {
		return Notice{}, false
	}
	return Notice{Kind: Kind(values.Get(fieldKind)), Key: values.Get(fieldKey)}.normalized()
}

func noticeCookie(r *http.Request, value string, policy requestmeta.SchemePolicy) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(r, policy),
		SameSite: http.SameSiteLaxMode,
	}
}

func (n Notice) normalized() (Notice, bool) {
	n.Key = strings.TrimSpace(n.Key)
	n.Kind = Kind(strings.ToLower(strings.TrimSpace(string(n.Kind))))
	if n.Key == "" {
		return Notice{}, false
	}
	switch n.Kind {
	case KindSuccess, KindInfo, KindError:
		return n, true
	}
	return Notice{}, false
}
