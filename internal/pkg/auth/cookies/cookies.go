/*
Package cookies manages the cookie set that carries client-held identity.

Two kinds of cookies exist. The session cookie holds the signed token and is
the only cookie with authority: it is HTTP-only and SameSite-restricted so
page scripts never see it. The display cookies (name, role, email) are plain
cookies read by client script purely for UI personalization; they carry no
authority and are never trusted by the server.

Every cookie is set with an absolute Expires timestamp computed at call time
rather than a relative Max-Age, which keeps the behavior deterministic under
test.
*/
package cookies

import (
	"net/http"
	"time"

	"atvault/internal/app/user"
)

const (
	// SessionCookie is the name of the HTTP-only cookie holding the signed session token.
	SessionCookie = "auth"

	// NameCookie is the plain display cookie carrying the user's name.
	NameCookie = "user_name"

	// RoleCookie is the plain display cookie carrying the user's role.
	RoleCookie = "user_role"

	// EmailCookie is the plain display cookie carrying the user's email.
	EmailCookie = "user_email"
)

// displayCookies lists every non-session cookie name this package has ever
// issued. ClearAll walks this list so logout revokes identity signals even
// when the current session never set some of them.
var displayCookies = []string{NameCookie, RoleCookie, EmailCookie}

// SetSession sets the signed token cookie with the given absolute expiry.
func SetSession(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetDisplay sets the plain display cookies for client-side personalization.
func SetDisplay(w http.ResponseWriter, u *user.User, expires time.Time) {
	values := map[string]string{
		NameCookie:  u.Name,
		RoleCookie:  string(u.Role),
		EmailCookie: u.Email,
	}

	for _, name := range displayCookies {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    values[name],
			Path:     "/",
			Expires:  expires,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ClearAll expires every cookie this package issues, session and display
// alike, regardless of which ones were actually set for this client.
func ClearAll(w http.ResponseWriter) {
	expired := time.Unix(0, 0)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  expired,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	for _, name := range displayCookies {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  expired,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
