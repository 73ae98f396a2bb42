package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atvault/internal/app/user"
)

func cookieByName(t *testing.T, cs []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cs {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSetSession(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	expires := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	SetSession(w, "signed-token", expires)

	c := cookieByName(t, w.Result().Cookies(), SessionCookie)

	if c.Value != "signed-token" {
		t.Errorf("session cookie value = %q, want %q", c.Value, "signed-token")
	}
	if !c.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("session cookie SameSite = %v, want Lax", c.SameSite)
	}
	if c.Path != "/" {
		t.Errorf("session cookie Path = %q, want /", c.Path)
	}
	if !c.Expires.Equal(expires.UTC()) {
		t.Errorf("session cookie Expires = %v, want %v", c.Expires, expires.UTC())
	}
}

func TestSetDisplay(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	expires := time.Now().Add(24 * time.Hour)

	u := &user.User{Name: "Ana", Email: "ana@example.com", Role: user.RoleStandard}
	SetDisplay(w, u, expires)

	cs := w.Result().Cookies()

	want := map[string]string{
		NameCookie:  "Ana",
		RoleCookie:  "standard",
		EmailCookie: "ana@example.com",
	}
	for name, value := range want {
		c := cookieByName(t, cs, name)
		if c.Value != value {
			t.Errorf("cookie %q = %q, want %q", name, c.Value, value)
		}
		if c.HttpOnly {
			t.Errorf("display cookie %q is HttpOnly, script cannot read it", name)
		}
	}
}

func TestClearAll(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	ClearAll(w)

	cs := w.Result().Cookies()
	now := time.Now()

	for _, name := range []string{SessionCookie, NameCookie, RoleCookie, EmailCookie} {
		c := cookieByName(t, cs, name)
		if c.Value != "" {
			t.Errorf("cleared cookie %q still has value %q", name, c.Value)
		}
		if !c.Expires.Before(now) {
			t.Errorf("cleared cookie %q expires at %v, want a past time", name, c.Expires)
		}
	}
}
