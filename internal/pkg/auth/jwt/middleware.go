package jwt

import (
	"context"
	"net/http"
	"strings"

	"atvault/internal/app/user"
	"atvault/internal/pkg/auth/cookies"
	"atvault/internal/pkg/logx"
)

// Context key for the resolved user record, preventing collisions with other packages.
type contextKey string

const (
	// ContextUserKey is the key under which the resolved *user.User is stored
	// in the request context.
	ContextUserKey contextKey = "auth_user"
)

// SessionMiddleware attempts to resolve the current user for every request.
//
// Resolution order: the Authorization Bearer header, then the session cookie.
// A missing token, an invalid or expired token, or a token whose subject no
// longer exists all resolve to an anonymous request; the middleware never
// interrupts the request with a 401. It performs no writes, so it is safe on
// every route including unauthenticated ones.
func SessionMiddleware(secretKey string, users user.Repository) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				// No token by either path: anonymous, not an error.
				next.ServeHTTP(w, r)
				return
			}

			claims, err := ParseToken(tokenString, secretKey)
			if err != nil {
				// Token present but invalid or expired. Log and continue anonymously.
				logx.Warn("Invalid or expired session token, treating as anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				// A valid token for a deleted account is still anonymous.
				logx.Warn("Session token subject not found, treating as anonymous", "user_id", claims.UserID)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextUserKey, u)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromRequest locates the session token on the request: the
// "Authorization: Bearer <token>" header first, then the session cookie.
// It returns "" when no token is present by either path.
func tokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		// A malformed header falls through to the cookie path.
	}

	cookie, err := r.Cookie(cookies.SessionCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}

	return cookie.Value
}

// CurrentUser extracts the resolved user record from the request context.
// A nil return means the request is anonymous.
func CurrentUser(r *http.Request) *user.User {
	u, ok := r.Context().Value(ContextUserKey).(*user.User)

	if !ok {
		return nil
	}

	return u
}
