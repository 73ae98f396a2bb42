/*
Package handler provides the HTTP handlers and routing setup for the AT Vault server.

This file contains the authentication endpoints: registration, login, logout,
and the current-user query.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"time"
	"unicode/utf8"

	"atvault/internal/app/user"
	"atvault/internal/pkg/auth/cookies"
	"atvault/internal/pkg/auth/jwt"
	"atvault/internal/pkg/auth/password"
	"atvault/internal/pkg/errs"
	"atvault/internal/pkg/logx"
	"atvault/internal/pkg/req"
	"atvault/internal/pkg/resp"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validPassword checks the password length bounds shared by registration.
func validPassword(pw string) bool {
	n := utf8.RuneCountInString(pw)
	return n >= 6 && n <= 50
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account. Registration does not sign the new
// user in; the client goes through login afterwards.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jwt.CurrentUser(r) != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name == "" || utf8.RuneCountInString(input.Name) > 100 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidName))
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		if !validPassword(input.Password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashed, err := password.Hash(input.Password)
		if err != nil {
			logx.Error(err, "register: password hashing failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		newUser := &user.User{
			Name:         input.Name,
			Email:        user.NormalizeEmail(input.Email),
			PasswordHash: hashed,
			Role:         user.RoleStandard,
		}

		if err := deps.Users.Create(r.Context(), newUser); err != nil {
			if errors.Is(err, user.ErrEmailTaken) {
				logx.Warn("register: email already registered", "email", newUser.Email)
				resp.RespondError(w, r, errs.NewError(errs.ErrEmailTaken))
				return
			}

			logx.Error(err, "register: failed to create user")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": newUser.Public(),
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials, issues a session token, and sets the
// cookie set. Every authentication failure produces the same generic error so
// responses never reveal whether the email exists.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jwt.CurrentUser(r) != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Email == "" || input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		dbUser, err := deps.Users.GetByEmail(r.Context(), input.Email)
		if err != nil {
			if !errors.Is(err, user.ErrNotFound) {
				logx.Error(err, "login: user lookup failed")
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}

			logx.Warn("login: unknown email", "email", user.NormalizeEmail(input.Email))
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if !password.Verify(input.Password, dbUser.PasswordHash) {
			logx.Warn("login: password mismatch", "user_id", dbUser.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		token, err := jwt.IssueToken(dbUser.ID, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "login: token issuance failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		expires := time.Now().Add(jwt.SessionExpiration)
		cookies.SetSession(w, token, expires)
		cookies.SetDisplay(w, dbUser, expires)

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  dbUser.Public(),
		})
	}
}

// HandleLogout clears every identity cookie. It is idempotent and always
// succeeds, with or without an active session.
func HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookies.ClearAll(w)

		resp.RespondSuccess(w, r, map[string]any{
			"message": "signed out",
		})
	}
}

// HandleCurrentUser returns the resolved user's public fields.
func HandleCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := jwt.CurrentUser(r)
		if u == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": u.Public(),
		})
	}
}
