/*
Package handler provides the HTTP handlers and routing setup for the AT Vault server.

This file defines the main Router, applying logging, CORS, session
resolution, and IP-based rate limiting before delegating to the auth, blog,
chat, and upload handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"atvault/internal/pkg/auth/jwt"
	"atvault/internal/pkg/limiter"
	"atvault/internal/pkg/logx"
	"atvault/internal/pkg/resp"
)

const (
	// AuthRate limits login/registration attempts per IP.
	AuthRate  = 0.2
	AuthBurst = 5

	// MessageRate limits chat message submissions per IP; each one costs a
	// model API call.
	MessageRate  = 0.5
	MessageBurst = 3
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It configures CORS, global middleware, the session extractor, and per-route
// rate limiting.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	messageLimiter := limiter.NewIPRateLimiter(rate.Limit(MessageRate), MessageBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "AT Vault Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.SessionMiddleware(deps.Config.JWTSecret, deps.Users))

		api.Route("/auth", func(auth chi.Router) {
			auth.With(authLimiter.Middleware).Post("/register", HandleRegister(deps))
			auth.With(authLimiter.Middleware).Post("/login", HandleLogin(deps))
			auth.Post("/logout", HandleLogout())
		})

		api.Get("/user", HandleCurrentUser())

		api.Route("/posts", func(posts chi.Router) {
			posts.Get("/", HandleListPosts(deps))
			posts.Get("/tags", HandleListTags(deps))
			posts.Get("/related/{id}", HandleRelatedPosts(deps))
			posts.Get("/{slug}", HandleGetPost(deps))
		})

		api.Route("/admin/posts", func(admin chi.Router) {
			admin.Get("/", HandleAdminListPosts(deps))
			admin.Post("/", HandleCreatePost(deps))
			admin.Get("/{id}", HandleAdminGetPost(deps))
			admin.Patch("/{id}", HandleUpdatePost(deps))
			admin.Delete("/{id}", HandleDeletePost(deps))
		})

		api.Route("/chats", func(chats chi.Router) {
			chats.Get("/", HandleListChats(deps))
			chats.Post("/", HandleCreateChat(deps))
			chats.Patch("/{id}", HandleRenameChat(deps))
			chats.Delete("/{id}", HandleDeleteChat(deps))
			chats.Get("/{id}/messages", HandleListMessages(deps))
			chats.With(messageLimiter.Middleware).Post("/{id}/messages", HandlePostMessage(deps))
			chats.Post("/{id}/speech", HandleSpeech(deps))
			chats.Post("/{id}/transcribe", HandleTranscribe(deps))
		})

		api.Post("/upload", HandleUpload(deps))
		api.Get("/files/download", HandlePresignDownload(deps))
	})

	return r
}
