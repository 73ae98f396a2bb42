/*
Package handler provides the HTTP handlers and routing setup for the AT Vault server.

This file contains the blog endpoints: the public listing, search, and detail
routes, and the policy-gated admin CRUD routes.
*/
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"atvault/internal/app/blog"
	"atvault/internal/pkg/auth/jwt"
	"atvault/internal/pkg/auth/policy"
	"atvault/internal/pkg/errs"
	"atvault/internal/pkg/logx"
	"atvault/internal/pkg/randx"
	"atvault/internal/pkg/req"
	"atvault/internal/pkg/resp"
)

const relatedPostsLimit = 3

// requirePermission resolves the current user and checks the policy.
// It writes the error response itself and reports whether the caller may
// proceed. Anonymous requests get 401, authenticated-but-denied get 403.
func requirePermission(w http.ResponseWriter, r *http.Request, action policy.Action) bool {
	u := jwt.CurrentUser(r)
	if u == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return false
	}
	if !policy.Permits(u, action) {
		resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
		return false
	}
	return true
}

// HandleListPosts returns published posts, optionally filtered by a search
// query (`q`) and a tag (`tag`).
func HandleListPosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := blog.ListFilter{
			Query: r.URL.Query().Get("q"),
			Tag:   r.URL.Query().Get("tag"),
		}

		posts, err := deps.Posts.List(r.Context(), filter)
		if err != nil {
			logx.Error(err, "blog: failed to list posts")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"posts": posts,
		})
	}
}

// HandleGetPost returns a single post by slug. Drafts are visible only to
// admins; for everyone else a draft behaves like a missing post.
func HandleGetPost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		post, err := deps.Posts.GetBySlug(r.Context(), slug)
		if err != nil {
			if errors.Is(err, blog.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "blog: failed to fetch post", "slug", slug)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if post.Status != blog.StatusPublished && !policy.Permits(jwt.CurrentUser(r), policy.ActionViewAdmin) {
			resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"post": post,
		})
	}
}

// HandleRelatedPosts returns published posts sharing a tag with the given post.
func HandleRelatedPosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		posts, err := deps.Posts.Related(r.Context(), id, relatedPostsLimit)
		if err != nil {
			logx.Error(err, "blog: failed to fetch related posts", "post_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"posts": posts,
		})
	}
}

// HandleListTags returns the distinct tags across published posts.
func HandleListTags(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := deps.Posts.Tags(r.Context())
		if err != nil {
			logx.Error(err, "blog: failed to list tags")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"tags": tags,
		})
	}
}

// HandleAdminListPosts returns every post including drafts.
func HandleAdminListPosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, policy.ActionViewAdmin) {
			return
		}

		posts, err := deps.Posts.List(r.Context(), blog.ListFilter{IncludeDrafts: true})
		if err != nil {
			logx.Error(err, "blog: failed to list admin posts")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"posts": posts,
		})
	}
}

// HandleAdminGetPost returns a single post (any status) by identifier.
func HandleAdminGetPost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, policy.ActionViewAdmin) {
			return
		}

		post, err := deps.Posts.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, blog.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "blog: failed to fetch post")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"post": post,
		})
	}
}

type CreatePostInput struct {
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	Category   string   `json:"category"`
	CoverImage string   `json:"coverImage"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

// HandleCreatePost creates a blog post. The slug is derived from the title;
// a colliding slug gets a random suffix instead of failing the request.
func HandleCreatePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, policy.ActionCreatePost) {
			return
		}

		var input CreatePostInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Title == "" || input.Excerpt == "" || input.Content == "" || input.Category == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrPostFieldsMissing))
			return
		}

		status := blog.StatusDraft
		if input.Status == string(blog.StatusPublished) {
			status = blog.StatusPublished
		}

		slug := randx.Slug(input.Title)
		if _, err := deps.Posts.GetBySlug(r.Context(), slug); err == nil {
			suffix, suffixErr := randx.SlugSuffix()
			if suffixErr != nil {
				logx.Error(suffixErr, "blog: slug suffix generation failed")
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
			slug = slug + "-" + suffix
		}

		post := &blog.Post{
			Title:      input.Title,
			Slug:       slug,
			Excerpt:    input.Excerpt,
			Content:    input.Content,
			CoverImage: input.CoverImage,
			Category:   input.Category,
			Tags:       input.Tags,
			AuthorID:   jwt.CurrentUser(r).ID,
			Status:     status,
		}

		if status == blog.StatusPublished {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}

		if err := deps.Posts.Create(r.Context(), post); err != nil {
			logx.Error(err, "blog: failed to create post")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"post": post,
		})
	}
}

type UpdatePostInput struct {
	Title      *string   `json:"title"`
	Excerpt    *string   `json:"excerpt"`
	Content    *string   `json:"content"`
	Category   *string   `json:"category"`
	CoverImage *string   `json:"coverImage"`
	Tags       *[]string `json:"tags"`
	Status     *string   `json:"status"`
}

// HandleUpdatePost applies a partial update to a post. Publishing a draft
// stamps PublishedAt exactly once; re-publishing keeps the original date.
func HandleUpdatePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, policy.ActionEditPost) {
			return
		}

		var input UpdatePostInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		post, err := deps.Posts.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, blog.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "blog: failed to fetch post for update")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if input.Title != nil && *input.Title != "" {
			post.Title = *input.Title
		}
		if input.Excerpt != nil {
			post.Excerpt = *input.Excerpt
		}
		if input.Content != nil {
			post.Content = *input.Content
		}
		if input.Category != nil && *input.Category != "" {
			post.Category = *input.Category
		}
		if input.CoverImage != nil {
			post.CoverImage = *input.CoverImage
		}
		if input.Tags != nil {
			post.Tags = *input.Tags
		}
		if input.Status != nil {
			switch blog.Status(*input.Status) {
			case blog.StatusPublished:
				post.Status = blog.StatusPublished
				if post.PublishedAt == nil {
					now := time.Now().UTC()
					post.PublishedAt = &now
				}
			case blog.StatusDraft:
				post.Status = blog.StatusDraft
			default:
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
		}

		if err := deps.Posts.Update(r.Context(), post); err != nil {
			logx.Error(err, "blog: failed to update post", "post_id", post.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"post": post,
		})
	}
}

// HandleDeletePost deletes a post by identifier.
func HandleDeletePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, policy.ActionDeletePost) {
			return
		}

		id := chi.URLParam(r, "id")

		if err := deps.Posts.Delete(r.Context(), id); err != nil {
			if errors.Is(err, blog.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "blog: failed to delete post", "post_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"deleted": id,
		})
	}
}
