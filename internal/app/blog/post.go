/*
Package blog contains the blog post model and its persistence contract.

Posts are authored through the admin endpoints and served publicly once
published. Search is a substring match over title, excerpt, and content;
related posts are found by shared tags.
*/
package blog

import (
	"context"
	"errors"
	"time"
)

// Status is the publication state of a post.
type Status string

const (
	// StatusDraft keeps a post visible only to admins.
	StatusDraft Status = "draft"

	// StatusPublished makes a post publicly readable.
	StatusPublished Status = "published"
)

// ErrNotFound is returned when no post matches the lookup.
var ErrNotFound = errors.New("post not found")

// Post represents a single blog entry.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	AuthorID    string     `json:"authorId"`
	Status      Status     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListFilter narrows a post listing.
type ListFilter struct {
	// Query is a case-insensitive substring matched against title, excerpt,
	// and content. Empty means no text filter.
	Query string

	// Tag restricts the listing to posts carrying the tag. Empty means no
	// tag filter.
	Tag string

	// IncludeDrafts lists drafts as well; only admin listings set it.
	IncludeDrafts bool
}

// Repository is the persistence contract for blog posts.
type Repository interface {
	// Create stores a new post.
	Create(ctx context.Context, p *Post) error

	// GetByID looks up a post by identifier. ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*Post, error)

	// GetBySlug looks up a post by slug. ErrNotFound when absent.
	GetBySlug(ctx context.Context, slug string) (*Post, error)

	// Update persists the given post record in full.
	Update(ctx context.Context, p *Post) error

	// Delete removes a post. ErrNotFound when absent.
	Delete(ctx context.Context, id string) error

	// List returns posts matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]Post, error)

	// Related returns up to limit published posts sharing at least one tag
	// with the given post, newest first, excluding the post itself.
	Related(ctx context.Context, id string, limit int) ([]Post, error)

	// Tags returns the distinct tags across published posts.
	Tags(ctx context.Context) ([]string, error)
}
