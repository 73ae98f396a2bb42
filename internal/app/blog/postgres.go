package blog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"atvault/internal/pkg/randx"
)

// PostgresRepository implements Repository on a pgx connection pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgresRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const postColumns = `id, title, slug, excerpt, content, cover_image, category, tags, author_id, status, published_at, created_at, updated_at`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&p.Content,
		&p.CoverImage,
		&p.Category,
		&p.Tags,
		&p.AuthorID,
		&p.Status,
		&p.PublishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]Post, error) {
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// Create stores a new post record, assigning its identifier and timestamps.
func (r *PostgresRepository) Create(ctx context.Context, p *Post) error {
	if p.ID == "" {
		p.ID = randx.NewID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Tags == nil {
		p.Tags = []string{}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO posts (id, title, slug, excerpt, content, cover_image, category, tags, author_id, status, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Category, p.Tags, p.AuthorID, p.Status, p.PublishedAt, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetByID looks up a post by identifier.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

// GetBySlug looks up a post by slug.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug)
	return scanPost(row)
}

// Update persists the full post record and bumps its updated_at timestamp.
func (r *PostgresRepository) Update(ctx context.Context, p *Post) error {
	p.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx,
		`UPDATE posts
		 SET title = $2, slug = $3, excerpt = $4, content = $5, cover_image = $6,
		     category = $7, tags = $8, status = $9, published_at = $10, updated_at = $11
		 WHERE id = $1`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Category, p.Tags, p.Status, p.PublishedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post by identifier.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns posts matching the filter, newest first. Published posts sort
// by publication date, drafts (admin listings only) by creation date.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE 1=1`
	args := []any{}

	if !filter.IncludeDrafts {
		args = append(args, StatusPublished)
		query += ` AND status = $1`
	}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (title ILIKE $` + n + ` OR excerpt ILIKE $` + n + ` OR content ILIKE $` + n + `)`
	}

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		query += ` AND $` + strconv.Itoa(len(args)) + ` = ANY(tags)`
	}

	query += ` ORDER BY COALESCE(published_at, created_at) DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// Related returns up to limit published posts sharing a tag with the given
// post, newest first.
func (r *PostgresRepository) Related(ctx context.Context, id string, limit int) ([]Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts
		 WHERE id <> $1
		   AND status = $2
		   AND tags && (SELECT tags FROM posts WHERE id = $1)
		 ORDER BY COALESCE(published_at, created_at) DESC
		 LIMIT $3`,
		id, StatusPublished, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// Tags returns the distinct tags across published posts, alphabetically.
func (r *PostgresRepository) Tags(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT unnest(tags) AS tag FROM posts WHERE status = $1 ORDER BY tag`,
		StatusPublished,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
