package chat

import (
	"context"
	"errors"
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

const chatColumns = `id, user_id, title, last_message, created_at, updated_at`

func scanChat(row pgx.Row) (*Chat, error) {
	var c Chat
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.LastMessage, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateChat stores a new conversation, assigning its identifier and timestamps.
func (r *PostgresRepository) CreateChat(ctx context.Context, c *Chat) error {
	if c.ID == "" {
		c.ID = randx.NewID()
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.pool.Exec(ctx,
		`INSERT INTO chats (id, user_id, title, last_message, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.UserID, c.Title, c.LastMessage, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// ListChats returns the user's conversations, most recently updated first.
func (r *PostgresRepository) ListChats(ctx context.Context, userID string) ([]Chat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *c)
	}
	return chats, rows.Err()
}

// GetChat returns the conversation only when it belongs to userID.
func (r *PostgresRepository) GetChat(ctx context.Context, id, userID string) (*Chat, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanChat(row)
}

// RenameChat updates the title of an owned conversation.
func (r *PostgresRepository) RenameChat(ctx context.Context, id, userID, title string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE chats SET title = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`,
		id, userID, title, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteChat removes an owned conversation; messages cascade in the schema.
func (r *PostgresRepository) DeleteChat(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM chats WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMessage appends a message to a conversation.
func (r *PostgresRepository) CreateMessage(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = randx.NewID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO messages (id, chat_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ChatID, m.Role, m.Content, m.CreatedAt,
	)
	return err
}

// ListMessages returns a conversation's messages in chronological order.
func (r *PostgresRepository) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, chat_id, role, content, created_at
		 FROM messages WHERE chat_id = $1 ORDER BY created_at, id`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// UpdateRollup records the latest assistant reply (and optionally a title)
// on the conversation.
func (r *PostgresRepository) UpdateRollup(ctx context.Context, chatID, title, lastMessage string) error {
	now := time.Now().UTC()

	if title != "" {
		_, err := r.pool.Exec(ctx,
			`UPDATE chats SET title = $2, last_message = $3, updated_at = $4 WHERE id = $1`,
			chatID, title, lastMessage, now,
		)
		return err
	}

	_, err := r.pool.Exec(ctx,
		`UPDATE chats SET last_message = $2, updated_at = $3 WHERE id = $1`,
		chatID, lastMessage, now,
	)
	return err
}
