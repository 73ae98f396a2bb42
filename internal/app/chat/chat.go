/*
Package chat contains the persisted conversation model for the assistant.

A chat belongs to exactly one user and holds an append-only sequence of
messages. Each user turn produces two writes: the user's message and the
assistant's reply. There is no realtime protocol; state lives entirely in
the store.
*/
package chat

import (
	"context"
	"errors"
	"time"

	"atvault/internal/app/ai"
)

// MessageRole is the author category of a stored message.
type MessageRole string

const (
	// RoleSystem marks the instruction message prepended to every completion.
	RoleSystem MessageRole = "system"

	// RoleUser marks messages written by the account owner.
	RoleUser MessageRole = "user"

	// RoleAssistant marks replies produced by the model.
	RoleAssistant MessageRole = "assistant"
)

const (
	// DefaultTitle is the title of a conversation before its first exchange.
	DefaultTitle = "New conversation"

	// TitleMaxRunes caps the auto-derived conversation title length.
	TitleMaxRunes = 50

	// MessageMaxRunes caps a single user message.
	MessageMaxRunes = 4000

	// SystemPrompt is the instruction prepended to every completion request.
	SystemPrompt = "You are an expert assistant in technology and software development, specialized in helping AT Vault users. Provide clear, precise, and professional answers."
)

// ErrNotFound is returned when a chat does not exist or belongs to another user.
var ErrNotFound = errors.New("chat not found")

// Chat represents one conversation owned by a user.
type Chat struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	LastMessage string    `json:"lastMessage,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Message represents one stored conversation turn. Messages are append-only;
// they are written once and never mutated.
type Message struct {
	ID        string      `json:"id"`
	ChatID    string      `json:"chatId"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Transcript converts stored history into the model API's message shape,
// with the system prompt first.
func Transcript(history []Message) []ai.Message {
	out := make([]ai.Message, 0, len(history)+1)
	out = append(out, ai.Message{Role: string(RoleSystem), Content: SystemPrompt})

	for _, m := range history {
		out = append(out, ai.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// TitleFromContent derives a conversation title from the first user message.
func TitleFromContent(content string) string {
	runes := []rune(content)
	if len(runes) <= TitleMaxRunes {
		return content
	}
	return string(runes[:TitleMaxRunes]) + "..."
}

// Repository is the persistence contract for conversations and messages.
type Repository interface {
	// CreateChat stores a new conversation.
	CreateChat(ctx context.Context, c *Chat) error

	// ListChats returns the user's conversations, most recently updated first.
	ListChats(ctx context.Context, userID string) ([]Chat, error)

	// GetChat returns the conversation only when it belongs to userID.
	// ErrNotFound otherwise; ownership failures are indistinguishable from
	// absence by design.
	GetChat(ctx context.Context, id, userID string) (*Chat, error)

	// RenameChat updates the title of an owned conversation.
	RenameChat(ctx context.Context, id, userID, title string) error

	// DeleteChat removes an owned conversation and, by cascade, its messages.
	DeleteChat(ctx context.Context, id, userID string) error

	// CreateMessage appends a message to a conversation.
	CreateMessage(ctx context.Context, m *Message) error

	// ListMessages returns a conversation's messages in chronological order.
	ListMessages(ctx context.Context, chatID string) ([]Message, error)

	// UpdateRollup records the latest assistant reply (and optionally a new
	// title) on the conversation and bumps its updated_at timestamp.
	UpdateRollup(ctx context.Context, chatID, title, lastMessage string) error
}
