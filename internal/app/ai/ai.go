/*
Package ai talks to an OpenAI-compatible model API.

The hosted model is a black-box collaborator: this package only shapes
requests, authenticates them, and normalizes failures. It exposes text
completion for the chat assistant plus speech synthesis and audio
transcription for the voice features.
*/
package ai

import "context"

// Message is one turn in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config holds the settings required to reach the model API.
type Config struct {
	// APIKey authenticates every request.
	APIKey string

	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	BaseURL string
}

// Client is the interface the handlers depend on; tests substitute a fake.
type Client interface {
	// Complete sends the conversation and returns the assistant's reply text.
	Complete(ctx context.Context, messages []Message) (string, error)

	// Speech synthesizes the given text into MP3 audio.
	Speech(ctx context.Context, text string) ([]byte, error)

	// Transcribe converts uploaded audio into text.
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}
