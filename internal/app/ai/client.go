package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"atvault/internal/pkg/logx"
)

const (
	chatModel       = "gpt-3.5-turbo"
	speechModel     = "tts-1"
	speechVoice     = "alloy"
	transcribeModel = "whisper-1"

	completionTemperature = 0.7
	completionMaxTokens   = 1000

	requestTimeout = 60 * time.Second
)

// httpClient implements Client against an OpenAI-compatible HTTP API.
type httpClient struct {
	cfg    Config
	client *http.Client
}

// NewClient constructs the model API client.
func NewClient(cfg Config) Client {
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation to the chat completions endpoint and
// returns the first choice's content.
func (c *httpClient) Complete(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       chatModel,
		Messages:    messages,
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	respBody, err := c.post(ctx, "/chat/completions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

// Speech synthesizes text into MP3 audio bytes.
func (c *httpClient) Speech(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model: speechModel,
		Voice: speechVoice,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode speech request: %w", err)
	}

	return c.post(ctx, "/audio/speech", "application/json", bytes.NewReader(body))
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends audio to the transcription endpoint and returns the text.
func (c *httpClient) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("model", transcribeModel); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}

	respBody, err := c.post(ctx, "/audio/transcriptions", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	return parsed.Text, nil
}

// post issues an authenticated POST and returns the raw response body.
// Non-2xx statuses are logged with detail server-side and surfaced as a
// generic error to the caller.
func (c *httpClient) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build model API request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read model API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logx.Error(
			fmt.Errorf("model API returned status %d", resp.StatusCode),
			"Model API call failed",
			"path", path,
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return nil, errors.New("model API request was rejected")
	}

	return respBody, nil
}
