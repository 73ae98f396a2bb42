package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteSendsAuthenticatedRequest(t *testing.T) {
	t.Parallel()

	var captured completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hi there"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	reply, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if reply != "hi there" {
		t.Errorf("reply = %q, want hi there", reply)
	}
	if captured.Model != chatModel {
		t.Errorf("model = %q, want %q", captured.Model, chatModel)
	}
	if len(captured.Messages) != 2 {
		t.Errorf("sent %d messages, want 2", len(captured.Messages))
	}
	if captured.MaxTokens != completionMaxTokens {
		t.Errorf("max_tokens = %d, want %d", captured.MaxTokens, completionMaxTokens)
	}
}

func TestCompleteRejectedRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hello"}})
	if err == nil {
		t.Fatal("Complete() accepted a rejected request")
	}
	// The upstream error body never reaches the caller.
	if got := err.Error(); got != "model API request was rejected" {
		t.Errorf("error = %q, want the generic rejection", got)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	if _, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hello"}}); err == nil {
		t.Fatal("Complete() accepted a response without choices")
	}
}

func TestSpeechReturnsRawAudio(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path = %q, want /audio/speech", r.URL.Path)
		}

		var req speechRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != speechModel || req.Voice != speechVoice {
			t.Errorf("model/voice = %q/%q, want %q/%q", req.Model, req.Voice, speechModel, speechVoice)
		}

		w.Write([]byte("binary mp3 data"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	audio, err := client.Speech(context.Background(), "say this")
	if err != nil {
		t.Fatalf("Speech() error = %v", err)
	}
	if string(audio) != "binary mp3 data" {
		t.Errorf("audio = %q, want the raw body", audio)
	}
}

func TestTranscribe(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %q, want /audio/transcriptions", r.URL.Path)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if model := r.FormValue("model"); model != transcribeModel {
			t.Errorf("model = %q, want %q", model, transcribeModel)
		}
		if _, header, err := r.FormFile("file"); err != nil {
			t.Errorf("file part missing: %v", err)
		} else if header.Filename != "clip.mp3" {
			t.Errorf("filename = %q, want clip.mp3", header.Filename)
		}

		json.NewEncoder(w).Encode(map[string]string{"text": "hello world"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	text, err := client.Transcribe(context.Background(), []byte("audio"), "clip.mp3")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q, want hello world", text)
	}
}
