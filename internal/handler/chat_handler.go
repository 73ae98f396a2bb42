/*
Package handler provides the HTTP handlers and routing setup for the AT Vault server.

This file contains the chat assistant endpoints: conversation management,
message exchange with the model API, speech synthesis, and transcription.
*/
package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"atvault/internal/app/chat"
	"atvault/internal/app/user"
	"atvault/internal/pkg/auth/jwt"
	"atvault/internal/pkg/auth/policy"
	"atvault/internal/pkg/errs"
	"atvault/internal/pkg/logx"
	"atvault/internal/pkg/req"
	"atvault/internal/pkg/resp"
)

// chatUser resolves the current user and enforces chat access (authenticated
// and licensed). It writes the error response itself and returns nil when the
// caller must stop.
func chatUser(w http.ResponseWriter, r *http.Request) *user.User {
	u := jwt.CurrentUser(r)
	if u == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return nil
	}
	if !policy.Permits(u, policy.ActionUseChat) {
		resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
		return nil
	}
	return u
}

// ownedChat fetches the chat from the URL parameter, scoped to the user.
func ownedChat(w http.ResponseWriter, r *http.Request, deps *AppDeps, u *user.User) *chat.Chat {
	id := chi.URLParam(r, "id")

	c, err := deps.Chats.GetChat(r.Context(), id, u.ID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			resp.RespondError(w, r, errs.NewError(errs.ErrChatNotFound))
			return nil
		}
		logx.Error(err, "chat: failed to fetch conversation", "chat_id", id)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return nil
	}
	return c
}

// HandleListChats returns the user's conversations, most recent first.
func HandleListChats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := chatUser(w, r)
		if u == nil {
			return
		}

		chats, err := deps.Chats.ListChats(r.Context(), u.ID)
		if err != nil {
			logx.Error(err, "chat: failed to list conversations", "user_id", u.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"chats": chats,
		})
	}
}

type CreateChatInput struct {
	Title string `json:"title"`
}

// HandleCreateChat starts a new conversation.
func HandleCreateChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := chatUser(w, r)
		if u == nil {
			return
		}

		var input CreateChatInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		c := &chat.Chat{
			UserID: u.ID,
			Title:  strings.TrimSpace(input.Title),
		}

		if err := deps.Chats.CreateChat(r.Context(), c); err != nil {
			logx.Error(err, "chat: failed to create conversation", "user_id", u.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"chat": c,
		})
	}
}

type RenameChatInput struct {
	Title string `json:"title"`
}

// HandleRenameChat updates a conversation title.
func HandleRenameChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := chatUser(w, r)
		if u == nil {
			return
		}

		var input RenameChatInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		title := strings.TrimSpace(input.Title)
		if title == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err := deps.Chats.RenameChat(r.Context(), chi.URLParam(r, "id"), u.ID, title); err != nil {
			if errors.Is(err, chat.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrChatNotFound))
				return
			}
			logx.Error(err, "chat: failed to rename conversation")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"title": title,
		})
	}
}

// HandleDeleteChat removes a conversation and its messages.
func HandleDeleteChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := chatUser(w, r)
		if u == nil {
			return
		}

		id := chi.URLParam(r, "id")

		if err := deps.Chats.DeleteChat(r.Context(), id, u.ID); err != nil {
			if errors.Is(err, chat.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrChatNotFound))
				return
			}
			logx.Error(err, "chat: failed to delete conversation", "chat_id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"deleted": id,
		})
	}
}

// HandleListMessages returns a conversation's messages in order.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := chatUser(w, r)
		if u == nil {
			return
		}

		c := ownedChat(w, r, deps, u)
		if c == nil {
			return
		}

		messages, err := deps.Chats.ListMessages(r.Context(), c.ID)
		if err != nil {
			logx.Error(err, "chat: failed to list messages", "chat_id", c.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"messages": messages,
		})
	}
}

type PostMessageInput struct {
	Content string `json:"content"`
}

// HandlePostMessage appends the user's message, asks the model for a reply
// using the full history, persists the reply, and rolls up the conversation
// title and last message.
func HandlePostMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := chatUser(w, r)
		if u == nil {
			return
		}

		c := ownedChat(w, r, deps, u)
		if c == nil {
			return
		}

		var input PostMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		content := strings.TrimSpace(input.Content)
		if content == "" || utf8.RuneCountInString(content) > chat.MessageMaxRunes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageInvalid))
			return
		}

		userMsg := &chat.Message{
			ChatID:  c.ID,
			Role:    chat.RoleUser,
			Content: content,
		}
		if err := deps.Chats.CreateMessage(r.Context(), userMsg); err != nil {
			logx.Error(err, "chat: failed to store user message", "chat_id", c.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		history, err := deps.Chats.ListMessages(r.Context(), c.ID)
		if err != nil {
			logx.Error(err, "chat: failed to load history", "chat_id", c.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		reply, err := deps.AI.Complete(r.Context(), chat.Transcript(history))
		if err != nil {
			logx.Error(err, "chat: completion failed", "chat_id", c.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrAssistantUnavailable))
			return
		}

		assistantMsg := &chat.Message{
			ChatID:  c.ID,
			Role:    chat.RoleAssistant,
			Content: reply,
		}
		if err := deps.Chats.CreateMessage(r.Context(), assistantMsg); err != nil {
			logx.Error(err, "chat: failed to store assistant message", "chat_id", c.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		// The first exchange names the conversation after the user's message.
		title := ""
		if len(history) <= 1 {
			title = chat.TitleFromContent(content)
		}

		if err := deps.Chats.UpdateRollup(r.Context(), c.ID, title, reply); err != nil {
			logx.Error(err, "chat: failed to update rollup", "chat_id", c.ID)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"messages": []chat.Message{*userMsg, *assistantMsg},
		})
	}
}

type SpeechInput struct {
	Text string `json:"text"`
}

// HandleSpeech synthesizes the given text to MP3 audio via the model API.
func HandleSpeech(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := chatUser(w, r)
		if u == nil {
			return
		}

		if ownedChat(w, r, deps, u) == nil {
			return
		}

		var input SpeechInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		text := strings.TrimSpace(input.Text)
		if text == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		audio, err := deps.AI.Speech(r.Context(), text)
		if err != nil {
			logx.Error(err, "chat: speech synthesis failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrAssistantUnavailable))
			return
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		w.WriteHeader(http.StatusOK)
		w.Write(audio)
	}
}

// HandleTranscribe converts an uploaded audio clip into text via the model API.
func HandleTranscribe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := chatUser(w, r)
		if u == nil {
			return
		}

		if ownedChat(w, r, deps, u) == nil {
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("audio")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil {
			logx.Error(err, "chat: failed to read uploaded audio")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		text, err := deps.AI.Transcribe(r.Context(), audio, header.Filename)
		if err != nil {
			logx.Error(err, "chat: transcription failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrAssistantUnavailable))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"text": text,
		})
	}
}
