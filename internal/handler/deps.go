package handler

import (
	"atvault/internal/app/ai"
	"atvault/internal/app/blog"
	"atvault/internal/app/chat"
	"atvault/internal/app/storage"
	"atvault/internal/app/user"
	"atvault/internal/configs"
)

// AppDeps bundles the dependencies handlers need. Everything is constructed
// once in main and injected; there is no global state to reach for.
type AppDeps struct {
	Config  *configs.AppConfig
	Users   user.Repository
	Posts   blog.Repository
	Chats   chat.Repository
	AI      ai.Client
	Storage storage.StorageService
}
