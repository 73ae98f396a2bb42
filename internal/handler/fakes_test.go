package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"atvault/internal/app/ai"
	"atvault/internal/app/blog"
	"atvault/internal/app/chat"
	"atvault/internal/app/user"
	"atvault/internal/configs"
	authjwt "atvault/internal/pkg/auth/jwt"
	"atvault/internal/pkg/randx"
	"atvault/internal/pkg/resp"
)

// --- user repository fake ---

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]*user.User
	byEml map[string]*user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:  make(map[string]*user.User),
		byEml: make(map[string]*user.User),
	}
}

func (f *fakeUsers) Create(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byEml[u.Email]; exists {
		return user.ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = randx.NewID()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	f.byID[u.ID] = u
	f.byEml[u.Email] = u
	return nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byEml[user.NormalizeEmail(email)]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

// --- blog repository fake ---

type fakePosts struct {
	mu    sync.Mutex
	posts []*blog.Post
}

func newFakePosts() *fakePosts {
	return &fakePosts{}
}

func (f *fakePosts) Create(ctx context.Context, p *blog.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p.ID == "" {
		p.ID = randx.NewID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	f.posts = append(f.posts, p)
	return nil
}

func (f *fakePosts) GetByID(ctx context.Context, id string) (*blog.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.posts {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, blog.ErrNotFound
}

func (f *fakePosts) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.posts {
		if p.Slug == slug {
			clone := *p
			return &clone, nil
		}
	}
	return nil, blog.ErrNotFound
}

func (f *fakePosts) Update(ctx context.Context, p *blog.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, existing := range f.posts {
		if existing.ID == p.ID {
			clone := *p
			clone.UpdatedAt = time.Now().UTC()
			f.posts[i] = &clone
			return nil
		}
	}
	return blog.ErrNotFound
}

func (f *fakePosts) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return blog.ErrNotFound
}

func (f *fakePosts) List(ctx context.Context, filter blog.ListFilter) ([]blog.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]blog.Post, 0)
	for _, p := range f.posts {
		if !filter.IncludeDrafts && p.Status != blog.StatusPublished {
			continue
		}
		if filter.Query != "" && !matchesQuery(p, filter.Query) {
			continue
		}
		if filter.Tag != "" && !hasTag(p, filter.Tag) {
			continue
		}
		out = append(out, *p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakePosts) Related(ctx context.Context, id string, limit int) ([]blog.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var anchor *blog.Post
	for _, p := range f.posts {
		if p.ID == id {
			anchor = p
			break
		}
	}
	if anchor == nil {
		return []blog.Post{}, nil
	}

	out := make([]blog.Post, 0)
	for _, p := range f.posts {
		if p.ID == id || p.Status != blog.StatusPublished {
			continue
		}
		for _, tag := range anchor.Tags {
			if hasTag(p, tag) {
				out = append(out, *p)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakePosts) Tags(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range f.posts {
		if p.Status != blog.StatusPublished {
			continue
		}
		for _, tag := range p.Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func matchesQuery(p *blog.Post, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Excerpt), q) ||
		strings.Contains(strings.ToLower(p.Content), q)
}

func hasTag(p *blog.Post, tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// --- chat repository fake ---

type fakeChats struct {
	mu       sync.Mutex
	chats    map[string]*chat.Chat
	messages map[string][]chat.Message
}

func newFakeChats() *fakeChats {
	return &fakeChats{
		chats:    make(map[string]*chat.Chat),
		messages: make(map[string][]chat.Message),
	}
}

func (f *fakeChats) CreateChat(ctx context.Context, c *chat.Chat) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c.ID == "" {
		c.ID = randx.NewID()
	}
	if c.Title == "" {
		c.Title = chat.DefaultTitle
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	clone := *c
	f.chats[c.ID] = &clone
	return nil
}

func (f *fakeChats) ListChats(ctx context.Context, userID string) ([]chat.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]chat.Chat, 0)
	for _, c := range f.chats {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (f *fakeChats) GetChat(ctx context.Context, id, userID string) (*chat.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.chats[id]
	if !ok || c.UserID != userID {
		return nil, chat.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeChats) RenameChat(ctx context.Context, id, userID, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.chats[id]
	if !ok || c.UserID != userID {
		return chat.ErrNotFound
	}
	c.Title = title
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeChats) DeleteChat(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.chats[id]
	if !ok || c.UserID != userID {
		return chat.ErrNotFound
	}
	delete(f.chats, id)
	delete(f.messages, id)
	return nil
}

func (f *fakeChats) CreateMessage(ctx context.Context, m *chat.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m.ID == "" {
		m.ID = randx.NewID()
	}
	m.CreatedAt = time.Now().UTC()
	f.messages[m.ChatID] = append(f.messages[m.ChatID], *m)
	return nil
}

func (f *fakeChats) ListMessages(ctx context.Context, chatID string) ([]chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]chat.Message, len(f.messages[chatID]))
	copy(out, f.messages[chatID])
	return out, nil
}

func (f *fakeChats) UpdateRollup(ctx context.Context, chatID, title, lastMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.chats[chatID]
	if !ok {
		return chat.ErrNotFound
	}
	if title != "" {
		c.Title = title
	}
	c.LastMessage = lastMessage
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// --- model API fake ---

type fakeAI struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests [][]ai.Message
}

func (f *fakeAI) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeAI) Speech(ctx context.Context, text string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3:" + text), nil
}

func (f *fakeAI) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "transcript of " + filename, nil
}

// --- object storage fake ---

type fakeStorage struct {
	mu       sync.Mutex
	uploaded map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, key, mimeType string, body io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.uploaded[key] = data
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error) {
	return "https://s3.test/" + key + "?signed=1", nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.uploaded, key)
	return nil
}

// --- shared test harness ---

const testSecret = "handler-test-secret"

type testEnv struct {
	deps    *AppDeps
	router  http.Handler
	users   *fakeUsers
	posts   *fakePosts
	chats   *fakeChats
	ai      *fakeAI
	storage *fakeStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:   newFakeUsers(),
		posts:   newFakePosts(),
		chats:   newFakeChats(),
		ai:      &fakeAI{reply: "Hello from the assistant."},
		storage: newFakeStorage(),
	}

	env.deps = &AppDeps{
		Config: &configs.AppConfig{
			Environment: "test",
			Port:        8080,
			JWTSecret:   testSecret,
		},
		Users:   env.users,
		Posts:   env.posts,
		Chats:   env.chats,
		AI:      env.ai,
		Storage: env.storage,
	}
	env.router = Router(env.deps)
	return env
}

// addUser seeds an account and returns it alongside a valid bearer token.
func (e *testEnv) addUser(t *testing.T, name string, role user.Role, licensed bool) (*user.User, string) {
	t.Helper()

	u := &user.User{
		Name:     name,
		Email:    user.NormalizeEmail(name + "@example.com"),
		Role:     role,
		Licensed: licensed,
	}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token := issueTestToken(t, u.ID)
	return u, token
}

func issueTestToken(t *testing.T, userID string) string {
	t.Helper()

	token, err := authjwt.IssueToken(userID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// doJSON performs a request with an optional JSON body and bearer token.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	r := httptest.NewRequest(method, path, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

// decodeEnvelope parses the standard response envelope.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) resp.JSONResponse {
	t.Helper()

	var envelope resp.JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response envelope: %v (body %q)", err, w.Body.String())
	}
	return envelope
}

// dataField digs a field out of the envelope's data object.
func dataField(t *testing.T, envelope resp.JSONResponse, field string) any {
	t.Helper()

	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("envelope data is %T, want object", envelope.Data)
	}
	value, ok := data[field]
	if !ok {
		t.Fatalf("envelope data has no field %q: %v", field, data)
	}
	return value
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, httpStatus, code int) {
	t.Helper()

	if w.Code != httpStatus {
		t.Fatalf("HTTP status = %d, want %d (body %q)", w.Code, httpStatus, w.Body.String())
	}
	envelope := decodeEnvelope(t, w)
	if envelope.Code != code {
		t.Fatalf("envelope code = %d, want %d (message %q)", envelope.Code, code, envelope.Message)
	}
}

func assertSuccess(t *testing.T, w *httptest.ResponseRecorder) resp.JSONResponse {
	t.Helper()

	if w.Code != http.StatusOK {
		t.Fatalf("HTTP status = %d, want 200 (body %q)", w.Code, w.Body.String())
	}
	envelope := decodeEnvelope(t, w)
	if envelope.Code != 0 {
		t.Fatalf("envelope code = %d, want 0 (message %q)", envelope.Code, envelope.Message)
	}
	return envelope
}
