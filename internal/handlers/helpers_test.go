package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/connectly/backend/internal/middleware"
	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
	"github.com/anonto42/connectly/backend/internal/services"
	"github.com/anonto42/connectly/backend/pkg/config"
	"github.com/anonto42/connectly/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testUsers = map[string]models.Identity{
	"alice": {UserID: "alice", FirstName: "Alice", LastName: "A", ImageURL: "https://img/alice.png"},
	"bob":   {UserID: "bob", FirstName: "Bob", LastName: "B"},
	"carol": {UserID: "carol", FirstName: "Carol"},
}

// recordingViews remembers every invalidated path.
type recordingViews struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingViews) Invalidate(_ context.Context, paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths...)
}

func (r *recordingViews) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

// memPostRepo keeps posts in memory in place of MongoDB.
type memPostRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Post
	seq  int
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{rows: map[string]*models.Post{}}
}

func (m *memPostRepo) copyOf(p *models.Post) *models.Post {
	out := *p
	out.Likes = append([]string{}, p.Likes...)
	out.CommentIDs = append([]uint{}, p.CommentIDs...)
	return &out
}

// get accepts any hex casing, as ObjectIDFromHex does.
func (m *memPostRepo) get(id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	p, ok := m.rows[objID.Hex()]
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	return p, nil
}

func (m *memPostRepo) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	if post.Likes == nil {
		post.Likes = []string{}
	}
	m.rows[post.ID.Hex()] = m.copyOf(post)
	return nil
}

func (m *memPostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return m.copyOf(p), nil
}

func (m *memPostRepo) GetAllPosts(_ context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Post{}
	for _, p := range m.rows {
		out = append(out, *m.copyOf(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memPostRepo) UpdateText(_ context.Context, id, text string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(id)
	if err != nil {
		return nil, err
	}
	p.Text = text
	return m.copyOf(p), nil
}

func (m *memPostRepo) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(id)
	if err != nil {
		return err
	}
	delete(m.rows, p.ID.Hex())
	return nil
}

func (m *memPostRepo) AddLike(_ context.Context, postID, userID string) (*models.Post, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(postID)
	if err != nil {
		return nil, false, err
	}
	if p.HasLike(userID) {
		return m.copyOf(p), false, nil
	}
	p.Likes = append(p.Likes, userID)
	return m.copyOf(p), true, nil
}

func (m *memPostRepo) RemoveLike(_ context.Context, postID, userID string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(postID)
	if err != nil {
		return nil, err
	}
	kept := []string{}
	for _, id := range p.Likes {
		if id != userID {
			kept = append(kept, id)
		}
	}
	p.Likes = kept
	return m.copyOf(p), nil
}

func (m *memPostRepo) PushComment(_ context.Context, postID string, commentID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(postID)
	if err != nil {
		return err
	}
	p.CommentIDs = append([]uint{commentID}, p.CommentIDs...)
	return nil
}

type testEnv struct {
	e     *echo.Echo
	hub   *services.NotificationHub
	views *recordingViews
	posts *services.PostEngagement
}

// setupTestEnv wires every handler against in-memory SQLite and posts.
// Requests authenticate through the X-Test-User header.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Connection{}, &models.Message{}, &models.Notification{}, &models.Comment{}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{views: &recordingViews{}}
	env.hub = services.NewNotificationHub(repositories.NewPostgresNotificationRepository(db), logger)
	graph := services.NewConnectionGraph(repositories.NewPostgresConnectionRepository(db), env.hub)
	store := services.NewConversationStore(repositories.NewPostgresMessageRepository(db), env.hub)
	env.posts = services.NewPostEngagement(newMemPostRepo(), repositories.NewPostgresCommentRepository(db), env.hub, logger)

	e := echo.New()
	e.Validator = validators.NewValidator()
	api := e.Group("/api/v1")
	api.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, ok := testUsers[c.Request().Header.Get("X-Test-User")]; ok {
				middleware.SetIdentity(c, id)
			}
			return next(c)
		}
	})

	NewConnectionHandler(graph, env.views).RegisterConnectionRoutes(api)
	NewMessageHandler(store, graph, env.posts, env.views, "http://app.test/", logger).RegisterMessageRoutes(api)
	NewPostHandler(env.posts, env.views).RegisterPostRoutes(api)
	NewLikeHandler(env.posts, env.views).RegisterLikeRoutes(api)
	NewCommentHandler(env.posts, env.views).RegisterCommentRoutes(api)
	NewFeedHandler(env.posts).RegisterFeedRoutes(api)
	NewNotificationHandler(env.hub, env.views, logger).RegisterNotificationRoutes(api)
	NewProfileHandler(env.hub, env.views).RegisterProfileRoutes(api)

	env.e = e
	return env
}

func (env *testEnv) do(t *testing.T, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (env *testEnv) notificationsOf(t *testing.T, userID string) []models.Notification {
	t.Helper()
	list, err := env.hub.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	return list
}

func requireStatus(t *testing.T, want int, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}
