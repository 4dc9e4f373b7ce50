package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/connectly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// clock hands out strictly increasing timestamps so ordering is deterministic.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type notifyCall struct {
	RecipientID string
	Actor       models.Party
	Event       models.Event
}

// recordingNotifier captures every fan-out call.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (r *recordingNotifier) NotifyBestEffort(_ context.Context, recipientID string, actor models.Party, event models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, notifyCall{RecipientID: recipientID, Actor: actor, Event: event})
}

func (r *recordingNotifier) Calls() []notifyCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifyCall(nil), r.calls...)
}

type fakeConnectionRepo struct {
	mu    sync.Mutex
	clock *clock
	rows  map[uint]*models.Connection
	next  uint
}

func newFakeConnectionRepo() *fakeConnectionRepo {
	return &fakeConnectionRepo{clock: newClock(), rows: map[uint]*models.Connection{}}
}

func (f *fakeConnectionRepo) Create(_ context.Context, conn *models.Connection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.PairKey(conn.SenderID, conn.ReceiverID)
	for _, row := range f.rows {
		if row.PairKey == key {
			return models.NewDuplicateConnectionError(conn.SenderID, conn.ReceiverID)
		}
	}
	f.next++
	conn.ID = f.next
	conn.PairKey = key
	conn.Status = models.ConnectionPending
	conn.CreatedAt = f.clock.tick()
	conn.UpdatedAt = conn.CreatedAt
	stored := *conn
	f.rows[conn.ID] = &stored
	return nil
}

func (f *fakeConnectionRepo) GetByID(_ context.Context, id uint) (*models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, models.NewNotFoundError("Connection", id)
	}
	out := *row
	return &out, nil
}

func (f *fakeConnectionRepo) GetBetweenUsers(_ context.Context, a, b string) (*models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.PairKey(a, b)
	for _, row := range f.rows {
		if row.PairKey == key {
			out := *row
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeConnectionRepo) filter(keep func(*models.Connection) bool) []models.Connection {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Connection{}
	for _, row := range f.rows {
		if keep(row) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeConnectionRepo) GetPending(_ context.Context, receiverID string) ([]models.Connection, error) {
	return f.filter(func(c *models.Connection) bool {
		return c.ReceiverID == receiverID && c.Status == models.ConnectionPending
	}), nil
}

func (f *fakeConnectionRepo) GetAccepted(_ context.Context, userID string) ([]models.Connection, error) {
	return f.filter(func(c *models.Connection) bool {
		return (c.SenderID == userID || c.ReceiverID == userID) && c.Status == models.ConnectionAccepted
	}), nil
}

func (f *fakeConnectionRepo) GetAll(_ context.Context, userID string) ([]models.Connection, error) {
	return f.filter(func(c *models.Connection) bool {
		return c.SenderID == userID || c.ReceiverID == userID
	}), nil
}

func (f *fakeConnectionRepo) TransitionFromPending(_ context.Context, id uint, status models.ConnectionStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok || row.Status != models.ConnectionPending {
		return false, nil
	}
	row.Status = status
	return true, nil
}

type fakeMessageRepo struct {
	mu    sync.Mutex
	clock *clock
	rows  []*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{clock: newClock()}
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.ID = uint(len(f.rows) + 1)
	msg.Read = false
	msg.CreatedAt = f.clock.tick()
	stored := *msg
	f.rows = append(f.rows, &stored)
	return nil
}

func (f *fakeMessageRepo) GetConversation(_ context.Context, a, b string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Message{}
	for _, m := range f.rows {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) GetTouchingUser(_ context.Context, userID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Message{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		m := f.rows[i]
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkRead(_ context.Context, id uint, receiverID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.ID == id && m.ReceiverID == receiverID {
			m.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMessageRepo) MarkConversationRead(_ context.Context, receiverID, senderID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.rows {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (f *fakeMessageRepo) CountUnread(_ context.Context, receiverID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.rows {
		if m.ReceiverID == receiverID && !m.Read {
			n++
		}
	}
	return n, nil
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	rows    []*models.Notification
	failErr error
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	n.ID = uint(len(f.rows) + 1)
	n.Read = false
	stored := *n
	f.rows = append(f.rows, &stored)
	return nil
}

func (f *fakeNotificationRepo) GetByRecipientID(_ context.Context, recipientID string) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Notification{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == recipientID {
			out = append(out, *f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(_ context.Context, recipientID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, row := range f.rows {
		if row.UserID == recipientID && !row.Read {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, id uint, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id && row.UserID == recipientID {
			row.Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.UserID == recipientID {
			row.Read = true
		}
	}
	return nil
}

type fakeCommentRepo struct {
	mu    sync.Mutex
	clock *clock
	rows  map[uint]*models.Comment
	next  uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{clock: newClock(), rows: map[uint]*models.Comment{}}
}

func (f *fakeCommentRepo) CreateComment(_ context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	c.ID = f.next
	c.CreatedAt = f.clock.tick()
	stored := *c
	f.rows[c.ID] = &stored
	return nil
}

func (f *fakeCommentRepo) GetCommentsByIDs(_ context.Context, ids []uint) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Comment{}
	for _, id := range ids {
		if c, ok := f.rows[id]; ok {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCommentRepo) GetCommentsByPostID(_ context.Context, postID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Comment{}
	for _, c := range f.rows {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCommentRepo) DeleteComment(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeCommentRepo) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakePostRepo struct {
	mu      sync.Mutex
	clock   *clock
	rows    map[primitive.ObjectID]*models.Post
	pushErr error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{clock: newClock(), rows: map[primitive.ObjectID]*models.Post{}}
}

func clonePost(p *models.Post) *models.Post {
	out := *p
	out.Likes = append([]string{}, p.Likes...)
	out.CommentIDs = append([]uint{}, p.CommentIDs...)
	out.ImageURLs = append([]string{}, p.ImageURLs...)
	out.VideoURLs = append([]string{}, p.VideoURLs...)
	if p.OriginalPost != nil {
		snap := *p.OriginalPost
		out.OriginalPost = &snap
	}
	return &out
}

func (f *fakePostRepo) lookup(id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	p, ok := f.rows[objID]
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	return p, nil
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = f.clock.tick()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.CommentIDs == nil {
		post.CommentIDs = []uint{}
	}
	f.rows[post.ID] = clonePost(post)
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	return clonePost(p), nil
}

func (f *fakePostRepo) GetAllPosts(_ context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Post{}
	for _, p := range f.rows {
		out = append(out, *clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePostRepo) UpdateText(_ context.Context, id, text string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	p.Text = text
	return clonePost(p), nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.lookup(id)
	if err != nil {
		return err
	}
	delete(f.rows, p.ID)
	return nil
}

func (f *fakePostRepo) AddLike(_ context.Context, postID, userID string) (*models.Post, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.lookup(postID)
	if err != nil {
		return nil, false, err
	}
	if p.HasLike(userID) {
		return clonePost(p), false, nil
	}
	p.Likes = append(p.Likes, userID)
	return clonePost(p), true, nil
}

func (f *fakePostRepo) RemoveLike(_ context.Context, postID, userID string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.lookup(postID)
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
	return clonePost(p), nil
}

func (f *fakePostRepo) PushComment(_ context.Context, postID string, commentID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	p, err := f.lookup(postID)
	if err != nil {
		return err
	}
	p.CommentIDs = append([]uint{commentID}, p.CommentIDs...)
	return nil
}

var errStorage = errors.New("storage unavailable")
