package services

import (
	"context"
	"errors"

	"github.com/anonto42/connectly/backend/internal/models"
	"github.com/anonto42/connectly/backend/internal/repositories"
)

// ConversationStore owns direct messages and derives per-user conversation
// summaries from them.
type ConversationStore struct {
	repo     repositories.MessageRepository
	notifier Notifier
}

// NewConversationStore returns a new ConversationStore.
func NewConversationStore(repo repositories.MessageRepository, notifier Notifier) *ConversationStore {
	return &ConversationStore{repo: repo, notifier: notifier}
}

// Send stores an unread message and notifies the receiver. Connection
// status is not consulted.
func (s *ConversationStore) Send(ctx context.Context, sender, receiver models.Party, content, imageURL string) (msg *models.Message, err error) {
	defer observe(componentConversations, "send", &err)

	msg = &models.Message{
		SenderID:      sender.ID,
		SenderName:    sender.Name,
		SenderImage:   sender.Image,
		ReceiverID:    receiver.ID,
		ReceiverName:  receiver.Name,
		ReceiverImage: receiver.Image,
		Content:       content,
		ImageURL:      imageURL,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.notifier.NotifyBestEffort(ctx, receiver.ID, sender, models.MessageEvent{})
	return msg, nil
}

// GetConversation returns the messages between a and b, oldest first.
func (s *ConversationStore) GetConversation(ctx context.Context, a, b string) ([]models.Message, error) {
	return s.repo.GetConversation(ctx, a, b)
}

// ListConversations summarizes every counterpart the user has exchanged
// messages with, most recent first.
func (s *ConversationStore) ListConversations(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	msgs, err := s.repo.GetTouchingUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SummarizeConversations(userID, msgs), nil
}

// SummarizeConversations groups msgs (newest first) by counterpart. The
// first message seen per peer is the latest one; HasUnread is set when any
// message from that peer to userID is unread.
func SummarizeConversations(userID string, msgs []models.Message) []models.ConversationSummary {
	summaries := []models.ConversationSummary{}
	index := make(map[string]int)

	for i := range msgs {
		m := &msgs[i]
		peer := m.Peer(userID)
		unread := m.ReceiverID == userID && !m.Read

		pos, seen := index[peer.ID]
		if !seen {
			index[peer.ID] = len(summaries)
			summaries = append(summaries, models.ConversationSummary{
				PeerUserID:         peer.ID,
				PeerName:           peer.Name,
				PeerImage:          peer.Image,
				LastMessageContent: m.Content,
				LastMessageImage:   m.ImageURL,
				LastMessageTime:    m.CreatedAt,
				HasUnread:          unread,
			})
			continue
		}
		if unread {
			summaries[pos].HasUnread = true
		}
	}
	return summaries
}

// MarkRead flags one message addressed to receiverID read. A missing
// message, or one addressed to someone else, is ignored.
func (s *ConversationStore) MarkRead(ctx context.Context, messageID uint, receiverID string) (err error) {
	defer observe(componentConversations, "mark_read", &err)

	if _, err := s.repo.MarkRead(ctx, messageID, receiverID); err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return nil
}

// MarkConversationRead flags every unread message from otherUserID to
// currentUserID read in one bulk update.
func (s *ConversationStore) MarkConversationRead(ctx context.Context, currentUserID, otherUserID string) (err error) {
	defer observe(componentConversations, "mark_conversation_read", &err)

	_, err = s.repo.MarkConversationRead(ctx, currentUserID, otherUserID)
	return err
}

// UnreadCount returns how many messages addressed to the user are unread.
func (s *ConversationStore) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
