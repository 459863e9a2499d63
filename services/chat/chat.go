// File: services/chat/chat.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	chatRepo "consultly/database/repository/chat"
	"consultly/models"
	"consultly/utils"
)

// PushEnqueuer schedules a push notification for the message counterpart.
type PushEnqueuer interface {
	EnqueuePush(payload models.PushPayload) error
}

// ChatService is the client-admin messaging surface.
type ChatService interface {
	OpenSession(ctx context.Context, clientID, clientName string) (*models.ChatSession, error)
	ListSessions(ctx context.Context) ([]models.ChatSession, error)
	SendMessage(ctx context.Context, sessionID, senderRole, text string) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	MarkRead(ctx context.Context, sessionID, readerRole string) error
}

// DefaultChatService is the production implementation.
type DefaultChatService struct {
	Chats chatRepo.ChatRepository
	Tasks PushEnqueuer
}

// OpenSession returns the client's existing thread or starts one.
func (s *DefaultChatService) OpenSession(ctx context.Context, clientID, clientName string) (*models.ChatSession, error) {
	if clientID == "" {
		return nil, fmt.Errorf("clientId must not be empty")
	}
	session, err := s.Chats.FindSessionByClient(ctx, clientID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to open chat session: %w", err)
	}

	session = &models.ChatSession{ClientID: clientID, ClientName: clientName}
	if err := s.Chats.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultChatService) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	return s.Chats.ListSessions(ctx)
}

// SendMessage stores the message and notifies the counterpart. The push is
// fire-and-forget; delivery problems never fail the send.
func (s *DefaultChatService) SendMessage(ctx context.Context, sessionID, senderRole, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text must not be empty")
	}
	if senderRole != models.ChatRoleAdmin && senderRole != models.ChatRoleClient {
		return nil, fmt.Errorf("unknown sender role %q", senderRole)
	}

	msg := &models.ChatMessage{
		SessionID:  sessionID,
		SenderRole: senderRole,
		Text:       text,
	}
	if err := s.Chats.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if s.Tasks != nil {
		recipient := models.ChatRoleAdmin
		if senderRole == models.ChatRoleAdmin {
			recipient = models.ChatRoleClient
		}
		push := models.PushPayload{
			Role:  recipient,
			Title: "New message",
			Body:  text,
			Data:  map[string]string{"sessionId": sessionID},
		}
		if err := s.Tasks.EnqueuePush(push); err != nil {
			utils.GetLogger().Warn("chat: failed to enqueue push",
				zap.String("sessionId", sessionID), zap.Error(err))
		}
	}
	return msg, nil
}

func (s *DefaultChatService) ListMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	return s.Chats.ListMessages(ctx, sessionID)
}

func (s *DefaultChatService) MarkRead(ctx context.Context, sessionID, readerRole string) error {
	return s.Chats.MarkRead(ctx, sessionID, readerRole)
}
