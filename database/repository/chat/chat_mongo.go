// File: database/repository/chat/chat_mongo.go
package chatRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"consultly/models"
)

func (r *mongoChatRepo) CreateSession(ctx context.Context, session *models.ChatSession) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = time.Now().UTC()
	if _, err := r.sessions.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create chat session: %w", err)
	}
	return nil
}

func (r *mongoChatRepo) GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.ChatSession
	if err := r.sessions.FindOne(ctx, bson.M{"id": sessionID}).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *mongoChatRepo) FindSessionByClient(ctx context.Context, clientID string) (*models.ChatSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.ChatSession
	if err := r.sessions.FindOne(ctx, bson.M{"clientId": clientID}).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *mongoChatRepo) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.sessions.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"lastMessageAt": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// InsertMessage refreshes the session's denormalized last-message fields plus
// the counterpart's unread counter, then stores the message. The session
// update goes first so a message addressed to a nonexistent session is never
// persisted.
func (r *mongoChatRepo) InsertMessage(ctx context.Context, msg *models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.SentAt = time.Now().UTC()

	unreadField := "unreadForAdmin"
	if msg.SenderRole == models.ChatRoleAdmin {
		unreadField = "unreadForClient"
	}
	update := bson.M{
		"$set": bson.M{"lastMessage": msg.Text, "lastMessageAt": msg.SentAt},
		"$inc": bson.M{unreadField: 1},
	}
	res, err := r.sessions.UpdateOne(ctx, bson.M{"id": msg.SessionID}, update)
	if err != nil {
		return fmt.Errorf("failed to update chat session summary: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	if _, err := r.messages.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

func (r *mongoChatRepo) ListMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.messages.Find(ctx, bson.M{"sessionId": sessionID}, options.Find().SetSort(bson.M{"sentAt": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer cursor.Close(ctx)

	var msgs []models.ChatMessage
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *mongoChatRepo) MarkRead(ctx context.Context, sessionID, readerRole string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	senderRole := models.ChatRoleClient
	unreadField := "unreadForAdmin"
	if readerRole == models.ChatRoleClient {
		senderRole = models.ChatRoleAdmin
		unreadField = "unreadForClient"
	}

	if _, err := r.messages.UpdateMany(ctx,
		bson.M{"sessionId": sessionID, "senderRole": senderRole, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	if _, err := r.sessions.UpdateOne(ctx,
		bson.M{"id": sessionID},
		bson.M{"$set": bson.M{unreadField: 0}},
	); err != nil {
		return fmt.Errorf("failed to reset unread counter: %w", err)
	}
	return nil
}
