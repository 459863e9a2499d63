// File: database/repository/chat/interface.go
package chatRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"consultly/database"
	"consultly/models"
)

// ChatRepository persists chat sessions and their messages.
type ChatRepository interface {
	CreateSession(ctx context.Context, session *models.ChatSession) error
	GetSession(ctx context.Context, sessionID string) (*models.ChatSession, error)
	FindSessionByClient(ctx context.Context, clientID string) (*models.ChatSession, error)
	ListSessions(ctx context.Context) ([]models.ChatSession, error)
	InsertMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	MarkRead(ctx context.Context, sessionID, readerRole string) error
}

type mongoChatRepo struct {
	sessions *mongo.Collection
	messages *mongo.Collection
}

// NewMongoChatRepo constructs a new MongoDB ChatRepository.
func NewMongoChatRepo() ChatRepository {
	db := database.DB()
	return &mongoChatRepo{
		sessions: db.Collection("chatSessions"),
		messages: db.Collection("chatMessages"),
	}
}
