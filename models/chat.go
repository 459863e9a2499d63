package models

import "time"

// Chat sender roles.
const (
	ChatRoleAdmin  = "admin"
	ChatRoleClient = "client"
)

// ChatSession is one client's conversation thread with the admin. Last-message
// fields are denormalized for the session list view.
type ChatSession struct {
	ID              string    `bson:"id" json:"id"`
	ClientID        string    `bson:"clientId" json:"clientId"`
	ClientName      string    `bson:"clientName" json:"clientName"`
	LastMessage     string    `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageAt   time.Time `bson:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	UnreadForAdmin  int       `bson:"unreadForAdmin" json:"unreadForAdmin"`
	UnreadForClient int       `bson:"unreadForClient" json:"unreadForClient"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// ChatMessage is a single message within a session.
type ChatMessage struct {
	ID         string    `bson:"id" json:"id"`
	SessionID  string    `bson:"sessionId" json:"sessionId"`
	SenderRole string    `bson:"senderRole" json:"senderRole"`
	Text       string    `bson:"text" json:"text"`
	SentAt     time.Time `bson:"sentAt" json:"sentAt"`
	Read       bool      `bson:"read" json:"read"`
}
