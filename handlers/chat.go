package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"consultly/services/chat"
	"consultly/utils"
)

// ChatHandler serves the client-admin messaging endpoints.
type ChatHandler struct {
	Service chat.ChatService
}

// OpenSessionHandler returns the client's thread, creating it on first use.
func (h *ChatHandler) OpenSessionHandler(c *gin.Context) {
	var input struct {
		ClientID   string `json:"clientId" binding:"required"`
		ClientName string `json:"clientName"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.OpenSession(c.Request.Context(), input.ClientID, input.ClientName)
	if err != nil {
		utils.GetLogger().Error("Failed to open chat session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open chat session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *ChatHandler) ListSessionsHandler(c *gin.Context) {
	sessions, err := h.Service.ListSessions(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("Failed to list chat sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chat sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// SendMessageHandler posts a message into a session. senderRole is derived
// from the route, not the payload: the admin variant runs behind admin auth.
func (h *ChatHandler) SendMessageHandler(senderRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Text string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}

		msg, err := h.Service.SendMessage(c.Request.Context(), c.Param("sessionID"), senderRole, input.Text)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				c.JSON(http.StatusNotFound, gin.H{"error": "chat session not found"})
				return
			}
			utils.GetLogger().Error("Failed to send chat message", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

func (h *ChatHandler) ListMessagesHandler(c *gin.Context) {
	msgs, err := h.Service.ListMessages(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		utils.GetLogger().Error("Failed to list chat messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// MarkReadHandler clears the reader's unread counter.
func (h *ChatHandler) MarkReadHandler(readerRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.Service.MarkRead(c.Request.Context(), c.Param("sessionID"), readerRole); err != nil {
			utils.GetLogger().Error("Failed to mark messages read", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark read"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
