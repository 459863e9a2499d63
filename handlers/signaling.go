package handlers

import (
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"consultly/models"
	"consultly/services/signaling"
	"consultly/utils"
)

// SignalingHandler exposes the call signaling protocol over HTTP. A peer joins
// a room through the SSE stream endpoint, which holds the live session for the
// duration of the connection; the write endpoints (description, candidate,
// leave) address that session by roomID+peerID.
type SignalingHandler struct {
	Service signaling.RoomService

	mu       sync.Mutex
	sessions map[string]*signaling.Session
}

func NewSignalingHandler(service signaling.RoomService) *SignalingHandler {
	return &SignalingHandler{
		Service:  service,
		sessions: make(map[string]*signaling.Session),
	}
}

func sessionKey(roomID, peerID string) string {
	return roomID + "/" + peerID
}

func (h *SignalingHandler) register(s *signaling.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[sessionKey(s.RoomID, s.PeerID)] = s
}

func (h *SignalingHandler) unregister(s *signaling.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[sessionKey(s.RoomID, s.PeerID)] == s {
		delete(h.sessions, sessionKey(s.RoomID, s.PeerID))
	}
}

func (h *SignalingHandler) lookup(roomID, peerID string) *signaling.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[sessionKey(roomID, peerID)]
}

// StreamHandler joins the room and streams its events as SSE. The first event
// is "joined" carrying the assigned role; afterwards each counterpart
// description, candidate batch, presence change and the ended flag arrives as
// its own event. Presence is cleared when the client disconnects.
func (h *SignalingHandler) StreamHandler(c *gin.Context) {
	roomID := c.Param("roomID")
	peerID := c.Query("peerId")
	if peerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "peerId is required"})
		return
	}

	session, err := h.Service.Join(c.Request.Context(), roomID, peerID)
	if err != nil {
		utils.GetLogger().Error("Failed to join signaling room",
			zap.String("roomId", roomID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join room"})
		return
	}
	h.register(session)
	defer func() {
		h.unregister(session)
		session.Leave(c.Request.Context())
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("joined", gin.H{"roomId": roomID, "role": session.Role})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-session.Events():
			if !ok {
				return false
			}
			c.SSEvent(event.Kind, event)
			return event.Kind != models.RoomEventEnded
		case <-clientGone:
			return false
		}
	})
}

// SendDescriptionHandler publishes the peer's SDP: the offer when the peer
// joined as caller, the answer when it joined as callee.
func (h *SignalingHandler) SendDescriptionHandler(c *gin.Context) {
	roomID := c.Param("roomID")
	var input struct {
		PeerID      string                    `json:"peerId" binding:"required"`
		Description models.SessionDescription `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session := h.lookup(roomID, input.PeerID)
	if session == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "peer has no active stream for this room"})
		return
	}
	if err := session.SendDescription(c.Request.Context(), input.Description); err != nil {
		utils.GetLogger().Error("Failed to publish description",
			zap.String("roomId", roomID), zap.String("role", session.Role), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish description"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SendCandidateHandler appends a locally gathered ICE candidate.
func (h *SignalingHandler) SendCandidateHandler(c *gin.Context) {
	roomID := c.Param("roomID")
	var input struct {
		PeerID    string              `json:"peerId" binding:"required"`
		Candidate models.ICECandidate `json:"candidate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session := h.lookup(roomID, input.PeerID)
	if session == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "peer has no active stream for this room"})
		return
	}
	if err := session.SendCandidate(c.Request.Context(), input.Candidate); err != nil {
		utils.GetLogger().Error("Failed to append candidate",
			zap.String("roomId", roomID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to append candidate"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// EndHandler flags the call over for both peers.
func (h *SignalingHandler) EndHandler(c *gin.Context) {
	roomID := c.Param("roomID")
	if err := h.Service.End(c.Request.Context(), roomID); err != nil {
		utils.GetLogger().Error("Failed to end call", zap.String("roomId", roomID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end call"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LeaveHandler clears the peer's presence without ending the call for the
// counterpart. The SSE stream also leaves on disconnect; this endpoint covers
// clients that want an explicit goodbye before closing.
func (h *SignalingHandler) LeaveHandler(c *gin.Context) {
	roomID := c.Param("roomID")
	var input struct {
		PeerID string `json:"peerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if session := h.lookup(roomID, input.PeerID); session != nil {
		session.Leave(c.Request.Context())
		h.unregister(session)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
