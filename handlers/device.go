package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	deviceRepo "consultly/database/repository/device"
	"consultly/models"
	"consultly/utils"
)

// DeviceHandler manages FCM push token registration.
type DeviceHandler struct {
	Devices deviceRepo.DeviceRepository
}

// RegisterTokenHandler upserts a push token for its owner.
func (h *DeviceHandler) RegisterTokenHandler(c *gin.Context) {
	var input struct {
		Token   string `json:"token" binding:"required"`
		OwnerID string `json:"ownerId" binding:"required"`
		Role    string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if input.Role != models.ChatRoleAdmin && input.Role != models.ChatRoleClient {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be admin or client"})
		return
	}

	token := models.DeviceToken{Token: input.Token, OwnerID: input.OwnerID, Role: input.Role}
	if err := h.Devices.Register(c.Request.Context(), token); err != nil {
		utils.GetLogger().Error("Failed to register device token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register device token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveTokenHandler drops a token, typically after FCM reports it invalid or
// the user signs out.
func (h *DeviceHandler) RemoveTokenHandler(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Devices.Remove(c.Request.Context(), input.Token); err != nil {
		utils.GetLogger().Error("Failed to remove device token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove device token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
