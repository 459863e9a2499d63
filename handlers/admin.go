package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"consultly/config"
	"consultly/utils"
)

// AdminHandler serves admin login and session revocation. The admin identity
// comes from configuration; there is no admin collection.
type AdminHandler struct {
	AuthCache *redis.Client
}

// LoginHandler authenticates the configured admin and issues a JWT backed by
// a Redis session.
func (h *AdminHandler) LoginHandler(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	cfg := config.AppConfig
	if input.Email != cfg.AdminEmail ||
		bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(cfg.AdminUID, cfg.AdminEmail, utils.AuthSessionTTL)
	if err != nil {
		utils.GetLogger().Error("Failed to generate admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	session := utils.AuthSession{
		AdminID:   cfg.AdminUID,
		Email:     cfg.AdminEmail,
		CreatedAt: time.Now(),
	}
	if err := utils.SaveAuthSession(h.AuthCache, utils.HashToken(token), session); err != nil {
		utils.GetLogger().Error("Failed to save admin session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// LogoutHandler revokes the presented session.
func (h *AdminHandler) LogoutHandler(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}
	tokenString := authHeader[len(prefix):]

	if err := utils.DeleteAuthSession(h.AuthCache, utils.HashToken(tokenString)); err != nil {
		utils.GetLogger().Warn("Failed to delete admin session", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
