package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"consultly/models"
	"consultly/services/request"
	"consultly/utils"
)

// RequestHandler serves the booking ledger endpoints.
type RequestHandler struct {
	Service request.RequestService
}

// SubmitRequestHandler creates a pending service request from client intake.
func (h *RequestHandler) SubmitRequestHandler(c *gin.Context) {
	var draft models.ServiceRequestDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input", "details": err.Error()})
		return
	}

	requestID, err := h.Service.Submit(c.Request.Context(), draft)
	if err != nil {
		var vErr *request.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation failed", "fields": vErr.Fields})
			return
		}
		utils.GetLogger().Error("Failed to submit service request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to submit request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "requestId": requestID})
}

func (h *RequestHandler) GetRequestHandler(c *gin.Context) {
	req, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "request not found"})
			return
		}
		utils.GetLogger().Error("Failed to fetch service request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "request": req})
}

// ListRequestsHandler lists requests, optionally filtered by status.
func (h *RequestHandler) ListRequestsHandler(c *gin.Context) {
	reqs, err := h.Service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.GetLogger().Error("Failed to list service requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": reqs})
}

// UpdateRequestAdminDetailsHandler applies a status transition and/or meeting
// link.
func (h *RequestHandler) UpdateRequestAdminDetailsHandler(c *gin.Context) {
	var input struct {
		Status     string `json:"status"`
		MeetingURL string `json:"meetingUrl"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input", "details": err.Error()})
		return
	}

	err := h.Service.UpdateAdminDetails(c.Request.Context(), c.Param("id"), input.Status, input.MeetingURL)
	if err != nil {
		var vErr *request.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation failed", "fields": vErr.Fields})
		case errors.Is(err, mongo.ErrNoDocuments):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "request not found"})
		default:
			utils.GetLogger().Error("Failed to update service request", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update request"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteRequestsHandler removes the given requests from the ledger.
func (h *RequestHandler) DeleteRequestsHandler(c *gin.Context) {
	var input struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input", "details": err.Error()})
		return
	}

	count, err := h.Service.DeleteMany(c.Request.Context(), input.IDs)
	if err != nil {
		utils.GetLogger().Error("Failed to delete service requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "countDeleted": count})
}
