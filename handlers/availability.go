package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"consultly/services/availability"
	"consultly/utils"
)

// AvailabilityHandler serves template, override and resolution endpoints.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

// GetCombinedAvailabilityHandler resolves the final bookable slots for a
// provider on a date. This is the slot list intake shows to clients.
func (h *AvailabilityHandler) GetCombinedAvailabilityHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	date := c.Query("date")

	finalSlots, err := h.Service.Resolve(c.Request.Context(), providerID, date)
	if err != nil {
		var fieldErrs availability.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "fields": fieldErrs})
			return
		}
		utils.GetLogger().Error("Failed to resolve availability",
			zap.String("providerId", providerID), zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to resolve availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "finalSlots": finalSlots})
}

// SaveTemplateHandler replaces the provider's weekly template wholesale.
func (h *AvailabilityHandler) SaveTemplateHandler(c *gin.Context) {
	providerID := c.Param("providerID")

	var input struct {
		Template map[string][]string `json:"template" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.SaveTemplate(c.Request.Context(), providerID, input.Template); err != nil {
		respondAvailabilityError(c, err, "failed to save weekly template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AvailabilityHandler) GetTemplateHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	template, err := h.Service.GetTemplate(c.Request.Context(), providerID)
	if err != nil {
		utils.GetLogger().Error("Failed to fetch weekly template",
			zap.String("providerId", providerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch weekly template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
}

// SaveOverrideHandler upserts the explicit slot list for one date.
func (h *AvailabilityHandler) SaveOverrideHandler(c *gin.Context) {
	providerID := c.Param("providerID")

	var input struct {
		Date  string   `json:"date" binding:"required"`
		Slots []string `json:"slots"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.SaveOverride(c.Request.Context(), providerID, input.Date, input.Slots); err != nil {
		respondAvailabilityError(c, err, "failed to save daily override")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AvailabilityHandler) GetOverrideHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	date := c.Query("date")

	slots, err := h.Service.GetOverride(c.Request.Context(), providerID, date)
	if err != nil {
		respondAvailabilityError(c, err, "failed to fetch daily override")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "slots": slots})
}

func (h *AvailabilityHandler) ListOverridesHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	overrides, err := h.Service.ListOverrides(c.Request.Context(), providerID, c.Query("from"), c.Query("to"))
	if err != nil {
		utils.GetLogger().Error("Failed to list overrides",
			zap.String("providerId", providerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list overrides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "overrides": overrides})
}

func respondAvailabilityError(c *gin.Context, err error, fallback string) {
	var fieldErrs availability.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "fields": fieldErrs})
		return
	}
	utils.GetLogger().Error(fallback, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": fallback})
}
