package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/models"
)

type SettingsHandler struct {
	db *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

type UpdateSettingsRequest struct {
	MilkRatePerLiter float64 `json:"milk_rate_per_liter" binding:"min=0"`
}

// Get returns the caller's settings, creating a zero-rate row on first
// read.
func (h *SettingsHandler) Get(c *gin.Context) {
	id := currentIdentity(c)

	var settings models.Settings
	err := h.db.Where("user_id = ?", id.AdminScope).First(&settings).Error
	if isNotFound(err) {
		settings = models.Settings{UserID: id.AdminScope}
		if err := h.db.Create(&settings).Error; err != nil {
			httperr.Internal(c, "failed_to_create_settings", "Could not initialise settings.")
			return
		}
	} else if err != nil {
		httperr.Internal(c, "failed_to_get_settings", "Could not load settings.")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	id := currentIdentity(c)
	if !id.isAdmin() {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "Only admins can change settings.")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var settings models.Settings
	err := h.db.Where("user_id = ?", id.UserID).First(&settings).Error
	if isNotFound(err) {
		settings = models.Settings{UserID: id.UserID, MilkRatePerLiter: req.MilkRatePerLiter}
		if err := h.db.Create(&settings).Error; err != nil {
			httperr.Internal(c, "failed_to_update_settings", "Could not save settings.")
			return
		}
		c.JSON(http.StatusOK, settings)
		return
	} else if err != nil {
		httperr.Internal(c, "failed_to_get_settings", "Could not load settings.")
		return
	}

	settings.MilkRatePerLiter = req.MilkRatePerLiter
	if err := h.db.Save(&settings).Error; err != nil {
		httperr.Internal(c, "failed_to_update_settings", "Could not save settings.")
		return
	}

	c.JSON(http.StatusOK, settings)
}
