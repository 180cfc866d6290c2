package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xthome/home-manager/internal/access"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/httpresp"
	"github.com/xthome/home-manager/internal/models"
	"github.com/xthome/home-manager/internal/validators"
)

type RentHandler struct {
	db        *gorm.DB
	evaluator *access.Evaluator
}

func NewRentHandler(db *gorm.DB, evaluator *access.Evaluator) *RentHandler {
	return &RentHandler{db: db, evaluator: evaluator}
}

// --------- Requests ---------

type CreateRentEntryRequest struct {
	RecordID uint    `json:"record_id" binding:"required"`
	Month    string  `json:"month" binding:"required"`
	Amount   float64 `json:"amount"`
	AdminID  string  `json:"admin_id"`
}

// --------- Handlers ---------

func (h *RentHandler) List(c *gin.Context) {
	id := currentIdentity(c)

	recordID, err := parseUintParam(c, "recordId")
	if err != nil {
		httperr.BadRequest(c, "invalid_record_id", "Record ID must be a valid integer.")
		return
	}

	if _, err := h.evaluator.CanRead(c.Request.Context(), id.UserID, recordID); err != nil {
		writeAccessError(c, err)
		return
	}

	var entries []models.RentEntry
	if err := h.db.Where("record_id = ?", recordID).
		Order("month ASC").
		Find(&entries).Error; err != nil {
		httperr.Internal(c, "failed_to_list_entries", "Could not list rent entries.")
		return
	}

	httpresp.List(c, entries)
}

func (h *RentHandler) Create(c *gin.Context) {
	id := currentIdentity(c)
	if !id.isAdmin() {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "Only admins can create entries.")
		return
	}

	var req CreateRentEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.AdminID != "" && req.AdminID != id.UserID {
		httperr.Forbidden(c, httperr.CodeIdentityMismatch, "Admin ID must match the authenticated user.")
		return
	}

	if _, err := h.evaluator.RequireOwner(c.Request.Context(), id.UserID, req.RecordID); err != nil {
		writeAccessError(c, err)
		return
	}

	if !validators.IsValidMonth(req.Month) {
		httperr.BadRequest(c, "invalid_month", "Month must be in YYYY-MM format.")
		return
	}
	if req.Amount <= 0 {
		httperr.BadRequest(c, "invalid_amount", "Amount must be greater than 0.")
		return
	}

	entry := models.RentEntry{
		RecordID: req.RecordID,
		Month:    req.Month,
		Amount:   req.Amount,
		AdminID:  id.UserID,
	}

	if err := h.db.Create(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_create_entry", "Could not create the rent entry.")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *RentHandler) Delete(c *gin.Context) {
	id := currentIdentity(c)
	if !id.isAdmin() {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "Only admins can delete entries.")
		return
	}

	entryID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_entry_id", "Entry ID must be a valid integer.")
		return
	}

	var entry models.RentEntry
	if err := h.db.First(&entry, entryID).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "entry_not_found", "Rent entry not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_entry", "Could not load the rent entry.")
		return
	}

	if _, err := h.evaluator.RequireOwner(c.Request.Context(), id.UserID, entry.RecordID); err != nil {
		writeAccessError(c, err)
		return
	}

	if err := h.db.Delete(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_entry", "Could not delete the rent entry.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RentHandler) Analytics(c *gin.Context) {
	id := currentIdentity(c)

	recordID, err := parseUintParam(c, "recordId")
	if err != nil {
		httperr.BadRequest(c, "invalid_record_id", "Record ID must be a valid integer.")
		return
	}

	if _, err := h.evaluator.CanRead(c.Request.Context(), id.UserID, recordID); err != nil {
		writeAccessError(c, err)
		return
	}

	q := h.db.Model(&models.RentEntry{}).Where("record_id = ?", recordID)

	if month := c.Query("month"); month != "" {
		if !validators.IsValidMonth(month) {
			httperr.BadRequest(c, "invalid_month", "Month must be in YYYY-MM format.")
			return
		}
		q = q.Where("month = ?", month)
	}

	var total float64
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_aggregate", "Could not compute rent analytics.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record_id":    recordID,
		"total_amount": total,
	})
}
