package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xthome/home-manager/internal/access"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/httpresp"
	"github.com/xthome/home-manager/internal/models"
	"github.com/xthome/home-manager/internal/validators"
)

type MilkHandler struct {
	db        *gorm.DB
	evaluator *access.Evaluator
}

func NewMilkHandler(db *gorm.DB, evaluator *access.Evaluator) *MilkHandler {
	return &MilkHandler{db: db, evaluator: evaluator}
}

// --------- Requests ---------

type CreateMilkEntryRequest struct {
	RecordID       uint    `json:"record_id" binding:"required"`
	Date           string  `json:"date" binding:"required"`
	QuantityLiters float64 `json:"quantity_liters"`
	Status         string  `json:"status"`
	// Optional echo of the caller identity; must match the token when set.
	AdminID string `json:"admin_id"`
}

// --------- Handlers ---------

func (h *MilkHandler) List(c *gin.Context) {
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

	var entries []models.MilkEntry
	if err := h.db.Where("record_id = ?", recordID).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		httperr.Internal(c, "failed_to_list_entries", "Could not list milk entries.")
		return
	}

	httpresp.List(c, entries)
}

func (h *MilkHandler) Create(c *gin.Context) {
	id := currentIdentity(c)
	if !id.isAdmin() {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "Only admins can create entries.")
		return
	}

	var req CreateMilkEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// The entry's admin id always comes from the verified token; a
	// payload claiming someone else is rejected outright.
	if req.AdminID != "" && req.AdminID != id.UserID {
		httperr.Forbidden(c, httperr.CodeIdentityMismatch, "Admin ID must match the authenticated user.")
		return
	}

	if _, err := h.evaluator.RequireOwner(c.Request.Context(), id.UserID, req.RecordID); err != nil {
		writeAccessError(c, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be in YYYY-MM-DD format.")
		return
	}

	status := req.Status
	if status == "" {
		status = models.MilkStatusBought
	}
	if status != models.MilkStatusBought && status != models.MilkStatusLeave {
		httperr.BadRequest(c, "invalid_status", "Status must be Bought or Leave.")
		return
	}
	if status == models.MilkStatusBought && req.QuantityLiters <= 0 {
		httperr.BadRequest(c, "invalid_quantity", "Quantity must be greater than 0.")
		return
	}

	// Snapshot the owner's rate at creation time.
	var settings models.Settings
	rate := 0.0
	if err := h.db.Where("user_id = ?", id.UserID).First(&settings).Error; err == nil {
		rate = settings.MilkRatePerLiter
	}

	entry := models.MilkEntry{
		RecordID:       req.RecordID,
		Date:           date,
		QuantityLiters: req.QuantityLiters,
		RatePerLiter:   rate,
		Status:         status,
		AdminID:        id.UserID,
	}
	if status == models.MilkStatusBought {
		entry.TotalCost = req.QuantityLiters * rate
	}

	if err := h.db.Create(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_create_entry", "Could not create the milk entry.")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *MilkHandler) Delete(c *gin.Context) {
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

	var entry models.MilkEntry
	if err := h.db.First(&entry, entryID).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "entry_not_found", "Milk entry not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_entry", "Could not load the milk entry.")
		return
	}

	if _, err := h.evaluator.RequireOwner(c.Request.Context(), id.UserID, entry.RecordID); err != nil {
		writeAccessError(c, err)
		return
	}

	if err := h.db.Delete(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_entry", "Could not delete the milk entry.")
		return
	}

	c.Status(http.StatusNoContent)
}

// Analytics aggregates bought quantity, cost, and bought/leave day counts
// per month, optionally filtered to one month.
func (h *MilkHandler) Analytics(c *gin.Context) {
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

	month := c.Query("month")
	if month != "" && !validators.IsValidMonth(month) {
		httperr.BadRequest(c, "invalid_month", "Month must be in YYYY-MM format.")
		return
	}

	type monthRow struct {
		Month         string  `json:"month"`
		TotalQuantity float64 `json:"total_quantity"`
		TotalCost     float64 `json:"total_cost"`
		BoughtDays    int64   `json:"bought_days"`
		LeaveDays     int64   `json:"leave_days"`
	}

	q := h.db.Model(&models.MilkEntry{}).
		Select(`to_char(date, 'YYYY-MM') AS month,
			COALESCE(SUM(CASE WHEN status = 'Bought' THEN quantity_liters ELSE 0 END), 0) AS total_quantity,
			COALESCE(SUM(CASE WHEN status = 'Bought' THEN total_cost ELSE 0 END), 0) AS total_cost,
			COUNT(*) FILTER (WHERE status = 'Bought') AS bought_days,
			COUNT(*) FILTER (WHERE status = 'Leave') AS leave_days`).
		Where("record_id = ?", recordID).
		Group("to_char(date, 'YYYY-MM')").
		Order("month ASC")

	if month != "" {
		q = q.Having("to_char(date, 'YYYY-MM') = ?", month)
	}

	var rows []monthRow
	if err := q.Scan(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_aggregate", "Could not compute milk analytics.")
		return
	}

	c.JSON(http.StatusOK, rows)
}
