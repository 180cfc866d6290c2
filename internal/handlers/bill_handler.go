package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/xthome/home-manager/internal/access"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/httpresp"
	"github.com/xthome/home-manager/internal/models"
	"github.com/xthome/home-manager/internal/storage"
	"github.com/xthome/home-manager/internal/validators"
)

const maxBillAttachmentBytes = 10 << 20

type BillHandler struct {
	db        *gorm.DB
	evaluator *access.Evaluator
	blobs     storage.BlobStore
}

func NewBillHandler(db *gorm.DB, evaluator *access.Evaluator, blobs storage.BlobStore) *BillHandler {
	return &BillHandler{db: db, evaluator: evaluator, blobs: blobs}
}

// --------- Handlers ---------

func (h *BillHandler) List(c *gin.Context) {
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

	var entries []models.BillEntry
	if err := h.db.Where("record_id = ?", recordID).
		Order("month ASC").
		Find(&entries).Error; err != nil {
		httperr.Internal(c, "failed_to_list_entries", "Could not list bill entries.")
		return
	}

	httpresp.List(c, entries)
}

// Create accepts a multipart form so the bill can carry an optional
// attachment. The attachment is stored first; the entry row only ever
// references an upload that succeeded.
func (h *BillHandler) Create(c *gin.Context) {
	id := currentIdentity(c)
	if !id.isAdmin() {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "Only admins can create entries.")
		return
	}

	recordID, err := strconv.ParseUint(c.PostForm("record_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_record_id", "Record ID must be a valid integer.")
		return
	}

	if claimed := c.PostForm("admin_id"); claimed != "" && claimed != id.UserID {
		httperr.Forbidden(c, httperr.CodeIdentityMismatch, "Admin ID must match the authenticated user.")
		return
	}

	if _, err := h.evaluator.RequireOwner(c.Request.Context(), id.UserID, uint(recordID)); err != nil {
		writeAccessError(c, err)
		return
	}

	month := strings.TrimSpace(c.PostForm("month"))
	if !validators.IsValidMonth(month) {
		httperr.BadRequest(c, "invalid_month", "Month must be in YYYY-MM format.")
		return
	}

	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil || amount <= 0 {
		httperr.BadRequest(c, "invalid_amount", "Amount must be greater than 0.")
		return
	}

	reference := strings.TrimSpace(c.PostForm("reference_number"))
	if reference == "" {
		httperr.BadRequest(c, "missing_reference_number", "Reference number is required.")
		return
	}

	var filePath string
	if fh, err := c.FormFile("file"); err == nil && fh.Size > 0 {
		if fh.Size > maxBillAttachmentBytes {
			httperr.BadRequest(c, "file_too_large", "Attachment exceeds the 10MB limit.")
			return
		}

		f, err := fh.Open()
		if err != nil {
			httperr.Internal(c, "failed_to_read_file", "Could not read the attachment.")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			httperr.Internal(c, "failed_to_read_file", "Could not read the attachment.")
			return
		}

		contentType := fh.Header.Get("Content-Type")
		filePath, err = h.blobs.Put(c.Request.Context(), data, contentType, filepath.Ext(fh.Filename))
		if err != nil {
			logrus.Warnf("bill attachment upload failed: %v", err)
			httperr.Internal(c, "upload_failed", "Could not store the attachment.")
			return
		}
	}

	entry := models.BillEntry{
		RecordID:        uint(recordID),
		Month:           month,
		Amount:          amount,
		ReferenceNumber: reference,
		FilePath:        filePath,
		AdminID:         id.UserID,
	}

	if err := h.db.Create(&entry).Error; err != nil {
		// the row never existed, release the orphaned blob
		if filePath != "" {
			if derr := h.blobs.Delete(c.Request.Context(), filePath); derr != nil {
				logrus.WithField("ref", filePath).Warnf("failed to release orphaned attachment: %v", derr)
			}
		}
		httperr.Internal(c, "failed_to_create_entry", "Could not create the bill entry.")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Delete removes the entry and releases its attachment. The row goes
// first: a storage failure leaves an unreferenced blob, never a dangling
// reference.
func (h *BillHandler) Delete(c *gin.Context) {
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

	var entry models.BillEntry
	if err := h.db.First(&entry, entryID).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, "entry_not_found", "Bill entry not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_entry", "Could not load the bill entry.")
		return
	}

	if _, err := h.evaluator.RequireOwner(c.Request.Context(), id.UserID, entry.RecordID); err != nil {
		writeAccessError(c, err)
		return
	}

	if err := h.db.Delete(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_entry", "Could not delete the bill entry.")
		return
	}

	if entry.FilePath != "" {
		if err := h.blobs.Delete(c.Request.Context(), entry.FilePath); err != nil {
			logrus.WithField("ref", entry.FilePath).Warnf("failed to release bill attachment: %v", err)
		}
	}

	c.Status(http.StatusNoContent)
}

func (h *BillHandler) Analytics(c *gin.Context) {
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

	type monthRow struct {
		Month       string  `json:"month"`
		TotalAmount float64 `json:"total_amount"`
	}

	var rows []monthRow
	if err := h.db.Model(&models.BillEntry{}).
		Select("month, COALESCE(SUM(amount), 0) AS total_amount").
		Where("record_id = ?", recordID).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_aggregate", "Could not compute bill analytics.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"monthly_totals": rows})
}
