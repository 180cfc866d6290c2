package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/xthome/home-manager/internal/access"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/models"
	"github.com/xthome/home-manager/internal/storage"
)

type RecordHandler struct {
	db        *gorm.DB
	evaluator *access.Evaluator
	blobs     storage.BlobStore
}

func NewRecordHandler(db *gorm.DB, evaluator *access.Evaluator, blobs storage.BlobStore) *RecordHandler {
	return &RecordHandler{db: db, evaluator: evaluator, blobs: blobs}
}

// --------- Requests ---------

type CreateRecordRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// --------- Handlers ---------

// List returns records the caller owns plus records shared with the
// caller through an accepted, access-allowed grant.
func (h *RecordHandler) List(c *gin.Context) {
	id := currentIdentity(c)

	var owned []models.Record
	if err := h.db.Where("owner_id = ?", id.UserID).
		Order("id ASC").
		Find(&owned).Error; err != nil {
		httperr.Internal(c, "failed_to_list_records", "Could not list records.")
		return
	}

	var shared []models.Record
	if err := h.db.
		Joins("JOIN record_viewers rv ON rv.record_id = records.id").
		Where("rv.viewer_id = ? AND rv.allow_viewer_access = ? AND rv.is_accepted = ?",
			id.UserID, true, true).
		Order("records.id ASC").
		Find(&shared).Error; err != nil {
		httperr.Internal(c, "failed_to_list_records", "Could not list records.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"owned":  owned,
		"shared": shared,
	})
}

func (h *RecordHandler) Get(c *gin.Context) {
	id := currentIdentity(c)

	recordID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_record_id", "Record ID must be a valid integer.")
		return
	}

	record, err := h.evaluator.CanRead(c.Request.Context(), id.UserID, recordID)
	if err != nil {
		writeAccessError(c, err)
		return
	}

	resp := gin.H{"record": record}

	// Only the owner sees the viewer list.
	if record.OwnerID == id.UserID {
		var links []models.RecordViewer
		if err := h.db.Preload("Viewer").
			Where("record_id = ?", recordID).
			Find(&links).Error; err == nil {
			viewers := make([]gin.H, 0, len(links))
			for _, l := range links {
				viewers = append(viewers, gin.H{
					"viewer_id":           l.ViewerID,
					"email":               l.Viewer.Email,
					"allow_viewer_access": l.AllowViewerAccess,
					"is_accepted":         l.IsAccepted,
				})
			}
			resp["viewers"] = viewers
		}
	}

	switch record.Type {
	case models.RecordTypeMilk:
		var entries []models.MilkEntry
		h.db.Where("record_id = ?", recordID).Order("date ASC").Find(&entries)
		resp["entries"] = entries
	case models.RecordTypeBill:
		var entries []models.BillEntry
		h.db.Where("record_id = ?", recordID).Order("month ASC").Find(&entries)
		resp["entries"] = entries
	case models.RecordTypeRent:
		var entries []models.RentEntry
		h.db.Where("record_id = ?", recordID).Order("month ASC").Find(&entries)
		resp["entries"] = entries
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RecordHandler) Create(c *gin.Context) {
	id := currentIdentity(c)
	if !id.isAdmin() {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "Only admins can create records.")
		return
	}

	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if !models.IsValidRecordType(req.Type) {
		httperr.BadRequest(c, "invalid_record_type", "Type must be Milk, Bill, or Rent.")
		return
	}

	record := models.Record{
		Name:    req.Name,
		Type:    req.Type,
		OwnerID: id.UserID,
	}

	if err := h.db.Create(&record).Error; err != nil {
		httperr.Internal(c, "failed_to_create_record", "Could not create the record.")
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Delete removes the record with its entries and viewer links, then
// releases any bill attachments. Blob cleanup happens after the commit:
// a storage failure must not resurrect deleted rows.
func (h *RecordHandler) Delete(c *gin.Context) {
	id := currentIdentity(c)

	recordID, err := parseUintParam(c, "id")
	if err != nil {
		httperr.BadRequest(c, "invalid_record_id", "Record ID must be a valid integer.")
		return
	}

	record, err := h.evaluator.RequireOwner(c.Request.Context(), id.UserID, recordID)
	if err != nil {
		writeAccessError(c, err)
		return
	}

	var filePaths []string
	if record.Type == models.RecordTypeBill {
		h.db.Model(&models.BillEntry{}).
			Where("record_id = ? AND file_path <> ''", recordID).
			Pluck("file_path", &filePaths)
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("record_id = ?", recordID).Delete(&models.MilkEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("record_id = ?", recordID).Delete(&models.BillEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("record_id = ?", recordID).Delete(&models.RentEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("record_id = ?", recordID).Delete(&models.RecordViewer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Record{}, recordID).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_record", "Could not delete the record.")
		return
	}

	for _, ref := range filePaths {
		if err := h.blobs.Delete(c.Request.Context(), ref); err != nil {
			logrus.WithField("ref", ref).Warnf("failed to release bill attachment: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully."})
}

// --------- Helpers ---------

func parseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func writeAccessError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, httperr.CodeRecordNotFound):
		httperr.NotFound(c, httperr.CodeRecordNotFound, "Record not found.")
	case httperr.IsBusiness(err, httperr.CodeAccessDenied):
		httperr.Forbidden(c, httperr.CodeAccessDenied, "You do not have access to this record.")
	default:
		httperr.Internal(c, "internal_error", "Could not check record access.")
	}
}
