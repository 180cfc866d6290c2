package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xthome/home-manager/internal/access"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/middleware"
	"github.com/xthome/home-manager/internal/models"
)

// stubAccessStore serves one fixed record to the evaluator.
type stubAccessStore struct {
	record *models.Record
}

func (s *stubAccessStore) GetRecordByID(ctx context.Context, recordID uint) (*models.Record, error) {
	return s.record, nil
}

func (s *stubAccessStore) GetViewerLink(ctx context.Context, recordID uint, viewerID string) (*models.RecordViewer, error) {
	return nil, nil
}

func newBillHandlerForTest() *BillHandler {
	store := &stubAccessStore{
		record: &models.Record{ID: 1, Name: "Bills 2025", Type: models.RecordTypeBill, OwnerID: "admin-1"},
	}
	// Validation rejects before the db or blob store is touched.
	return NewBillHandler(nil, access.NewEvaluator(store), nil)
}

func postBill(t *testing.T, h *BillHandler, role string, fields map[string]string) (int, httperr.HTTPError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/api/bills", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.Request = req

	c.Set(middleware.ContextUserID, "admin-1")
	c.Set(middleware.ContextUserEmail, "admin@x.com")
	c.Set(middleware.ContextUserRole, role)
	c.Set(middleware.ContextAdminScope, "admin-1")

	h.Create(c)

	var resp httperr.HTTPError
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w.Code, resp
}

func validBillFields() map[string]string {
	return map[string]string{
		"record_id":        "1",
		"month":            "2025-01",
		"amount":           "120.50",
		"reference_number": "INV-001",
	}
}

func TestBillCreate_ZeroAmountRejected(t *testing.T) {
	fields := validBillFields()
	fields["amount"] = "0"

	code, resp := postBill(t, newBillHandlerForTest(), models.RoleAdmin, fields)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_amount", resp.Code)
}

func TestBillCreate_NegativeAmountRejected(t *testing.T) {
	fields := validBillFields()
	fields["amount"] = "-5"

	code, resp := postBill(t, newBillHandlerForTest(), models.RoleAdmin, fields)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_amount", resp.Code)
}

func TestBillCreate_MissingReferenceRejected(t *testing.T) {
	fields := validBillFields()
	delete(fields, "reference_number")

	code, resp := postBill(t, newBillHandlerForTest(), models.RoleAdmin, fields)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "missing_reference_number", resp.Code)
}

func TestBillCreate_BadMonthRejected(t *testing.T) {
	fields := validBillFields()
	fields["month"] = "2025-13"

	code, resp := postBill(t, newBillHandlerForTest(), models.RoleAdmin, fields)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_month", resp.Code)
}

func TestBillCreate_ForeignAdminIDRejectedFirst(t *testing.T) {
	// A spoofed admin_id loses before any field validation runs.
	fields := validBillFields()
	fields["admin_id"] = "someone-else"
	fields["amount"] = "0"

	code, resp := postBill(t, newBillHandlerForTest(), models.RoleAdmin, fields)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, httperr.CodeIdentityMismatch, resp.Code)
}

func TestBillCreate_ViewerForbidden(t *testing.T) {
	code, resp := postBill(t, newBillHandlerForTest(), models.RoleViewer, validBillFields())
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, httperr.CodeAccessDenied, resp.Code)
}
