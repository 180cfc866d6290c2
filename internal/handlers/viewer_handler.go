package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/xthome/home-manager/internal/domain/household"
	"github.com/xthome/home-manager/internal/httperr"
	ucViewer "github.com/xthome/home-manager/internal/usecase/viewer"
)

type ViewerHandler struct {
	repo    domain.Repository
	invite  *ucViewer.InviteViewer
	accept  *ucViewer.AcceptInvite
	revoke  *ucViewer.RevokeViewer
	invited *ucViewer.ListInvitedViewers
}

func NewViewerHandler(
	repo domain.Repository,
	invite *ucViewer.InviteViewer,
	accept *ucViewer.AcceptInvite,
	revoke *ucViewer.RevokeViewer,
	invited *ucViewer.ListInvitedViewers,
) *ViewerHandler {
	return &ViewerHandler{
		repo:    repo,
		invite:  invite,
		accept:  accept,
		revoke:  revoke,
		invited: invited,
	}
}

// --------- Requests ---------

type InviteRequest struct {
	Email    string `json:"email" binding:"required,email"`
	RecordID uint   `json:"record_id"`
	// Deprecated: pass record_id. Kept for older clients that still
	// reference records by name.
	RecordName string `json:"record_name"`
}

type RevokeRequest struct {
	ViewerID string `json:"viewer_id" binding:"required"`
	RecordID uint   `json:"record_id" binding:"required"`
}

type AcceptInviteRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// --------- Handlers ---------

func (h *ViewerHandler) Invite(c *gin.Context) {
	id := currentIdentity(c)
	if !id.isAdmin() {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "Only admins can invite viewers.")
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	admin, err := h.repo.GetUserByID(c.Request.Context(), id.UserID)
	if err != nil || admin == nil {
		httperr.Internal(c, "admin_not_found", "Could not resolve the inviting admin.")
		return
	}

	out, err := h.invite.Execute(c.Request.Context(), ucViewer.InviteViewerInput{
		Email:      req.Email,
		RecordID:   req.RecordID,
		RecordName: req.RecordName,
		AdminID:    admin.ID,
		AdminName:  admin.FullName,
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, httperr.CodeRecordNotFound):
			httperr.NotFound(c, httperr.CodeRecordNotFound, "Record not found for this admin.")
		case httperr.IsBusiness(err, httperr.CodeAlreadyViewer):
			httperr.Conflict(c, httperr.CodeAlreadyViewer, "User is already a viewer of this record.")
		default:
			httperr.Internal(c, "invite_failed", "Could not send the invitation.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": out.Message,
		"viewer": gin.H{
			"id":        out.User.ID,
			"email":     out.User.Email,
			"full_name": out.User.FullName,
			"role":      out.User.Role,
		},
	})
}

func (h *ViewerHandler) Revoke(c *gin.Context) {
	id := currentIdentity(c)
	if !id.isAdmin() {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "Only admins can revoke viewers.")
		return
	}

	var req RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if err := h.revoke.Execute(c.Request.Context(), id.UserID, req.ViewerID, req.RecordID); err != nil {
		if httperr.IsBusiness(err, httperr.CodeRecordNotFound) {
			httperr.NotFound(c, httperr.CodeRecordNotFound, "Record not found for this admin.")
			return
		}
		httperr.Internal(c, "revoke_failed", "Could not revoke viewer access.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Viewer access revoked successfully."})
}

// AcceptInvite finishes the invited viewer's first login: a permanent
// password replaces the temporary one and pending grants are claimed.
func (h *ViewerHandler) AcceptInvite(c *gin.Context) {
	id := currentIdentity(c)

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if err := h.accept.Execute(c.Request.Context(), id.UserID, req.NewPassword); err != nil {
		if httperr.IsBusiness(err, httperr.CodeUserNotFound) {
			httperr.NotFound(c, httperr.CodeUserNotFound, "User not found.")
			return
		}
		httperr.Internal(c, "accept_failed", "Could not accept the invitation.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation accepted."})
}

func (h *ViewerHandler) ListInvited(c *gin.Context) {
	id := currentIdentity(c)
	if !id.isAdmin() {
		httperr.Forbidden(c, httperr.CodeAccessDenied, "Only admins can list invited viewers.")
		return
	}

	viewers, err := h.invited.Execute(c.Request.Context(), id.UserID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_viewers", "Could not list invited viewers.")
		return
	}

	c.JSON(http.StatusOK, viewers)
}
