package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xthome/home-manager/internal/httperr"
	ucDashboard "github.com/xthome/home-manager/internal/usecase/dashboard"
)

type DashboardHandler struct {
	summary *ucDashboard.Summary
}

func NewDashboardHandler(summary *ucDashboard.Summary) *DashboardHandler {
	return &DashboardHandler{summary: summary}
}

// Summary returns record and entry counts for the dashboard landing
// page, scoped to what the caller is allowed to read.
func (h *DashboardHandler) Summary(c *gin.Context) {
	id := currentIdentity(c)

	out, err := h.summary.Execute(c.Request.Context(), id.UserID)
	if err != nil {
		httperr.Internal(c, "failed_to_summarise", "Could not compute the summary.")
		return
	}

	c.JSON(http.StatusOK, out)
}
