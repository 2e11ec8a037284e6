package shell

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/common"
	"github.com/autornexus/platform/internal/app/middleware"
	"github.com/autornexus/platform/internal/app/models"
	"github.com/autornexus/platform/internal/observability/metrics"
)

type NavigateRequest struct {
	CurrentPage  string `json:"currentPage" binding:"required"`
	SelectedRole string `json:"selectedRole"`
}

type Handlers struct {
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewHandlers(dispatcher Dispatcher, logger *zap.Logger) *Handlers {
	return &Handlers{dispatcher: dispatcher, logger: logger}
}

// GetShell restores the shell for the presented token. No token, or a
// dead one, is not an error: the caller gets the public shell.
func (h *Handlers) GetShell(c *gin.Context) {
	token, _ := middleware.ExtractToken(c)

	sh, err := h.dispatcher.Restore(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("shell restore failed", zap.Error(err))
		common.FailFromError(c, err)
		return
	}

	if sh.State != StateUnauthenticated {
		metrics.Get().SessionRestores.Add(c.Request.Context(), 1)
	}
	common.Data(c, http.StatusOK, sh)
}

// Navigate records the user's current page. Runs behind auth middleware.
func (h *Handlers) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "currentPage is required")
		return
	}

	userID := middleware.GetUserIDFromContext(c)
	err := h.dispatcher.Navigate(c.Request.Context(), userID, models.NavigationState{
		CurrentPage:  req.CurrentPage,
		SelectedRole: req.SelectedRole,
	})
	if err != nil {
		h.logger.Error("navigation save failed", zap.Error(err))
		common.FailFromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveDashboard overwrites the caller's snapshot for one scope.
func (h *Handlers) SaveDashboard(c *gin.Context) {
	scope := c.Param("scope")
	if !models.ValidScope(scope) {
		common.Fail(c, http.StatusBadRequest, "unknown dashboard scope")
		return
	}

	var snap models.DashboardSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		common.Fail(c, http.StatusBadRequest, "malformed snapshot")
		return
	}

	user := middleware.GetUserFromContext(c)
	err := h.dispatcher.SaveSnapshot(c.Request.Context(), user.Role,
		models.DashboardScope(scope), user.ID, snap)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDashboard returns the caller's stored snapshot for one scope, or a
// null payload when none exists.
func (h *Handlers) GetDashboard(c *gin.Context) {
	scope := c.Param("scope")
	if !models.ValidScope(scope) {
		common.Fail(c, http.StatusBadRequest, "unknown dashboard scope")
		return
	}

	user := middleware.GetUserFromContext(c)
	snap, err := h.dispatcher.LoadSnapshot(c.Request.Context(), user.Role,
		models.DashboardScope(scope), user.ID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, snap)
}
