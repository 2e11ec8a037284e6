package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/common"
	"github.com/autornexus/platform/internal/app/middleware"
)

type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type ActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type Handlers struct {
	service Service
	logger  *zap.Logger
}

func NewHandlers(service Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// List is admin-only, paginated under "results".
func (h *Handlers) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := h.service.List(c.Request.Context(), c.Query("role"), page, pageSize)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Results(c, http.StatusOK, users, total, page, pageSize)
}

func (h *Handlers) Get(c *gin.Context) {
	u, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, u)
}

// UpdateProfile lets the owner edit their own name and phone.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "firstName and lastName are required")
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(),
		middleware.GetUserIDFromContext(c), req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, u)
}

func (h *Handlers) UpdateRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "role is required")
		return
	}

	u, err := h.service.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, u)
}

func (h *Handlers) SetActive(c *gin.Context) {
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "active is required")
		return
	}

	if err := h.service.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		common.FailFromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		common.FailFromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
