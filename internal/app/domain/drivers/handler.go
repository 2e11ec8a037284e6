package drivers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/common"
	"github.com/autornexus/platform/internal/app/models"
)

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type Handlers struct {
	service Service
	logger  *zap.Logger
}

func NewHandlers(service Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

func (h *Handlers) Register(c *gin.Context) {
	var d models.Driver
	if err := c.ShouldBindJSON(&d); err != nil {
		common.Fail(c, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.Register(c.Request.Context(), d)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusCreated, created)
}

func (h *Handlers) Get(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, d)
}

func (h *Handlers) List(c *gin.Context) {
	onlyAvailable := c.Query("available") == "true"
	list, err := h.service.List(c.Request.Context(), onlyAvailable)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Results(c, http.StatusOK, list, int64(len(list)), 1, len(list))
}

func (h *Handlers) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "status is required")
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		common.FailFromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) Verify(c *gin.Context) {
	d, err := h.service.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, d)
}

func (h *Handlers) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		common.FailFromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
