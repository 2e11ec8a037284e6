package bookings

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/common"
	"github.com/autornexus/platform/internal/app/middleware"
)

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driver_id" binding:"required"`
}

type Handlers struct {
	service Service
	logger  *zap.Logger
}

func NewHandlers(service Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

func (h *Handlers) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "malformed request body")
		return
	}

	booking, err := h.service.Create(c.Request.Context(),
		middleware.GetUserIDFromContext(c), req)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusCreated, booking)
}

func (h *Handlers) Get(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	booking, err := h.service.Get(c.Request.Context(), c.Param("id"), user.ID, user.Role)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, booking)
}

func (h *Handlers) MyBookings(c *gin.Context) {
	list, err := h.service.MyBookings(c.Request.Context(),
		middleware.GetUserIDFromContext(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Results(c, http.StatusOK, list, int64(len(list)), 1, len(list))
}

// All is the staff view, filterable with ?status=.
func (h *Handlers) All(c *gin.Context) {
	list, err := h.service.All(c.Request.Context(), c.Query("status"))
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

	booking, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, booking)
}

func (h *Handlers) AssignDriver(c *gin.Context) {
	var req AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "driver_id is required")
		return
	}

	booking, err := h.service.AssignDriver(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, booking)
}

func (h *Handlers) AvailableDrivers(c *gin.Context) {
	drivers, err := h.service.AvailableDrivers(c.Request.Context())
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Results(c, http.StatusOK, drivers, int64(len(drivers)), 1, len(drivers))
}
