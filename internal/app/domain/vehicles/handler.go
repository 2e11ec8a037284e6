package vehicles

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/common"
	"github.com/autornexus/platform/internal/app/models"
)

type Handlers struct {
	service Service
	logger  *zap.Logger
}

func NewHandlers(service Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// List is public; the Fleet, LocalCars and UsedCars pages all read it
// with different filters.
func (h *Handlers) List(c *gin.Context) {
	filter := models.VehicleFilter{
		CarType: c.Query("car_type"),
		Status:  c.Query("status"),
	}

	vehicles, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Results(c, http.StatusOK, vehicles, int64(len(vehicles)), 1, len(vehicles))
}

func (h *Handlers) Get(c *gin.Context) {
	v, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, v)
}

func (h *Handlers) Create(c *gin.Context) {
	var v models.Vehicle
	if err := c.ShouldBindJSON(&v); err != nil {
		common.Fail(c, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), v)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusCreated, created)
}

func (h *Handlers) Update(c *gin.Context) {
	var v models.Vehicle
	if err := c.ShouldBindJSON(&v); err != nil {
		common.Fail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	v.ID = c.Param("id")

	updated, err := h.service.Update(c.Request.Context(), v)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, updated)
}

func (h *Handlers) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		common.FailFromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
