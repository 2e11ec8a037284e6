package payments

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/common"
	"github.com/autornexus/platform/internal/app/middleware"
)

type CreateOrderRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

type VerifyRequest struct {
	BookingID        string `json:"booking_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
}

type Handlers struct {
	service Service
	logger  *zap.Logger
}

func NewHandlers(service Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

func (h *Handlers) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "booking_id is required")
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), req.BookingID,
		middleware.GetUserIDFromContext(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusCreated, order)
}

// Verify trusts only the gateway's answer about the payment outcome.
func (h *Handlers) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "booking_id and gateway_payment_id are required")
		return
	}

	booking, err := h.service.Verify(c.Request.Context(), req.BookingID,
		req.GatewayPaymentID, middleware.GetUserIDFromContext(c))
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, booking)
}
