package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/common"
	"github.com/autornexus/platform/internal/app/middleware"
	"github.com/autornexus/platform/internal/observability/metrics"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the payload under "data" for login and signup.
type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

type Handlers struct {
	service Service
	logger  *zap.Logger
}

func NewHandlers(service Service, logger *zap.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "malformed request body")
		return
	}

	recordAuthAttempt(c, "signup")

	token, user, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			common.FailFields(c, vErr.Fields)
			return
		}
		common.FailFromError(c, err)
		return
	}

	common.Data(c, http.StatusCreated, AuthResponse{Token: token, User: user})
}

func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	recordAuthAttempt(c, "login")

	token, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.FailFromError(c, err)
		return
	}

	common.Data(c, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Logout runs behind auth middleware; the token is therefore present.
func (h *Handlers) Logout(c *gin.Context) {
	token := middleware.GetTokenFromContext(c)
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		common.FailFromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) Me(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		common.FailFromError(c, err)
		return
	}
	common.Data(c, http.StatusOK, user)
}

func recordAuthAttempt(c *gin.Context, endpoint string) {
	metrics.Get().AuthRequestsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("endpoint", endpoint)))
}
