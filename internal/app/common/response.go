package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autornexus/platform/internal/app/models"
)

// Envelope is the top level shape of every successful API response.
// Single objects go under "data", list endpoints nest a "results" page
// inside it.
type Envelope struct {
	Data any `json:"data"`
}

// Page is the paginated list payload placed under "data".
type Page struct {
	Results  any   `json:"results"`
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Errors map[string][]string `json:"errors,omitempty"`
	Detail string              `json:"detail"`
}

// Data writes a single object response.
func Data(c *gin.Context, status int, payload any) {
	c.JSON(status, Envelope{Data: payload})
}

// Results writes a paginated list response.
func Results(c *gin.Context, status int, results any, count int64, page, pageSize int) {
	c.JSON(status, Envelope{Data: Page{
		Results:  results,
		Count:    count,
		Page:     page,
		PageSize: pageSize,
	}})
}

// Fail writes an error response with a detail message only.
func Fail(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorBody{Detail: detail})
}

// FailFields writes a validation error response with per-field messages.
func FailFields(c *gin.Context, fields map[string][]string) {
	c.JSON(http.StatusBadRequest, ErrorBody{
		Errors: fields,
		Detail: "validation failed",
	})
}

// FailFromError maps a domain error to the right HTTP status and writes
// the error envelope. Unknown errors become 500 with a generic detail so
// internals never leak to clients.
func FailFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		Fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrConflict):
		Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrUnauthenticated):
		Fail(c, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, models.ErrForbidden):
		Fail(c, http.StatusForbidden, "permission denied")
	case errors.Is(err, models.ErrInvalidRole):
		Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrDriverUnavailable),
		errors.Is(err, models.ErrVehicleUnavailable),
		errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrBadRequest):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrPaymentFailed):
		Fail(c, http.StatusPaymentRequired, err.Error())
	default:
		Fail(c, http.StatusInternalServerError, "internal server error")
	}
}
