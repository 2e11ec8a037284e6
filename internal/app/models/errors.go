package models

import "errors"

// Domain specific errors shared across services and handlers.
var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrValidation      = errors.New("validation failed")

	ErrInvalidRole        = errors.New("missing or unrecognized user role")
	ErrInvalidTransition  = errors.New("booking status transition not allowed")
	ErrDriverUnavailable  = errors.New("driver is not available for assignment")
	ErrPaymentFailed      = errors.New("payment could not be verified as completed")
	ErrVehicleUnavailable = errors.New("vehicle is not available for booking")
)
