package bookings

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
	"github.com/autornexus/platform/internal/observability/metrics"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// DriverDirectory is the narrow slice of the drivers domain that booking
// assignment needs. drivers.Service satisfies it.
type DriverDirectory interface {
	Get(ctx context.Context, id string) (*models.Driver, error)
	List(ctx context.Context, onlyAvailable bool) ([]models.Driver, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type Service interface {
	Create(ctx context.Context, userID string, req CreateRequest) (*models.Booking, error)
	Get(ctx context.Context, id, requesterID, requesterRole string) (*models.Booking, error)
	MyBookings(ctx context.Context, userID string) ([]models.Booking, error)
	All(ctx context.Context, statusFilter string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id, next string) (*models.Booking, error)
	AssignDriver(ctx context.Context, bookingID, driverID string) (*models.Booking, error)
	AvailableDrivers(ctx context.Context) ([]models.Driver, error)
}

type CreateRequest struct {
	BookingType     string `json:"booking_type" binding:"required"`
	NumberOfDays    int    `json:"number_of_days" binding:"required"`
	DriverOption    string `json:"driver_option"`
	PickupLocation  string `json:"pickup_location" binding:"required"`
	DropoffLocation string `json:"dropoff_location" binding:"required"`
	PickupDate      string `json:"pickup_date" binding:"required"`
	PickupTime      string `json:"pickup_time" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	AgreeToTerms    bool   `json:"agree_to_terms"`
	PaymentMethod   string `json:"payment_method"`
}

type ServiceImpl struct {
	logger  *zap.Logger
	repo    Repo
	drivers DriverDirectory
}

func NewService(repo Repo, drivers DriverDirectory, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, drivers: drivers}
}

// Create validates the wizard input and prices the booking server-side.
// Whatever amount the client thinks it owes is ignored.
func (s *ServiceImpl) Create(ctx context.Context, userID string, req CreateRequest) (*models.Booking, error) {
	l := s.logger.With(zap.String("method", "Create"), zap.String("userID", userID))

	tracer := otel.Tracer("autornexus-platform")
	ctx, span := tracer.Start(ctx, "BookingService.Create", trace.WithAttributes(
		attribute.String("booking.type", req.BookingType),
		attribute.Int("booking.days", req.NumberOfDays),
	))
	defer span.End()

	booking := models.Booking{
		UserID:          userID,
		BookingType:     req.BookingType,
		NumberOfDays:    req.NumberOfDays,
		DriverOption:    req.DriverOption,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		PickupTime:      req.PickupTime,
		Phone:           req.Phone,
		AgreeToTerms:    req.AgreeToTerms,
		PaymentMethod:   req.PaymentMethod,
	}

	pickupDate, err := time.Parse("2006-01-02", req.PickupDate)
	if err != nil {
		return nil, fmt.Errorf("pickup date must be YYYY-MM-DD: %w", models.ErrValidation)
	}
	booking.PickupDate = pickupDate

	if err := validateBooking(booking); err != nil {
		return nil, err
	}
	booking.TotalAmount = booking.TotalPrice()

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		l.Error("booking create failed", zap.Error(err))
		return nil, err
	}

	metrics.Get().BookingsCreatedTotal.Add(ctx, 1)
	l.Info("booking created",
		zap.String("bookingID", created.ID),
		zap.Int64("totalAmount", created.TotalAmount))
	return created, nil
}

// Get enforces ownership: customers see only their own bookings, staff
// see everything.
func (s *ServiceImpl) Get(ctx context.Context, id, requesterID, requesterRole string) (*models.Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	staff := requesterRole == models.RoleManager || requesterRole == models.RoleAdmin
	if !staff && booking.UserID != requesterID {
		return nil, fmt.Errorf("booking belongs to another user: %w", models.ErrForbidden)
	}
	return booking, nil
}

func (s *ServiceImpl) MyBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ServiceImpl) All(ctx context.Context, statusFilter string) ([]models.Booking, error) {
	return s.repo.ListAll(ctx, statusFilter)
}

// UpdateStatus applies a staff-driven transition after checking it is
// allowed from the current status.
func (s *ServiceImpl) UpdateStatus(ctx context.Context, id, next string) (*models.Booking, error) {
	l := s.logger.With(zap.String("method", "UpdateStatus"), zap.String("bookingID", id))

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.CanTransitionTo(next) {
		l.Warn("rejected status transition",
			zap.String("from", booking.Status), zap.String("to", next))
		return nil, fmt.Errorf("cannot move booking from %q to %q: %w",
			booking.Status, next, models.ErrInvalidTransition)
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}

	// A cancelled booking releases its driver.
	if next == models.BookingStatusCancelled && booking.AssignedDriverID != nil {
		if err := s.drivers.UpdateStatus(ctx, *booking.AssignedDriverID, models.DriverStatusAvailable); err != nil {
			l.Warn("failed to release driver", zap.Error(err))
		}
	}

	booking.Status = next
	return booking, nil
}

// AssignDriver attaches a verified, available driver to a with-driver
// booking and marks the driver assigned.
func (s *ServiceImpl) AssignDriver(ctx context.Context, bookingID, driverID string) (*models.Booking, error) {
	l := s.logger.With(zap.String("method", "AssignDriver"),
		zap.String("bookingID", bookingID), zap.String("driverID", driverID))

	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.DriverOption != models.DriverOptionWith && booking.BookingType != models.BookingTypeTaxi {
		return nil, fmt.Errorf("booking was made without a driver: %w", models.ErrBadRequest)
	}

	driver, err := s.drivers.Get(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.CanBeAssigned() {
		return nil, fmt.Errorf("driver is not verified and available: %w", models.ErrDriverUnavailable)
	}

	if err := s.repo.AssignDriver(ctx, bookingID, driverID); err != nil {
		return nil, err
	}
	if err := s.drivers.UpdateStatus(ctx, driverID, models.DriverStatusAssigned); err != nil {
		l.Warn("driver status update failed after assignment", zap.Error(err))
	}

	l.Info("driver assigned")
	booking.AssignedDriverID = &driverID
	return booking, nil
}

func (s *ServiceImpl) AvailableDrivers(ctx context.Context) ([]models.Driver, error) {
	return s.drivers.List(ctx, true)
}

func validateBooking(b models.Booking) error {
	switch b.BookingType {
	case models.BookingTypePremium, models.BookingTypeLocal:
		if b.DriverOption != models.DriverOptionWith && b.DriverOption != models.DriverOptionWithout {
			return fmt.Errorf("driver option is required for rentals: %w", models.ErrValidation)
		}
	case models.BookingTypeTaxi:
	default:
		return fmt.Errorf("unknown booking type %q: %w", b.BookingType, models.ErrValidation)
	}
	if b.NumberOfDays < 1 {
		return fmt.Errorf("number of days must be at least 1: %w", models.ErrValidation)
	}
	if b.PickupLocation == "" || b.DropoffLocation == "" {
		return fmt.Errorf("pickup and dropoff locations are required: %w", models.ErrValidation)
	}
	if !b.AgreeToTerms {
		return fmt.Errorf("terms must be accepted: %w", models.ErrValidation)
	}
	return nil
}
