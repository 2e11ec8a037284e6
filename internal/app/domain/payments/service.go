package payments

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
	"github.com/autornexus/platform/internal/observability/metrics"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// BookingLedger is the narrow slice of the bookings domain the payment
// flow needs. bookings.PostgresRepo satisfies it.
type BookingLedger interface {
	Get(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdatePayment(ctx context.Context, id, paymentStatus string, gatewayOrderID, gatewayPaymentID *string) error
}

type Service interface {
	CreateOrder(ctx context.Context, bookingID, requesterID string) (*Order, error)
	Verify(ctx context.Context, bookingID, gatewayPaymentID, requesterID string) (*models.Booking, error)
	RefundForCancellation(ctx context.Context, bookingID string) error
}

// Order is what the client needs to run the gateway's payment flow.
type Order struct {
	BookingID      string `json:"booking_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	ClientSecret   string `json:"client_secret"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}

const currency = "inr"

type ServiceImpl struct {
	logger   *zap.Logger
	repo     Repo
	bookings BookingLedger
	provider Provider
}

func NewService(repo Repo, bookings BookingLedger, provider Provider, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, bookings: bookings, provider: provider}
}

// CreateOrder opens a gateway order for the booking's server-computed
// total and marks the booking initiated.
func (s *ServiceImpl) CreateOrder(ctx context.Context, bookingID, requesterID string) (*Order, error) {
	l := s.logger.With(zap.String("method", "CreateOrder"), zap.String("bookingID", bookingID))

	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requesterID {
		return nil, fmt.Errorf("booking belongs to another user: %w", models.ErrForbidden)
	}
	if booking.PaymentStatus == models.PaymentStatusCompleted {
		return nil, fmt.Errorf("booking already paid: %w", models.ErrConflict)
	}

	orderID, clientSecret, err := s.provider.CreateIntent(booking.TotalAmount, currency,
		map[string]string{"booking_id": booking.ID, "user_id": booking.UserID})
	if err != nil {
		l.Error("gateway order creation failed", zap.Error(err))
		return nil, fmt.Errorf("gateway order creation failed: %w", models.ErrPaymentFailed)
	}

	_, err = s.repo.Create(ctx, models.Payment{
		BookingID:      booking.ID,
		Amount:         booking.TotalAmount,
		TotalAmount:    booking.TotalAmount,
		PaymentMethod:  models.PaymentMethodGateway,
		GatewayName:    "stripe",
		GatewayOrderID: orderID,
		Status:         models.PaymentStatusPending,
	})
	if err != nil {
		return nil, err
	}

	if err := s.bookings.UpdatePayment(ctx, booking.ID,
		models.PaymentStatusInitiated, &orderID, nil); err != nil {
		return nil, err
	}

	l.Info("gateway order created", zap.String("orderID", orderID))
	return &Order{
		BookingID:      booking.ID,
		GatewayOrderID: orderID,
		ClientSecret:   clientSecret,
		Amount:         booking.TotalAmount,
		Currency:       currency,
	}, nil
}

// Verify settles a payment from the gateway's answer, never the
// client's. Only a gateway-confirmed success marks the booking paid and
// confirmed; anything else records a failure and surfaces it.
func (s *ServiceImpl) Verify(ctx context.Context, bookingID, gatewayPaymentID, requesterID string) (*models.Booking, error) {
	l := s.logger.With(zap.String("method", "Verify"), zap.String("bookingID", bookingID))

	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != requesterID {
		return nil, fmt.Errorf("booking belongs to another user: %w", models.ErrForbidden)
	}

	payment, err := s.repo.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("no payment order for booking: %w", err)
	}

	status, err := s.provider.IntentStatus(gatewayPaymentID)
	if err != nil {
		l.Error("gateway status lookup failed", zap.Error(err))
		s.recordFailure(ctx, booking.ID, payment.ID, gatewayPaymentID)
		return nil, fmt.Errorf("gateway unreachable during verification: %w", models.ErrPaymentFailed)
	}

	if status != StatusSucceeded {
		l.Warn("gateway reports payment not succeeded", zap.String("status", status))
		s.recordFailure(ctx, booking.ID, payment.ID, gatewayPaymentID)
		return nil, fmt.Errorf("payment not confirmed by gateway (status %q): %w",
			status, models.ErrPaymentFailed)
	}

	if err := s.repo.UpdateStatus(ctx, payment.ID,
		models.PaymentStatusCompleted, gatewayPaymentID); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdatePayment(ctx, booking.ID,
		models.PaymentStatusCompleted, nil, &gatewayPaymentID); err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusPending {
		if err := s.bookings.UpdateStatus(ctx, booking.ID, models.BookingStatusConfirmed); err != nil {
			return nil, err
		}
		booking.Status = models.BookingStatusConfirmed
	}

	metrics.Get().PaymentsVerified.Add(ctx, 1)
	l.Info("payment verified", zap.String("gatewayPaymentID", gatewayPaymentID))

	booking.PaymentStatus = models.PaymentStatusCompleted
	booking.GatewayPaymentID = &gatewayPaymentID
	return booking, nil
}

// RefundForCancellation refunds a paid booking in full. Unpaid bookings
// are a no-op.
func (s *ServiceImpl) RefundForCancellation(ctx context.Context, bookingID string) error {
	l := s.logger.With(zap.String("method", "RefundForCancellation"), zap.String("bookingID", bookingID))

	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.PaymentStatus != models.PaymentStatusCompleted || booking.GatewayPaymentID == nil {
		return nil
	}

	if err := s.provider.Refund(*booking.GatewayPaymentID, nil); err != nil {
		l.Error("refund failed", zap.Error(err))
		return fmt.Errorf("refund failed: %w", models.ErrPaymentFailed)
	}

	payment, err := s.repo.GetByBooking(ctx, bookingID)
	if err == nil {
		if err := s.repo.UpdateStatus(ctx, payment.ID, models.PaymentStatusRefunded, ""); err != nil {
			l.Warn("failed to record refund on payment row", zap.Error(err))
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	if err := s.bookings.UpdatePayment(ctx, bookingID,
		models.PaymentStatusRefunded, nil, nil); err != nil {
		return err
	}
	l.Info("refund issued")
	return nil
}

func (s *ServiceImpl) recordFailure(ctx context.Context, bookingID, paymentID, gatewayPaymentID string) {
	if err := s.repo.UpdateStatus(ctx, paymentID, models.PaymentStatusFailed, gatewayPaymentID); err != nil {
		s.logger.Warn("failed to record payment failure", zap.Error(err))
	}
	if err := s.bookings.UpdatePayment(ctx, bookingID, models.PaymentStatusFailed, nil, &gatewayPaymentID); err != nil {
		s.logger.Warn("failed to record booking payment failure", zap.Error(err))
	}
}
