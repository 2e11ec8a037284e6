package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
	"github.com/autornexus/platform/internal/observability/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	m.Run()
}

// --- Mocks ---

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Create(ctx context.Context, p models.Payment) (*models.Payment, error) {
	args := m.Called(ctx, p)
	if out := args.Get(0); out != nil {
		return out.(*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) GetByBooking(ctx context.Context, bookingID string) (*models.Payment, error) {
	args := m.Called(ctx, bookingID)
	if out := args.Get(0); out != nil {
		return out.(*models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) UpdateStatus(ctx context.Context, id, status, gatewayPaymentID string) error {
	return m.Called(ctx, id, status, gatewayPaymentID).Error(0)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Get(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if out := args.Get(0); out != nil {
		return out.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedger) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockLedger) UpdatePayment(ctx context.Context, id, paymentStatus string, gatewayOrderID, gatewayPaymentID *string) error {
	return m.Called(ctx, id, paymentStatus, gatewayOrderID, gatewayPaymentID).Error(0)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateIntent(amount int64, currency string, metadata map[string]string) (string, string, error) {
	args := m.Called(amount, currency, metadata)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockProvider) IntentStatus(id string) (string, error) {
	args := m.Called(id)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) Refund(paymentID string, amount *int64) error {
	return m.Called(paymentID, amount).Error(0)
}

// --- Helpers ---

func pendingBooking() *models.Booking {
	return &models.Booking{
		ID:            "b-1",
		UserID:        "u-1",
		TotalAmount:   11000,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusInitiated,
	}
}

// --- Tests ---

func TestService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a gateway order for the stored total", func(t *testing.T) {
		repo := new(MockRepo)
		ledger := new(MockLedger)
		provider := new(MockProvider)
		svc := NewService(repo, ledger, provider, zap.NewNop())

		booking := pendingBooking()
		booking.PaymentStatus = models.PaymentStatusPending
		ledger.On("Get", ctx, "b-1").Return(booking, nil)
		provider.On("CreateIntent", int64(11000), "inr", mock.Anything).
			Return("pi_123", "secret_123", nil)
		repo.On("Create", ctx, mock.MatchedBy(func(p models.Payment) bool {
			return p.BookingID == "b-1" && p.GatewayOrderID == "pi_123" &&
				p.Status == models.PaymentStatusPending
		})).Return(&models.Payment{ID: "p-1"}, nil)
		ledger.On("UpdatePayment", ctx, "b-1", models.PaymentStatusInitiated,
			mock.Anything, mock.Anything).Return(nil)

		order, err := svc.CreateOrder(ctx, "b-1", "u-1")
		require.NoError(t, err)
		assert.Equal(t, "pi_123", order.GatewayOrderID)
		assert.Equal(t, "secret_123", order.ClientSecret)
		assert.Equal(t, int64(11000), order.Amount)
	})

	t.Run("rejects another user's booking", func(t *testing.T) {
		ledger := new(MockLedger)
		svc := NewService(new(MockRepo), ledger, new(MockProvider), zap.NewNop())

		ledger.On("Get", ctx, "b-1").Return(pendingBooking(), nil)

		_, err := svc.CreateOrder(ctx, "b-1", "u-intruder")
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("rejects an already paid booking", func(t *testing.T) {
		ledger := new(MockLedger)
		svc := NewService(new(MockRepo), ledger, new(MockProvider), zap.NewNop())

		paid := pendingBooking()
		paid.PaymentStatus = models.PaymentStatusCompleted
		ledger.On("Get", ctx, "b-1").Return(paid, nil)

		_, err := svc.CreateOrder(ctx, "b-1", "u-1")
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("gateway failure surfaces as payment error", func(t *testing.T) {
		ledger := new(MockLedger)
		provider := new(MockProvider)
		svc := NewService(new(MockRepo), ledger, provider, zap.NewNop())

		booking := pendingBooking()
		booking.PaymentStatus = models.PaymentStatusPending
		ledger.On("Get", ctx, "b-1").Return(booking, nil)
		provider.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything).
			Return("", "", errors.New("stripe down"))

		_, err := svc.CreateOrder(ctx, "b-1", "u-1")
		assert.ErrorIs(t, err, models.ErrPaymentFailed)
	})
}

func TestService_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("gateway-confirmed success settles booking and payment", func(t *testing.T) {
		repo := new(MockRepo)
		ledger := new(MockLedger)
		provider := new(MockProvider)
		svc := NewService(repo, ledger, provider, zap.NewNop())

		ledger.On("Get", ctx, "b-1").Return(pendingBooking(), nil)
		repo.On("GetByBooking", ctx, "b-1").Return(&models.Payment{ID: "p-1"}, nil)
		provider.On("IntentStatus", "pi_123").Return(StatusSucceeded, nil)
		repo.On("UpdateStatus", ctx, "p-1", models.PaymentStatusCompleted, "pi_123").Return(nil)
		ledger.On("UpdatePayment", ctx, "b-1", models.PaymentStatusCompleted,
			mock.Anything, mock.Anything).Return(nil)
		ledger.On("UpdateStatus", ctx, "b-1", models.BookingStatusConfirmed).Return(nil)

		booking, err := svc.Verify(ctx, "b-1", "pi_123", "u-1")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, booking.PaymentStatus)
		assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
		ledger.AssertExpectations(t)
	})

	t.Run("client cannot fabricate success the gateway denies", func(t *testing.T) {
		repo := new(MockRepo)
		ledger := new(MockLedger)
		provider := new(MockProvider)
		svc := NewService(repo, ledger, provider, zap.NewNop())

		ledger.On("Get", ctx, "b-1").Return(pendingBooking(), nil)
		repo.On("GetByBooking", ctx, "b-1").Return(&models.Payment{ID: "p-1"}, nil)
		provider.On("IntentStatus", "pi_123").Return("requires_payment_method", nil)
		repo.On("UpdateStatus", ctx, "p-1", models.PaymentStatusFailed, "pi_123").Return(nil)
		ledger.On("UpdatePayment", ctx, "b-1", models.PaymentStatusFailed,
			mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Verify(ctx, "b-1", "pi_123", "u-1")
		assert.ErrorIs(t, err, models.ErrPaymentFailed)
		ledger.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unreachable gateway records failure and errors", func(t *testing.T) {
		repo := new(MockRepo)
		ledger := new(MockLedger)
		provider := new(MockProvider)
		svc := NewService(repo, ledger, provider, zap.NewNop())

		ledger.On("Get", ctx, "b-1").Return(pendingBooking(), nil)
		repo.On("GetByBooking", ctx, "b-1").Return(&models.Payment{ID: "p-1"}, nil)
		provider.On("IntentStatus", "pi_123").Return("", errors.New("timeout"))
		repo.On("UpdateStatus", ctx, "p-1", models.PaymentStatusFailed, "pi_123").Return(nil)
		ledger.On("UpdatePayment", ctx, "b-1", models.PaymentStatusFailed,
			mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Verify(ctx, "b-1", "pi_123", "u-1")
		assert.ErrorIs(t, err, models.ErrPaymentFailed)
	})
}

func TestService_RefundForCancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("refunds a paid booking in full", func(t *testing.T) {
		repo := new(MockRepo)
		ledger := new(MockLedger)
		provider := new(MockProvider)
		svc := NewService(repo, ledger, provider, zap.NewNop())

		piID := "pi_123"
		paid := pendingBooking()
		paid.PaymentStatus = models.PaymentStatusCompleted
		paid.GatewayPaymentID = &piID

		ledger.On("Get", ctx, "b-1").Return(paid, nil)
		provider.On("Refund", "pi_123", (*int64)(nil)).Return(nil)
		repo.On("GetByBooking", ctx, "b-1").Return(&models.Payment{ID: "p-1"}, nil)
		repo.On("UpdateStatus", ctx, "p-1", models.PaymentStatusRefunded, "").Return(nil)
		ledger.On("UpdatePayment", ctx, "b-1", models.PaymentStatusRefunded,
			mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, svc.RefundForCancellation(ctx, "b-1"))
		provider.AssertExpectations(t)
	})

	t.Run("unpaid booking is a no-op", func(t *testing.T) {
		ledger := new(MockLedger)
		provider := new(MockProvider)
		svc := NewService(new(MockRepo), ledger, provider, zap.NewNop())

		ledger.On("Get", ctx, "b-1").Return(pendingBooking(), nil)

		require.NoError(t, svc.RefundForCancellation(ctx, "b-1"))
		provider.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
	})
}
