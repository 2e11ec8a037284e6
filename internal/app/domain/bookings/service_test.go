package bookings

import (
	"context"
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

func (m *MockRepo) Create(ctx context.Context, b models.Booking) (*models.Booking, error) {
	args := m.Called(ctx, b)
	if out := args.Get(0); out != nil {
		return out.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) Get(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if out := args.Get(0); out != nil {
		return out.(*models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	if out := args.Get(0); out != nil {
		return out.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) ListAll(ctx context.Context, statusFilter string) ([]models.Booking, error) {
	args := m.Called(ctx, statusFilter)
	if out := args.Get(0); out != nil {
		return out.([]models.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockRepo) AssignDriver(ctx context.Context, bookingID, driverID string) error {
	return m.Called(ctx, bookingID, driverID).Error(0)
}

func (m *MockRepo) UpdatePayment(ctx context.Context, id, paymentStatus string, gatewayOrderID, gatewayPaymentID *string) error {
	return m.Called(ctx, id, paymentStatus, gatewayOrderID, gatewayPaymentID).Error(0)
}

type MockDrivers struct {
	mock.Mock
}

func (m *MockDrivers) Get(ctx context.Context, id string) (*models.Driver, error) {
	args := m.Called(ctx, id)
	if out := args.Get(0); out != nil {
		return out.(*models.Driver), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDrivers) List(ctx context.Context, onlyAvailable bool) ([]models.Driver, error) {
	args := m.Called(ctx, onlyAvailable)
	if out := args.Get(0); out != nil {
		return out.([]models.Driver), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDrivers) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

// --- Helpers ---

func newTestService(repo Repo, drivers DriverDirectory) *ServiceImpl {
	return NewService(repo, drivers, zap.NewNop())
}

func validCreate() CreateRequest {
	return CreateRequest{
		BookingType:     models.BookingTypePremium,
		NumberOfDays:    3,
		DriverOption:    models.DriverOptionWith,
		PickupLocation:  "Airport",
		DropoffLocation: "City Center",
		PickupDate:      "2026-09-01",
		PickupTime:      "10:00",
		Phone:           "9876543210",
		AgreeToTerms:    true,
	}
}

// --- Tests ---

func TestService_Create_PricesServerSide(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name         string
		bookingType  string
		driverOption string
		days         int
		want         int64
	}{
		{"premium without driver", models.BookingTypePremium, models.DriverOptionWithout, 2, 10000},
		{"premium with driver", models.BookingTypePremium, models.DriverOptionWith, 2, 11000},
		{"local without driver", models.BookingTypeLocal, models.DriverOptionWithout, 4, 6000},
		{"local with driver", models.BookingTypeLocal, models.DriverOptionWith, 4, 7200},
		{"taxi flat rate ignores driver option", models.BookingTypeTaxi, "", 5, 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRepo)
			svc := newTestService(repo, new(MockDrivers))

			repo.On("Create", mock.Anything, mock.MatchedBy(func(b models.Booking) bool {
				return b.TotalAmount == tc.want
			})).Return(&models.Booking{ID: "b-1", TotalAmount: tc.want}, nil)

			req := validCreate()
			req.BookingType = tc.bookingType
			req.DriverOption = tc.driverOption
			req.NumberOfDays = tc.days

			created, err := svc.Create(ctx, "u-1", req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, created.TotalAmount)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)
	svc := newTestService(repo, new(MockDrivers))

	t.Run("terms must be accepted", func(t *testing.T) {
		req := validCreate()
		req.AgreeToTerms = false
		_, err := svc.Create(ctx, "u-1", req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("rental needs a driver option", func(t *testing.T) {
		req := validCreate()
		req.DriverOption = ""
		_, err := svc.Create(ctx, "u-1", req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("unknown booking type rejected", func(t *testing.T) {
		req := validCreate()
		req.BookingType = "spaceship"
		_, err := svc.Create(ctx, "u-1", req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("zero days rejected", func(t *testing.T) {
		req := validCreate()
		req.NumberOfDays = 0
		_, err := svc.Create(ctx, "u-1", req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("bad pickup date rejected", func(t *testing.T) {
		req := validCreate()
		req.PickupDate = "01/09/2026"
		_, err := svc.Create(ctx, "u-1", req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Get_Ownership(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)
	svc := newTestService(repo, new(MockDrivers))

	booking := &models.Booking{ID: "b-1", UserID: "u-owner"}
	repo.On("Get", ctx, "b-1").Return(booking, nil)

	t.Run("owner can read", func(t *testing.T) {
		got, err := svc.Get(ctx, "b-1", "u-owner", models.RoleCustomer)
		require.NoError(t, err)
		assert.Equal(t, "b-1", got.ID)
	})

	t.Run("another customer cannot", func(t *testing.T) {
		_, err := svc.Get(ctx, "b-1", "u-other", models.RoleCustomer)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("staff can read anything", func(t *testing.T) {
		_, err := svc.Get(ctx, "b-1", "u-staff", models.RoleManager)
		assert.NoError(t, err)
	})
}

func TestService_UpdateStatus_Transitions(t *testing.T) {
	ctx := context.Background()

	t.Run("pending to confirmed is allowed", func(t *testing.T) {
		repo := new(MockRepo)
		svc := newTestService(repo, new(MockDrivers))

		repo.On("Get", ctx, "b-1").Return(&models.Booking{ID: "b-1", Status: models.BookingStatusPending}, nil)
		repo.On("UpdateStatus", ctx, "b-1", models.BookingStatusConfirmed).Return(nil)

		got, err := svc.UpdateStatus(ctx, "b-1", models.BookingStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, got.Status)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		repo := new(MockRepo)
		svc := newTestService(repo, new(MockDrivers))

		repo.On("Get", ctx, "b-1").Return(&models.Booking{ID: "b-1", Status: models.BookingStatusCompleted}, nil)

		_, err := svc.UpdateStatus(ctx, "b-1", models.BookingStatusPending)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancellation releases the assigned driver", func(t *testing.T) {
		repo := new(MockRepo)
		drv := new(MockDrivers)
		svc := newTestService(repo, drv)

		driverID := "d-1"
		repo.On("Get", ctx, "b-1").Return(&models.Booking{
			ID: "b-1", Status: models.BookingStatusConfirmed, AssignedDriverID: &driverID,
		}, nil)
		repo.On("UpdateStatus", ctx, "b-1", models.BookingStatusCancelled).Return(nil)
		drv.On("UpdateStatus", ctx, "d-1", models.DriverStatusAvailable).Return(nil)

		_, err := svc.UpdateStatus(ctx, "b-1", models.BookingStatusCancelled)
		require.NoError(t, err)
		drv.AssertExpectations(t)
	})
}

func TestService_AssignDriver(t *testing.T) {
	ctx := context.Background()

	withDriverBooking := &models.Booking{
		ID: "b-1", Status: models.BookingStatusConfirmed,
		BookingType: models.BookingTypePremium, DriverOption: models.DriverOptionWith,
	}
	goodDriver := &models.Driver{ID: "d-1", IsVerified: true, Status: models.DriverStatusAvailable}

	t.Run("assigns a verified available driver", func(t *testing.T) {
		repo := new(MockRepo)
		drv := new(MockDrivers)
		svc := newTestService(repo, drv)

		repo.On("Get", ctx, "b-1").Return(withDriverBooking, nil)
		drv.On("Get", ctx, "d-1").Return(goodDriver, nil)
		repo.On("AssignDriver", ctx, "b-1", "d-1").Return(nil)
		drv.On("UpdateStatus", ctx, "d-1", models.DriverStatusAssigned).Return(nil)

		got, err := svc.AssignDriver(ctx, "b-1", "d-1")
		require.NoError(t, err)
		require.NotNil(t, got.AssignedDriverID)
		assert.Equal(t, "d-1", *got.AssignedDriverID)
	})

	t.Run("rejects unverified driver", func(t *testing.T) {
		repo := new(MockRepo)
		drv := new(MockDrivers)
		svc := newTestService(repo, drv)

		repo.On("Get", ctx, "b-1").Return(withDriverBooking, nil)
		drv.On("Get", ctx, "d-2").Return(&models.Driver{
			ID: "d-2", IsVerified: false, Status: models.DriverStatusAvailable,
		}, nil)

		_, err := svc.AssignDriver(ctx, "b-1", "d-2")
		assert.ErrorIs(t, err, models.ErrDriverUnavailable)
	})

	t.Run("rejects busy driver", func(t *testing.T) {
		repo := new(MockRepo)
		drv := new(MockDrivers)
		svc := newTestService(repo, drv)

		repo.On("Get", ctx, "b-1").Return(withDriverBooking, nil)
		drv.On("Get", ctx, "d-3").Return(&models.Driver{
			ID: "d-3", IsVerified: true, Status: models.DriverStatusOnTrip,
		}, nil)

		_, err := svc.AssignDriver(ctx, "b-1", "d-3")
		assert.ErrorIs(t, err, models.ErrDriverUnavailable)
	})

	t.Run("rejects assignment on a self-drive booking", func(t *testing.T) {
		repo := new(MockRepo)
		drv := new(MockDrivers)
		svc := newTestService(repo, drv)

		repo.On("Get", ctx, "b-2").Return(&models.Booking{
			ID: "b-2", BookingType: models.BookingTypeLocal,
			DriverOption: models.DriverOptionWithout,
		}, nil)

		_, err := svc.AssignDriver(ctx, "b-2", "d-1")
		assert.ErrorIs(t, err, models.ErrBadRequest)
		drv.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
