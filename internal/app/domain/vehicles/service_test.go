package vehicles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]models.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) Create(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	args := m.Called(ctx, v)
	if out := args.Get(0); out != nil {
		return out.(*models.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) Update(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	args := m.Called(ctx, v)
	if out := args.Get(0); out != nil {
		return out.(*models.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func validVehicle() models.Vehicle {
	return models.Vehicle{
		RegistrationNumber: "KA-01-AB-1234",
		Brand:              "Toyota",
		Model:              "Innova",
		Year:               2023,
		CarType:            models.CarTypePremium,
		DailyRentalPrice:   5000,
	}
}

func TestService_List_CachesUntilMutation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)
	svc := NewService(repo, zap.NewNop())

	fleet := []models.Vehicle{{ID: "v-1", Brand: "Toyota"}}
	filter := models.VehicleFilter{CarType: models.CarTypePremium}

	repo.On("List", ctx, filter).Return(fleet, nil).Once()

	first, err := svc.List(ctx, filter)
	require.NoError(t, err)
	second, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "List", 1)

	// A mutation flushes the listing cache.
	created := validVehicle()
	createdOut := created
	createdOut.ID = "v-2"
	createdOut.Status = models.VehicleStatusAvailable
	repo.On("Create", ctx, mock.Anything).Return(&createdOut, nil).Once()
	_, err = svc.Create(ctx, created)
	require.NoError(t, err)

	repo.On("List", ctx, filter).Return(fleet, nil).Once()
	_, err = svc.List(ctx, filter)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 2)
}

func TestService_List_DistinctFiltersDistinctEntries(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)
	svc := NewService(repo, zap.NewNop())

	premium := models.VehicleFilter{CarType: models.CarTypePremium}
	used := models.VehicleFilter{CarType: models.CarTypeUsed}

	repo.On("List", ctx, premium).Return([]models.Vehicle{{ID: "v-p"}}, nil).Once()
	repo.On("List", ctx, used).Return([]models.Vehicle{{ID: "v-u"}}, nil).Once()

	p, err := svc.List(ctx, premium)
	require.NoError(t, err)
	u, err := svc.List(ctx, used)
	require.NoError(t, err)
	assert.Equal(t, "v-p", p[0].ID)
	assert.Equal(t, "v-u", u[0].ID)
}

func TestService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)
	svc := NewService(repo, zap.NewNop())

	t.Run("unknown car type rejected", func(t *testing.T) {
		v := validVehicle()
		v.CarType = "hovercraft"
		_, err := svc.Create(ctx, v)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("missing registration rejected", func(t *testing.T) {
		v := validVehicle()
		v.RegistrationNumber = ""
		_, err := svc.Create(ctx, v)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		v := validVehicle()
		v.DailyRentalPrice = -1
		_, err := svc.Create(ctx, v)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_DefaultsStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepo)
	svc := NewService(repo, zap.NewNop())

	repo.On("Create", ctx, mock.MatchedBy(func(v models.Vehicle) bool {
		return v.Status == models.VehicleStatusAvailable
	})).Return(&models.Vehicle{ID: "v-1"}, nil)

	_, err := svc.Create(ctx, validVehicle())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
