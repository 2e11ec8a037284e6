package vehicles

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type Service interface {
	List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error)
	Get(ctx context.Context, id string) (*models.Vehicle, error)
	Create(ctx context.Context, v models.Vehicle) (*models.Vehicle, error)
	Update(ctx context.Context, v models.Vehicle) (*models.Vehicle, error)
	Delete(ctx context.Context, id string) error
}

const listCacheTTL = 5 * time.Minute

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repo
	cache  *cache.Cache
}

func NewService(repo Repo, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(listCacheTTL, 10*time.Minute),
	}
}

func listKey(filter models.VehicleFilter) string {
	return fmt.Sprintf("list:%s:%s", filter.CarType, filter.Status)
}

// List serves public fleet listings through an in-process cache. Any
// mutation flushes it, so a stale page lasts at most the TTL.
func (s *ServiceImpl) List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	key := listKey(filter)
	if cached, found := s.cache.Get(key); found {
		return cached.([]models.Vehicle), nil
	}

	vehicles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, vehicles, cache.DefaultExpiration)
	return vehicles, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	l := s.logger.With(zap.String("method", "Create"))

	if err := validateVehicle(v); err != nil {
		return nil, err
	}
	if v.Status == "" {
		v.Status = models.VehicleStatusAvailable
	}

	created, err := s.repo.Create(ctx, v)
	if err != nil {
		l.Warn("vehicle create failed", zap.Error(err))
		return nil, err
	}
	s.cache.Flush()
	l.Info("vehicle created", zap.String("vehicleID", created.ID))
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	if err := validateVehicle(v); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, v)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()
	return updated, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

func validateVehicle(v models.Vehicle) error {
	switch v.CarType {
	case models.CarTypePremium, models.CarTypeLocal, models.CarTypeLuxury,
		models.CarTypeSUV, models.CarTypeTaxi, models.CarTypeUsed:
	default:
		return fmt.Errorf("unknown car type %q: %w", v.CarType, models.ErrValidation)
	}
	if v.RegistrationNumber == "" {
		return fmt.Errorf("registration number is required: %w", models.ErrValidation)
	}
	if v.Brand == "" || v.Model == "" {
		return fmt.Errorf("brand and model are required: %w", models.ErrValidation)
	}
	if v.DailyRentalPrice < 0 {
		return fmt.Errorf("daily rental price cannot be negative: %w", models.ErrValidation)
	}
	return nil
}
