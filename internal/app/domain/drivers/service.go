package drivers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Register(ctx context.Context, d models.Driver) (*models.Driver, error)
	Get(ctx context.Context, id string) (*models.Driver, error)
	List(ctx context.Context, onlyAvailable bool) ([]models.Driver, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Verify(ctx context.Context, id string) (*models.Driver, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repo
}

func NewService(repo Repo, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) Register(ctx context.Context, d models.Driver) (*models.Driver, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("userID", d.UserID))

	if d.UserID == "" || d.LicenseNumber == "" {
		return nil, fmt.Errorf("user and license number are required: %w", models.ErrValidation)
	}
	if !d.LicenseExpiry.After(time.Now()) {
		return nil, fmt.Errorf("license already expired: %w", models.ErrValidation)
	}

	created, err := s.repo.Create(ctx, d)
	if err != nil {
		l.Warn("driver registration failed", zap.Error(err))
		return nil, err
	}
	l.Info("driver registered", zap.String("driverID", created.ID))
	return created, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*models.Driver, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, onlyAvailable bool) ([]models.Driver, error) {
	return s.repo.List(ctx, onlyAvailable)
}

func (s *ServiceImpl) UpdateStatus(ctx context.Context, id, status string) error {
	switch status {
	case models.DriverStatusAvailable, models.DriverStatusAssigned,
		models.DriverStatusOnTrip, models.DriverStatusOffDuty,
		models.DriverStatusOnBreak:
	default:
		return fmt.Errorf("unknown driver status %q: %w", status, models.ErrValidation)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Verify marks a driver usable for assignments. Admin only, enforced at
// the route layer.
func (s *ServiceImpl) Verify(ctx context.Context, id string) (*models.Driver, error) {
	driver, err := s.repo.Verify(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("driver verified", zap.String("driverID", id))
	return driver, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
