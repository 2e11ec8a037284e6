package users

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type Service interface {
	List(ctx context.Context, roleFilter string, page, pageSize int) ([]models.UserProfile, int64, error)
	Get(ctx context.Context, id string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, id string, req ProfileUpdateRequest) (*models.UserProfile, error)
	UpdateRole(ctx context.Context, id, role string) (*models.UserProfile, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type ProfileUpdateRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

const defaultPageSize = 20
const maxPageSize = 100

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repo
}

func NewService(repo Repo, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) List(ctx context.Context, roleFilter string, page, pageSize int) ([]models.UserProfile, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.repo.List(ctx, roleFilter, pageSize, (page-1)*pageSize)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, id string, req ProfileUpdateRequest) (*models.UserProfile, error) {
	if req.FirstName == "" || req.LastName == "" {
		return nil, fmt.Errorf("first and last name are required: %w", models.ErrValidation)
	}
	return s.repo.UpdateProfile(ctx, id, req.FirstName, req.LastName, req.PhoneNumber)
}

// UpdateRole is the admin path for granting staff and driver roles;
// anything outside the known set is rejected.
func (s *ServiceImpl) UpdateRole(ctx context.Context, id, role string) (*models.UserProfile, error) {
	switch role {
	case models.RoleCustomer, models.RoleManager, models.RoleAdmin, models.RoleDriver:
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, models.ErrInvalidRole)
	}

	updated, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("role updated", zap.String("userID", id), zap.String("role", role))
	return updated, nil
}

func (s *ServiceImpl) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.logger.Info("account state changed", zap.String("userID", id), zap.Bool("active", active))
	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
