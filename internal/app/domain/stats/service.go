package stats

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/autornexus/platform/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Overview(ctx context.Context) (*models.PlatformStats, error)
}

const overviewCacheKey = "overview"
const overviewTTL = time.Minute

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repo
	cache  *cache.Cache
}

func NewService(repo Repo, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(overviewTTL, 5*time.Minute),
	}
}

// Overview gathers the platform aggregates concurrently and caches the
// result briefly; dashboards poll this.
func (s *ServiceImpl) Overview(ctx context.Context) (*models.PlatformStats, error) {
	if cached, found := s.cache.Get(overviewCacheKey); found {
		return cached.(*models.PlatformStats), nil
	}

	stats := &models.PlatformStats{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = s.repo.CountUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalBookings, err = s.repo.CountBookings(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalVehicles, err = s.repo.CountVehicles(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalDrivers, err = s.repo.CountDrivers(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = s.repo.TotalRevenue(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.BookingsByStatus, err = s.repo.BookingsByStatus(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("stats aggregation failed", zap.Error(err))
		return nil, err
	}

	stats.GeneratedAt = time.Now().UTC()
	s.cache.Set(overviewCacheKey, stats, cache.DefaultExpiration)
	return stats, nil
}
