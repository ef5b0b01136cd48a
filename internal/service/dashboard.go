package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/repository"
)

type DashboardRepository interface {
	Stats(ctx context.Context) (*repository.DashboardStats, error)
	RecentApplications(ctx context.Context, limit int) ([]domain.LoanApplication, error)
	RecentTransactions(ctx context.Context, limit int) ([]repository.RecentTransaction, error)
}

// SnapshotCache is the subset of the redis client the dashboard needs. A nil
// cache disables caching without touching the read path.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// SnapshotInvalidator is implemented by DashboardService. Lifecycle services
// call it after a successful write so the dashboard never serves totals from
// before the mutation.
type SnapshotInvalidator interface {
	InvalidateSnapshot(ctx context.Context)
}

const (
	snapshotKey = "dashboard_snapshot"
	snapshotTTL = 30 * time.Second
	recentLimit = 5
)

// DashboardSnapshot is the whole dashboard payload, cached as one unit so
// the numbers and the recent feeds always come from the same moment.
type DashboardSnapshot struct {
	Overview           *repository.DashboardStats     `json:"overview"`
	RecentApplications []domain.LoanApplication       `json:"recentApplications"`
	RecentTransactions []repository.RecentTransaction `json:"recentTransactions"`
	GeneratedAt        time.Time                      `json:"generatedAt"`
}

type DashboardService struct {
	repo  DashboardRepository
	cache SnapshotCache
	log   *zap.Logger
}

func NewDashboardService(repo DashboardRepository, cache SnapshotCache, log *zap.Logger) *DashboardService {
	return &DashboardService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *DashboardService) Snapshot(ctx context.Context) (*DashboardSnapshot, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, snapshotKey); err != nil {
			s.log.Warn("dashboard cache read failed", zap.Error(err))
		} else if raw != "" {
			var snap DashboardSnapshot
			if err := json.Unmarshal([]byte(raw), &snap); err == nil {
				return &snap, nil
			}
			s.log.Warn("dashboard cache entry unreadable, rebuilding", zap.Error(err))
		}
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.repo.RecentApplications(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	txns, err := s.repo.RecentTransactions(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	snap := &DashboardSnapshot{
		Overview:           stats,
		RecentApplications: apps,
		RecentTransactions: txns,
		GeneratedAt:        time.Now().UTC(),
	}

	if s.cache != nil {
		payload, err := json.Marshal(snap)
		if err == nil {
			err = s.cache.Set(ctx, snapshotKey, payload, snapshotTTL)
		}
		if err != nil {
			s.log.Warn("dashboard cache write failed", zap.Error(err))
		}
	}

	return snap, nil
}

// InvalidateSnapshot drops the cached snapshot so the next read rebuilds it.
// Best effort, like the rest of the cache path.
func (s *DashboardService) InvalidateSnapshot(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, snapshotKey); err != nil {
		s.log.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
