package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/repository"
)

type mockDashboardRepo struct {
	statsCalls int
}

func (m *mockDashboardRepo) Stats(ctx context.Context) (*repository.DashboardStats, error) {
	m.statsCalls++
	return &repository.DashboardStats{
		TotalCustomers:   3,
		ActiveLoans:      2,
		TotalDisbursed:   decimal.NewFromInt(800000),
		TotalOutstanding: decimal.NewFromInt(735000),
	}, nil
}

func (m *mockDashboardRepo) RecentApplications(ctx context.Context, limit int) ([]domain.LoanApplication, error) {
	return nil, nil
}

func (m *mockDashboardRepo) RecentTransactions(ctx context.Context, limit int) ([]repository.RecentTransaction, error) {
	return nil, nil
}

type mockSnapshots struct {
	invalidations int
}

func (m *mockSnapshots) InvalidateSnapshot(ctx context.Context) {
	m.invalidations++
}

type mapCache struct {
	store map[string]string
	sets  int
	dels  int
}

func (c *mapCache) Get(ctx context.Context, key string) (string, error) {
	return c.store[key], nil
}

func (c *mapCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.sets++
	switch v := value.(type) {
	case []byte:
		c.store[key] = string(v)
	case string:
		c.store[key] = v
	}
	return nil
}

func (c *mapCache) Del(ctx context.Context, keys ...string) error {
	c.dels++
	for _, k := range keys {
		delete(c.store, k)
	}
	return nil
}

func TestSnapshotPopulatesCache(t *testing.T) {
	repo := &mockDashboardRepo{}
	cache := &mapCache{store: map[string]string{}}
	svc := NewDashboardService(repo, cache, zap.NewNop())

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Overview.TotalCustomers != 3 {
		t.Errorf("total customers = %d, want 3", snap.Overview.TotalCustomers)
	}
	if cache.sets != 1 {
		t.Errorf("cache writes = %d, want 1", cache.sets)
	}

	// second call must be served from cache
	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot (cached): %v", err)
	}
	if repo.statsCalls != 1 {
		t.Errorf("stats queries = %d, want 1", repo.statsCalls)
	}
}

func TestInvalidateSnapshotForcesRebuild(t *testing.T) {
	repo := &mockDashboardRepo{}
	cache := &mapCache{store: map[string]string{}}
	svc := NewDashboardService(repo, cache, zap.NewNop())

	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	svc.InvalidateSnapshot(context.Background())
	if cache.dels != 1 {
		t.Errorf("cache deletes = %d, want 1", cache.dels)
	}
	if _, err := svc.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot (rebuilt): %v", err)
	}
	if repo.statsCalls != 2 {
		t.Errorf("stats queries = %d, want 2 after invalidation", repo.statsCalls)
	}
}

func TestSnapshotWithoutCache(t *testing.T) {
	repo := &mockDashboardRepo{}
	svc := NewDashboardService(repo, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := svc.Snapshot(context.Background()); err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
	}
	if repo.statsCalls != 2 {
		t.Errorf("stats queries = %d, want 2", repo.statsCalls)
	}
}
