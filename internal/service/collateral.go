package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/repository"
	"lamf-backend/internal/valuation"
)

type CollateralRepository interface {
	List(ctx context.Context, f repository.CollateralFilter) ([]domain.Collateral, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Collateral, error)
	Create(ctx context.Context, c *domain.Collateral) (*domain.Collateral, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CollateralStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CollateralService struct {
	repo CollateralRepository
}

func NewCollateralService(repo CollateralRepository) *CollateralService {
	return &CollateralService{repo: repo}
}

func (s *CollateralService) List(ctx context.Context, f repository.CollateralFilter) ([]domain.Collateral, error) {
	if f.Status != nil && *f.Status != domain.CollateralPledged && *f.Status != domain.CollateralReleased {
		return nil, domain.NewValidationError("status", "unknown collateral status")
	}
	return s.repo.List(ctx, f)
}

func (s *CollateralService) ListByApplication(ctx context.Context, appID uuid.UUID) ([]domain.Collateral, error) {
	return s.repo.List(ctx, repository.CollateralFilter{LoanApplicationID: &appID})
}

func (s *CollateralService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collateral, error) {
	return s.repo.GetByID(ctx, id)
}

// Create pledges an additional holding against an existing application.
// TotalValue is always recomputed server side from units and NAV.
func (s *CollateralService) Create(ctx context.Context, c *domain.Collateral) (*domain.Collateral, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.ID = uuid.New()
	c.TotalValue = valuation.CollateralValue(c.Units, c.NAVPerUnit)
	if c.Status == "" {
		c.Status = domain.CollateralPledged
	}
	if c.PledgeDate.IsZero() {
		c.PledgeDate = time.Now().UTC()
	}
	return s.repo.Create(ctx, c)
}

func (s *CollateralService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CollateralStatus) (*domain.Collateral, error) {
	if status != domain.CollateralPledged && status != domain.CollateralReleased {
		return nil, domain.NewValidationError("status", "unknown collateral status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CollateralService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
