package service

import (
	"context"

	"github.com/google/uuid"

	"lamf-backend/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context, status *domain.ProductStatus) ([]domain.LoanProduct, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanProduct, error)
	Create(ctx context.Context, p *domain.LoanProduct) error
	Update(ctx context.Context, p *domain.LoanProduct) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductService struct {
	repo ProductRepository
}

func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) List(ctx context.Context, status *domain.ProductStatus) ([]domain.LoanProduct, error) {
	if status != nil && *status != domain.ProductActive && *status != domain.ProductInactive {
		return nil, domain.NewValidationError("status", "unknown product status")
	}
	return s.repo.List(ctx, status)
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanProduct, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, p *domain.LoanProduct) (*domain.LoanProduct, error) {
	if p.Status == "" {
		p.Status = domain.ProductActive
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ID = uuid.New()
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, p *domain.LoanProduct) (*domain.LoanProduct, error) {
	if p.Status == "" {
		p.Status = domain.ProductActive
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
