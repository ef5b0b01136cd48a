package service

import (
	"context"

	"github.com/google/uuid"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/repository"
)

type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	Create(ctx context.Context, c *domain.Customer) error
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerApplicationLister hydrates a customer's application history on reads.
type CustomerApplicationLister interface {
	List(ctx context.Context, f repository.ApplicationFilter) ([]domain.LoanApplication, error)
}

type CustomerService struct {
	repo CustomerRepository
	apps CustomerApplicationLister
}

func NewCustomerService(repo CustomerRepository, apps CustomerApplicationLister) *CustomerService {
	return &CustomerService{repo: repo, apps: apps}
}

func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.apps != nil {
		applications, err := s.apps.List(ctx, repository.ApplicationFilter{CustomerID: &id})
		if err != nil {
			return nil, err
		}
		for i := range applications {
			// the owning customer is the enclosing document
			applications[i].Customer = nil
		}
		c.LoanApplications = applications
	}
	return c, nil
}

func (s *CustomerService) Create(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ID = uuid.New()
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, c *domain.Customer) (*domain.Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
