package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/repository"
	"lamf-backend/internal/valuation"
)

type ApplicationRepository interface {
	List(ctx context.Context, f repository.ApplicationFilter) ([]domain.LoanApplication, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error)
	CreateWithCollaterals(ctx context.Context, customer *domain.Customer, app *domain.LoanApplication, collaterals []domain.Collateral) (*domain.LoanApplication, error)
	UpdateStatusWithLoan(ctx context.Context, appID uuid.UUID, status domain.ApplicationStatus, approvalDate time.Time, loan *domain.Loan, txn *domain.Transaction) error
	UpdateStatus(ctx context.Context, appID uuid.UUID, status domain.ApplicationStatus, rejectionReason *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanProduct, error)
}

// EventNotifier pushes lifecycle events to the live dashboard feed. Delivery
// is best effort; a failed push never fails the operation that caused it.
type EventNotifier interface {
	NotifyApplicationCreated(ctx context.Context, app *domain.LoanApplication) error
	NotifyApplicationStatus(ctx context.Context, appID uuid.UUID, status domain.ApplicationStatus) error
}

type ApplicationService struct {
	repo      ApplicationRepository
	products  ProductReader
	events    EventNotifier
	snapshots SnapshotInvalidator
	log       *zap.Logger
}

func NewApplicationService(repo ApplicationRepository, products ProductReader, events EventNotifier, snapshots SnapshotInvalidator, log *zap.Logger) *ApplicationService {
	return &ApplicationService{
		repo:      repo,
		products:  products,
		events:    events,
		snapshots: snapshots,
		log:       log,
	}
}

func (s *ApplicationService) invalidateSnapshot(ctx context.Context) {
	if s.snapshots != nil {
		s.snapshots.InvalidateSnapshot(ctx)
	}
}

type CreateApplicationInput struct {
	Customer        domain.Customer
	LoanProductID   uuid.UUID
	RequestedAmount decimal.Decimal
	Collaterals     []domain.Collateral
}

type UpdateApplicationStatusInput struct {
	Status           domain.ApplicationStatus
	RejectionReason  *string
	SanctionedAmount *decimal.Decimal
	TenureMonths     *int
}

func (s *ApplicationService) List(ctx context.Context, f repository.ApplicationFilter) ([]domain.LoanApplication, error) {
	if f.Status != nil && !domain.ValidApplicationStatus(*f.Status) {
		return nil, domain.NewValidationError("status", "unknown application status")
	}
	return s.repo.List(ctx, f)
}

func (s *ApplicationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanApplication, error) {
	return s.repo.GetByID(ctx, id)
}

// Create runs the eligibility checks and, when they pass, persists the
// customer, the application and the pledged collaterals atomically.
func (s *ApplicationService) Create(ctx context.Context, in CreateApplicationInput) (*domain.LoanApplication, error) {
	if err := in.Customer.Validate(); err != nil {
		return nil, err
	}
	if len(in.Collaterals) == 0 {
		return nil, domain.NewValidationError("collaterals", "at least one collateral is required")
	}
	if in.RequestedAmount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("requestedAmount", "requested amount must be positive")
	}

	product, err := s.products.GetByID(ctx, in.LoanProductID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	collaterals := make([]domain.Collateral, len(in.Collaterals))
	for i, c := range in.Collaterals {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		c.ID = uuid.New()
		c.TotalValue = valuation.CollateralValue(c.Units, c.NAVPerUnit)
		c.Status = domain.CollateralPledged
		if c.PledgeDate.IsZero() {
			c.PledgeDate = now
		}
		collaterals[i] = c
	}

	if err := valuation.ValidateRequestedAmount(in.RequestedAmount, product, collaterals); err != nil {
		return nil, err
	}

	customer := in.Customer
	customer.ID = uuid.New()

	app := &domain.LoanApplication{
		ID:              uuid.New(),
		LoanProductID:   product.ID,
		RequestedAmount: in.RequestedAmount,
		Status:          domain.ApplicationSubmitted,
		ApplicationDate: now,
	}

	created, err := s.repo.CreateWithCollaterals(ctx, &customer, app, collaterals)
	if err != nil {
		return nil, err
	}
	created.LoanProduct = product
	s.invalidateSnapshot(ctx)

	if err := s.events.NotifyApplicationCreated(ctx, created); err != nil {
		s.log.Warn("application created event not delivered", zap.Error(err))
	}
	return created, nil
}

// UpdateStatus drives the lifecycle. APPROVED and DISBURSED convert the
// application into a loan; REJECTED demands a reason; any other known status
// is a plain administrative move.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uuid.UUID, in UpdateApplicationStatusInput) (*domain.LoanApplication, error) {
	if !domain.ValidApplicationStatus(in.Status) {
		return nil, domain.NewValidationError("status", "unknown application status")
	}

	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch in.Status {
	case domain.ApplicationApproved, domain.ApplicationDisbursed:
		if err := s.approve(ctx, app, in); err != nil {
			return nil, err
		}
	case domain.ApplicationRejected:
		if in.RejectionReason == nil || *in.RejectionReason == "" {
			return nil, domain.NewValidationError("rejectionReason", "rejection reason is required")
		}
		if !app.CanReject() {
			return nil, &domain.InvalidStateError{
				Message: fmt.Sprintf("cannot reject an application in status %s", app.Status),
			}
		}
		if err := s.repo.UpdateStatus(ctx, id, in.Status, in.RejectionReason); err != nil {
			return nil, err
		}
	default:
		if err := s.repo.UpdateStatus(ctx, id, in.Status, nil); err != nil {
			return nil, err
		}
	}

	s.invalidateSnapshot(ctx)
	if err := s.events.NotifyApplicationStatus(ctx, id, in.Status); err != nil {
		s.log.Warn("application status event not delivered", zap.Error(err))
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ApplicationService) approve(ctx context.Context, app *domain.LoanApplication, in UpdateApplicationStatusInput) error {
	if !app.CanApprove() {
		return &domain.InvalidStateError{
			Message: fmt.Sprintf("cannot move an application in status %s to %s", app.Status, in.Status),
		}
	}

	amount := app.RequestedAmount
	if in.SanctionedAmount != nil {
		if in.SanctionedAmount.LessThanOrEqual(decimal.Zero) {
			return domain.NewValidationError("sanctionedAmount", "sanctioned amount must be positive")
		}
		amount = *in.SanctionedAmount
	}
	tenure := 12
	if in.TenureMonths != nil {
		if *in.TenureMonths < 1 {
			return domain.NewValidationError("tenureMonths", "tenure must be at least one month")
		}
		tenure = *in.TenureMonths
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		ID:                uuid.New(),
		LoanApplicationID: app.ID,
		SanctionedAmount:  amount,
		InterestRate:      app.LoanProduct.InterestRate,
		TenureMonths:      tenure,
		StartDate:         now,
		EndDate:           now.AddDate(0, tenure, 0),
		OutstandingAmount: amount,
		Status:            domain.LoanActive,
	}

	var txn *domain.Transaction
	if in.Status == domain.ApplicationDisbursed {
		loan.DisbursedAmount = amount
		notes := "Loan disbursed successfully"
		txn = &domain.Transaction{
			ID:              uuid.New(),
			LoanID:          loan.ID,
			Type:            domain.TransactionDisbursement,
			Amount:          amount,
			TransactionDate: now,
			ReferenceNumber: fmt.Sprintf("DISB-%d", now.UnixMilli()),
			Notes:           &notes,
		}
	}

	return s.repo.UpdateStatusWithLoan(ctx, app.ID, in.Status, now, loan, txn)
}

func (s *ApplicationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSnapshot(ctx)
	return nil
}
