package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lamf-backend/internal/domain"
)

type LoanRepository interface {
	List(ctx context.Context, status *domain.LoanStatus) ([]domain.Loan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	ApplyRepayment(ctx context.Context, loanID uuid.UUID, txn *domain.Transaction) (*domain.Loan, []domain.Collateral, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LoanStatus) error
}

// RepaymentNotifier mirrors EventNotifier for the servicing side.
type RepaymentNotifier interface {
	NotifyRepayment(ctx context.Context, loanID uuid.UUID, amount, outstanding decimal.Decimal, closed bool) error
}

type LoanService struct {
	repo      LoanRepository
	events    RepaymentNotifier
	snapshots SnapshotInvalidator
	log       *zap.Logger
}

func NewLoanService(repo LoanRepository, events RepaymentNotifier, snapshots SnapshotInvalidator, log *zap.Logger) *LoanService {
	return &LoanService{
		repo:      repo,
		events:    events,
		snapshots: snapshots,
		log:       log,
	}
}

func (s *LoanService) invalidateSnapshot(ctx context.Context) {
	if s.snapshots != nil {
		s.snapshots.InvalidateSnapshot(ctx)
	}
}

type RecordRepaymentInput struct {
	Amount          decimal.Decimal
	ReferenceNumber *string
	Notes           *string
}

func (s *LoanService) List(ctx context.Context, status *domain.LoanStatus) ([]domain.Loan, error) {
	if status != nil && !domain.ValidLoanStatus(*status) {
		return nil, domain.NewValidationError("status", "unknown loan status")
	}
	return s.repo.List(ctx, status)
}

func (s *LoanService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return s.repo.GetByID(ctx, id)
}

// RecordRepayment posts a payment against an active loan. Paying the balance
// down to zero closes the loan and releases its pledged collaterals.
func (s *LoanService) RecordRepayment(ctx context.Context, loanID uuid.UUID, in RecordRepaymentInput) (*domain.Loan, error) {
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("amount", "repayment amount must be positive")
	}

	now := time.Now().UTC()
	ref := fmt.Sprintf("REP-%d", now.UnixMilli())
	if in.ReferenceNumber != nil && *in.ReferenceNumber != "" {
		ref = *in.ReferenceNumber
	}

	txn := &domain.Transaction{
		ID:              uuid.New(),
		LoanID:          loanID,
		Type:            domain.TransactionRepayment,
		Amount:          in.Amount,
		TransactionDate: now,
		ReferenceNumber: ref,
		Notes:           in.Notes,
	}

	updated, released, err := s.repo.ApplyRepayment(ctx, loanID, txn)
	if err != nil {
		return nil, err
	}

	s.invalidateSnapshot(ctx)
	closed := updated.Status == domain.LoanClosed
	if closed {
		s.log.Info("loan closed",
			zap.String("loan_id", loanID.String()),
			zap.Int("collaterals_released", len(released)),
		)
	}
	if err := s.events.NotifyRepayment(ctx, loanID, in.Amount, updated.OutstandingAmount, closed); err != nil {
		s.log.Warn("repayment event not delivered", zap.Error(err))
	}

	return s.repo.GetByID(ctx, loanID)
}

func (s *LoanService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LoanStatus) (*domain.Loan, error) {
	if !domain.ValidLoanStatus(status) {
		return nil, domain.NewValidationError("status", "unknown loan status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.invalidateSnapshot(ctx)
	return s.repo.GetByID(ctx, id)
}
