package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lamf-backend/internal/domain"
	"lamf-backend/internal/valuation"
)

type mockLoanRepo struct {
	loans       map[uuid.UUID]*domain.Loan
	collaterals map[uuid.UUID][]*domain.Collateral // keyed by loan application

	appliedTxn *domain.Transaction
}

func (m *mockLoanRepo) List(ctx context.Context, status *domain.LoanStatus) ([]domain.Loan, error) {
	var out []domain.Loan
	for _, l := range m.loans {
		if status == nil || l.Status == *status {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLoanRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	l, ok := m.loans[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "loan"}
	}
	copied := *l
	if cols, ok := m.collaterals[l.LoanApplicationID]; ok {
		app := &domain.LoanApplication{ID: l.LoanApplicationID}
		for _, c := range cols {
			app.Collaterals = append(app.Collaterals, *c)
		}
		copied.LoanApplication = app
	}
	return &copied, nil
}

func (m *mockLoanRepo) ApplyRepayment(ctx context.Context, loanID uuid.UUID, txn *domain.Transaction) (*domain.Loan, []domain.Collateral, error) {
	l, ok := m.loans[loanID]
	if !ok {
		return nil, nil, &domain.NotFoundError{Entity: "loan"}
	}
	if l.Status != domain.LoanActive {
		return nil, nil, &domain.InvalidStateError{Message: "cannot record a repayment on a " + string(l.Status) + " loan"}
	}
	m.appliedTxn = txn

	newOutstanding, closed := valuation.ApplyRepayment(l.OutstandingAmount, txn.Amount)
	l.OutstandingAmount = newOutstanding
	var released []domain.Collateral
	if closed {
		l.Status = domain.LoanClosed
		for _, c := range m.collaterals[l.LoanApplicationID] {
			c.Status = domain.CollateralReleased
			released = append(released, *c)
		}
	}
	copied := *l
	return &copied, released, nil
}

func (m *mockLoanRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LoanStatus) error {
	l, ok := m.loans[id]
	if !ok {
		return &domain.NotFoundError{Entity: "loan"}
	}
	l.Status = status
	return nil
}

type mockRepaymentNotifier struct {
	events []bool // closed flag per event
}

func (m *mockRepaymentNotifier) NotifyRepayment(ctx context.Context, loanID uuid.UUID, amount, outstanding decimal.Decimal, closed bool) error {
	m.events = append(m.events, closed)
	return nil
}

func activeLoan(outstanding int64) *domain.Loan {
	return &domain.Loan{
		ID:                uuid.New(),
		LoanApplicationID: uuid.New(),
		SanctionedAmount:  decimal.NewFromInt(outstanding),
		OutstandingAmount: decimal.NewFromInt(outstanding),
		Status:            domain.LoanActive,
	}
}

func pledgedCollateral(appID uuid.UUID, fund string) *domain.Collateral {
	return &domain.Collateral{
		ID:                uuid.New(),
		LoanApplicationID: appID,
		FundName:          fund,
		Status:            domain.CollateralPledged,
	}
}

func TestRecordRepayment(t *testing.T) {
	loan := activeLoan(450000)
	repo := &mockLoanRepo{
		loans: map[uuid.UUID]*domain.Loan{loan.ID: loan},
		collaterals: map[uuid.UUID][]*domain.Collateral{
			loan.LoanApplicationID: {pledgedCollateral(loan.LoanApplicationID, "Axis Bluechip Fund")},
		},
	}
	events := &mockRepaymentNotifier{}
	snapshots := &mockSnapshots{}
	svc := NewLoanService(repo, events, snapshots, zap.NewNop())

	updated, err := svc.RecordRepayment(context.Background(), loan.ID, RecordRepaymentInput{
		Amount: decimal.NewFromInt(30000),
	})
	if err != nil {
		t.Fatalf("RecordRepayment: %v", err)
	}

	if !updated.OutstandingAmount.Equal(decimal.NewFromInt(420000)) {
		t.Errorf("outstanding = %s, want 420000", updated.OutstandingAmount)
	}
	if updated.Status != domain.LoanActive {
		t.Errorf("status = %s, want ACTIVE", updated.Status)
	}
	if repo.appliedTxn == nil {
		t.Fatal("no transaction recorded")
	}
	if repo.appliedTxn.Type != domain.TransactionRepayment {
		t.Errorf("transaction type = %s, want REPAYMENT", repo.appliedTxn.Type)
	}
	if !strings.HasPrefix(repo.appliedTxn.ReferenceNumber, "REP-") {
		t.Errorf("generated reference = %q, want REP- prefix", repo.appliedTxn.ReferenceNumber)
	}
	if len(events.events) != 1 || events.events[0] {
		t.Errorf("events = %v, want one open-loan event", events.events)
	}
	for _, c := range repo.collaterals[loan.LoanApplicationID] {
		if c.Status != domain.CollateralPledged {
			t.Errorf("collateral %s = %s, want PLEDGED while loan is open", c.FundName, c.Status)
		}
	}
	if snapshots.invalidations != 1 {
		t.Errorf("dashboard invalidations = %d, want 1", snapshots.invalidations)
	}
}

func TestRecordRepaymentKeepsCallerReference(t *testing.T) {
	loan := activeLoan(100000)
	repo := &mockLoanRepo{loans: map[uuid.UUID]*domain.Loan{loan.ID: loan}}
	svc := NewLoanService(repo, &mockRepaymentNotifier{}, nil, zap.NewNop())

	ref := "NEFT-2026-000123"
	_, err := svc.RecordRepayment(context.Background(), loan.ID, RecordRepaymentInput{
		Amount:          decimal.NewFromInt(5000),
		ReferenceNumber: &ref,
	})
	if err != nil {
		t.Fatalf("RecordRepayment: %v", err)
	}
	if repo.appliedTxn.ReferenceNumber != ref {
		t.Errorf("reference = %q, want %q", repo.appliedTxn.ReferenceNumber, ref)
	}
}

func TestRecordRepaymentClosesLoan(t *testing.T) {
	loan := activeLoan(20000)
	repo := &mockLoanRepo{
		loans: map[uuid.UUID]*domain.Loan{loan.ID: loan},
		collaterals: map[uuid.UUID][]*domain.Collateral{
			loan.LoanApplicationID: {
				pledgedCollateral(loan.LoanApplicationID, "HDFC Top 100 Fund"),
				pledgedCollateral(loan.LoanApplicationID, "SBI Small Cap Fund"),
			},
		},
	}
	events := &mockRepaymentNotifier{}
	svc := NewLoanService(repo, events, nil, zap.NewNop())

	// overpayment clamps to zero and closes
	updated, err := svc.RecordRepayment(context.Background(), loan.ID, RecordRepaymentInput{
		Amount: decimal.NewFromInt(25000),
	})
	if err != nil {
		t.Fatalf("RecordRepayment: %v", err)
	}
	if !updated.OutstandingAmount.IsZero() {
		t.Errorf("outstanding = %s, want 0", updated.OutstandingAmount)
	}
	if updated.Status != domain.LoanClosed {
		t.Errorf("status = %s, want CLOSED", updated.Status)
	}
	if len(events.events) != 1 || !events.events[0] {
		t.Errorf("events = %v, want one closed event", events.events)
	}

	// closing the loan releases every collateral pledged on its application
	if updated.LoanApplication == nil {
		t.Fatal("loan application not hydrated on the closed loan")
	}
	if got := len(updated.LoanApplication.Collaterals); got != 2 {
		t.Fatalf("collaterals = %d, want 2", got)
	}
	for _, c := range updated.LoanApplication.Collaterals {
		if c.Status != domain.CollateralReleased {
			t.Errorf("collateral %s = %s, want RELEASED", c.FundName, c.Status)
		}
	}
}

func TestRecordRepaymentRejectsNonPositiveAmount(t *testing.T) {
	svc := NewLoanService(&mockLoanRepo{}, &mockRepaymentNotifier{}, nil, zap.NewNop())

	_, err := svc.RecordRepayment(context.Background(), uuid.New(), RecordRepaymentInput{
		Amount: decimal.Zero,
	})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestRecordRepaymentOnClosedLoan(t *testing.T) {
	loan := activeLoan(0)
	loan.Status = domain.LoanClosed
	repo := &mockLoanRepo{loans: map[uuid.UUID]*domain.Loan{loan.ID: loan}}
	svc := NewLoanService(repo, &mockRepaymentNotifier{}, nil, zap.NewNop())

	_, err := svc.RecordRepayment(context.Background(), loan.ID, RecordRepaymentInput{
		Amount: decimal.NewFromInt(1000),
	})

	var serr *domain.InvalidStateError
	if !errors.As(err, &serr) {
		t.Fatalf("err = %v, want InvalidStateError", err)
	}
}

func TestLoanUpdateStatus(t *testing.T) {
	loan := activeLoan(100000)
	repo := &mockLoanRepo{loans: map[uuid.UUID]*domain.Loan{loan.ID: loan}}
	svc := NewLoanService(repo, &mockRepaymentNotifier{}, nil, zap.NewNop())

	updated, err := svc.UpdateStatus(context.Background(), loan.ID, domain.LoanDefaulted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.LoanDefaulted {
		t.Errorf("status = %s, want DEFAULTED", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), loan.ID, "FROZEN"); err == nil {
		t.Error("unknown status accepted")
	}
}
