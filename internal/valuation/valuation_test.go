package valuation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"lamf-backend/internal/domain"
)

func standardProduct() *domain.LoanProduct {
	return &domain.LoanProduct{
		Name:          "Personal Loan - Standard",
		MinLoanAmount: decimal.NewFromInt(50000),
		MaxLoanAmount: decimal.NewFromInt(5000000),
		LTVRatio:      decimal.NewFromFloat(0.70),
	}
}

func fundCollateral(units, nav float64) domain.Collateral {
	return domain.Collateral{
		FundName:    "Bluechip Equity Fund",
		FolioNumber: "MF-1001",
		Units:       decimal.NewFromFloat(units),
		NAVPerUnit:  decimal.NewFromFloat(nav),
	}
}

func TestTotalCollateralValue(t *testing.T) {
	cols := []domain.Collateral{fundCollateral(1200, 650.50)}

	got := TotalCollateralValue(cols)
	want := decimal.NewFromInt(780600)
	if !got.Equal(want) {
		t.Errorf("expected total %s, got %s", want, got)
	}

	if !TotalCollateralValue(nil).Equal(decimal.Zero) {
		t.Error("empty collateral set should value to zero")
	}
}

func TestMaxLoanByLTV(t *testing.T) {
	total := decimal.NewFromInt(780600)
	ltv := decimal.NewFromFloat(0.70)

	got := MaxLoanByLTV(total, ltv)
	want := decimal.NewFromInt(546420)
	if !got.Equal(want) {
		t.Errorf("expected max loan %s, got %s", want, got)
	}
}

func TestValidateRequestedAmount_AcceptsWithinCoverage(t *testing.T) {
	cols := []domain.Collateral{fundCollateral(1200, 650.50)}

	if err := ValidateRequestedAmount(decimal.NewFromInt(500000), standardProduct(), cols); err != nil {
		t.Fatalf("expected 500000 to be accepted, got %v", err)
	}
}

func TestValidateRequestedAmount_AcceptsAtLTVBoundary(t *testing.T) {
	cols := []domain.Collateral{fundCollateral(1200, 650.50)}

	if err := ValidateRequestedAmount(decimal.NewFromInt(546420), standardProduct(), cols); err != nil {
		t.Fatalf("expected boundary amount to be accepted, got %v", err)
	}
}

func TestValidateRequestedAmount_RejectsInsufficientCollateral(t *testing.T) {
	cols := []domain.Collateral{fundCollateral(1200, 650.50)}

	err := ValidateRequestedAmount(decimal.NewFromInt(600000), standardProduct(), cols)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestValidateRequestedAmount_RangeCheckedBeforeLTV(t *testing.T) {
	// Huge collateral so only the range check can fail.
	cols := []domain.Collateral{fundCollateral(1e6, 1000)}
	product := standardProduct()

	var verr *domain.ValidationError
	if err := ValidateRequestedAmount(decimal.NewFromInt(10000), product, cols); !errors.As(err, &verr) {
		t.Errorf("amount below product minimum should be rejected, got %v", err)
	}
	if err := ValidateRequestedAmount(decimal.NewFromInt(6000000), product, cols); !errors.As(err, &verr) {
		t.Errorf("amount above product maximum should be rejected, got %v", err)
	}

	// Empty collateral set: range failure must win over coverage failure.
	err := ValidateRequestedAmount(decimal.NewFromInt(10000), product, nil)
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestApplyRepayment(t *testing.T) {
	outstanding := decimal.NewFromInt(300000)

	got, closed := ApplyRepayment(outstanding, decimal.NewFromInt(100000))
	if closed {
		t.Error("partial repayment should not close the loan")
	}
	if !got.Equal(decimal.NewFromInt(200000)) {
		t.Errorf("expected outstanding 200000, got %s", got)
	}

	got, closed = ApplyRepayment(outstanding, decimal.NewFromInt(300000))
	if !closed || !got.Equal(decimal.Zero) {
		t.Errorf("exact repayment should close at zero, got %s closed=%v", got, closed)
	}

	// Overpayment clamps, never negative.
	got, closed = ApplyRepayment(outstanding, decimal.NewFromInt(999999))
	if !closed || !got.Equal(decimal.Zero) {
		t.Errorf("overpayment should clamp to zero and close, got %s closed=%v", got, closed)
	}
}
