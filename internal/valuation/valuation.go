// Package valuation holds the pure collateral valuation and eligibility
// computations. Nothing here touches storage or the clock, so the same
// checks can be mirrored client-side for pre-validation.
package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lamf-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// CollateralValue is the point-in-time value of a holding: units × NAV.
func CollateralValue(units, navPerUnit decimal.Decimal) decimal.Decimal {
	return units.Mul(navPerUnit)
}

// TotalCollateralValue sums units × NAV over the set.
func TotalCollateralValue(collaterals []domain.Collateral) decimal.Decimal {
	total := decimal.Zero
	for _, c := range collaterals {
		total = total.Add(CollateralValue(c.Units, c.NAVPerUnit))
	}
	return total
}

// MaxLoanByLTV is the largest amount lendable against totalValue at the
// product's loan-to-value ratio.
func MaxLoanByLTV(totalValue, ltvRatio decimal.Decimal) decimal.Decimal {
	return totalValue.Mul(ltvRatio)
}

// ValidateRequestedAmount checks the requested amount against the product's
// amount bounds and then against LTV coverage. The range check runs first
// and short-circuits. An amount exactly at the LTV boundary is accepted.
func ValidateRequestedAmount(requested decimal.Decimal, product *domain.LoanProduct, collaterals []domain.Collateral) error {
	if requested.LessThan(product.MinLoanAmount) || requested.GreaterThan(product.MaxLoanAmount) {
		return domain.NewValidationError("requestedAmount", fmt.Sprintf(
			"requested amount must be between %s and %s",
			product.MinLoanAmount.StringFixed(2), product.MaxLoanAmount.StringFixed(2)))
	}

	maxLoan := MaxLoanByLTV(TotalCollateralValue(collaterals), product.LTVRatio)
	if requested.GreaterThan(maxLoan) {
		return domain.NewValidationError("requestedAmount", fmt.Sprintf(
			"insufficient collateral: maximum loan amount at %s%% LTV is %s",
			product.LTVRatio.Mul(hundred).String(), maxLoan.StringFixed(2)))
	}

	return nil
}

// ApplyRepayment computes the outstanding balance after a repayment.
// Overpayment clamps at zero; the excess is absorbed, never refunded.
// closed is true when the balance reaches zero.
func ApplyRepayment(outstanding, amount decimal.Decimal) (newOutstanding decimal.Decimal, closed bool) {
	newOutstanding = outstanding.Sub(amount)
	if newOutstanding.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, true
	}
	return newOutstanding, false
}
