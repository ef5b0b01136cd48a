package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "ACTIVE"
	ProductInactive ProductStatus = "INACTIVE"
)

// LoanProduct describes a lendable product: amount bounds, tenure cap and the
// LTV ratio that limits how much can be lent against pledged collateral.
type LoanProduct struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	MinLoanAmount decimal.Decimal `json:"minLoanAmount"`
	MaxLoanAmount decimal.Decimal `json:"maxLoanAmount"`
	MaxTenure     int             `json:"maxTenure"`
	ProcessingFee decimal.Decimal `json:"processingFee"`
	LTVRatio      decimal.Decimal `json:"ltvRatio"`
	Status        ProductStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

var one = decimal.NewFromInt(1)

func (p *LoanProduct) Validate() error {
	if p.Name == "" {
		return NewValidationError("name", "name is required")
	}
	if p.MinLoanAmount.GreaterThan(p.MaxLoanAmount) {
		return NewValidationError("minLoanAmount", "minimum loan amount must not exceed maximum loan amount")
	}
	if p.LTVRatio.LessThanOrEqual(decimal.Zero) || p.LTVRatio.GreaterThan(one) {
		return NewValidationError("ltvRatio", "ltv ratio must be in (0, 1]")
	}
	if p.MaxTenure < 1 {
		return NewValidationError("maxTenure", "maximum tenure must be at least 1 month")
	}
	if p.Status != ProductActive && p.Status != ProductInactive {
		return NewValidationError("status", "status must be ACTIVE or INACTIVE")
	}
	return nil
}
