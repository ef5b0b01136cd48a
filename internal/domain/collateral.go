package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CollateralStatus string

const (
	CollateralPledged  CollateralStatus = "PLEDGED"
	CollateralReleased CollateralStatus = "RELEASED"
)

// Collateral is a pledged mutual-fund holding. TotalValue is a point-in-time
// snapshot of units × navPerUnit taken at creation; it is never recomputed
// from a later NAV.
type Collateral struct {
	ID                uuid.UUID        `json:"id"`
	LoanApplicationID uuid.UUID        `json:"loanApplicationId"`
	FundName          string           `json:"fundName"`
	FolioNumber       string           `json:"folioNumber"`
	Units             decimal.Decimal  `json:"units"`
	NAVPerUnit        decimal.Decimal  `json:"navPerUnit"`
	TotalValue        decimal.Decimal  `json:"totalValue"`
	PledgeDate        time.Time        `json:"pledgeDate"`
	Status            CollateralStatus `json:"status"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`

	LoanApplication *LoanApplication `json:"loanApplication,omitempty"`
}

func (c *Collateral) Validate() error {
	if c.FundName == "" {
		return NewValidationError("fundName", "fund name is required")
	}
	if c.FolioNumber == "" {
		return NewValidationError("folioNumber", "folio number is required")
	}
	if c.Units.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("units", "units must be greater than zero")
	}
	if c.NAVPerUnit.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("navPerUnit", "NAV per unit must be greater than zero")
	}
	return nil
}
