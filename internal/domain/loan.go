package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanActive    LoanStatus = "ACTIVE"
	LoanClosed    LoanStatus = "CLOSED"
	LoanDefaulted LoanStatus = "DEFAULTED"
)

func ValidLoanStatus(s LoanStatus) bool {
	switch s {
	case LoanActive, LoanClosed, LoanDefaulted:
		return true
	}
	return false
}

// Loan is created exactly once per application, on approval or disbursal.
// InterestRate is copied from the product at creation time; later product
// rate changes never touch existing loans.
type Loan struct {
	ID                uuid.UUID       `json:"id"`
	LoanApplicationID uuid.UUID       `json:"loanApplicationId"`
	SanctionedAmount  decimal.Decimal `json:"sanctionedAmount"`
	DisbursedAmount   decimal.Decimal `json:"disbursedAmount"`
	InterestRate      decimal.Decimal `json:"interestRate"`
	TenureMonths      int             `json:"tenureMonths"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	OutstandingAmount decimal.Decimal `json:"outstandingAmount"`
	Status            LoanStatus      `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`

	LoanApplication *LoanApplication `json:"loanApplication,omitempty"`
	Transactions    []Transaction    `json:"transactions,omitempty"`
}
