package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationApproved    ApplicationStatus = "APPROVED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	ApplicationDisbursed   ApplicationStatus = "DISBURSED"
)

// ValidApplicationStatus reports whether s is a known lifecycle status.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationSubmitted, ApplicationUnderReview, ApplicationApproved,
		ApplicationRejected, ApplicationDisbursed:
		return true
	}
	return false
}

// LoanApplication is the aggregate root for its Collaterals and, once
// approved or disbursed, its single Loan.
type LoanApplication struct {
	ID              uuid.UUID         `json:"id"`
	CustomerID      uuid.UUID         `json:"customerId"`
	LoanProductID   uuid.UUID         `json:"loanProductId"`
	RequestedAmount decimal.Decimal   `json:"requestedAmount"`
	Status          ApplicationStatus `json:"status"`
	ApplicationDate time.Time         `json:"applicationDate"`
	ApprovalDate    *time.Time        `json:"approvalDate,omitempty"`
	RejectionReason *string           `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`

	Customer    *Customer    `json:"customer,omitempty"`
	LoanProduct *LoanProduct `json:"loanProduct,omitempty"`
	Collaterals []Collateral `json:"collaterals,omitempty"`
	Loan        *Loan        `json:"loan,omitempty"`
}

// CanApprove reports whether the designed approve/disburse transition is
// permitted from the application's current status. APPROVED, REJECTED and
// DISBURSED never re-enter the approval path; their only way out is the
// administrative override.
func (a *LoanApplication) CanApprove() bool {
	return a.Status == ApplicationSubmitted || a.Status == ApplicationUnderReview
}

// CanReject mirrors CanApprove for the designed reject transition.
func (a *LoanApplication) CanReject() bool {
	return a.Status == ApplicationSubmitted || a.Status == ApplicationUnderReview
}
