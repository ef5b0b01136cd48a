package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDisbursement TransactionType = "DISBURSEMENT"
	TransactionRepayment    TransactionType = "REPAYMENT"
	TransactionInterest     TransactionType = "INTEREST"
)

// Transaction is a money movement against a Loan. ReferenceNumber is unique
// and generated when the caller does not supply one.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	LoanID          uuid.UUID       `json:"loanId"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	ReferenceNumber string          `json:"referenceNumber"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}
