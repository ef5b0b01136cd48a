package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer is unique per (email, panCard) pair. Creation goes through a
// find-or-create lookup keyed by either field.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	PANCard   string    `json:"panCard"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Pincode   string    `json:"pincode"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	LoanApplications []LoanApplication `json:"loanApplications,omitempty"`
}

func (c *Customer) Validate() error {
	if c.Name == "" {
		return NewValidationError("name", "name is required")
	}
	if c.Email == "" {
		return NewValidationError("email", "email is required")
	}
	if c.Phone == "" {
		return NewValidationError("phone", "phone is required")
	}
	if c.PANCard == "" {
		return NewValidationError("panCard", "PAN card is required")
	}
	return nil
}
