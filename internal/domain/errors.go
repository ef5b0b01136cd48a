package domain

import "fmt"

// ValidationError means the input was malformed or out of policy. Maps to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError means a referenced entity does not exist. Maps to 404.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// InvalidStateError means the operation is not permitted in the entity's
// current lifecycle state (e.g. repayment on a closed loan). Maps to 400.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// ConflictError means a uniqueness constraint was violated (duplicate
// customer email or PAN). Maps to 409.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
