package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRateNotFound      = errors.New("exchange rate not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrFeeNotFound       = errors.New("fee configuration not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTransient marks storage contention or timeouts that are safe to
	// retry; the settlement engine retries these before surfacing.
	ErrTransient = errors.New("transient storage error")
)

// ValidationError reports all missing or blank request fields at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or empty fields: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError returns nil when no fields are missing.
func NewValidationError(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
