package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidState          = errors.New("invalid lifecycle state")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrValidationFailed      = errors.New("lineup validation failed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ValidationError carries structured per-slot violations so callers can
// distinguish "retry will always fail" from transient failures.
type ValidationError struct {
	Violations []SlotViolation
}

type SlotViolation struct {
	SlotIndex int    `json:"slot_index"`
	Position  string `json:"position"`
	Reason    string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
