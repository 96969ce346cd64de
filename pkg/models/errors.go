package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a shop, order, or delivery charge band does
// not exist. ErrConflict is returned when a conditional write lost a race
// against a concurrent mutation of the same document.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ValidationError rejects an invalid request: a missing line-item product,
// an illegal status transition, or a malformed band range.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// OverlapError rejects a delivery charge band whose range intersects an
// existing active band. The conflicting band is carried so the caller can
// report which range was hit.
type OverlapError struct {
	Existing DeliveryCharge
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("range overlaps existing band [%g, %g)", e.Existing.MinDistance, e.Existing.MaxDistance)
}
