package services

import (
	"errors"
	"fmt"
	"strings"
)

// Define common service errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrValidation          = errors.New("validation failed")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrConstraintViolation = errors.New("constraint violation")
)

// Resource-specific not-found errors. All of them match ErrNotFound.
var (
	ErrMerchantNotFound = fmt.Errorf("merchant %w", ErrNotFound)
	ErrItemNotFound     = fmt.Errorf("item %w", ErrNotFound)
	ErrCouponNotFound   = fmt.Errorf("coupon %w", ErrNotFound)
	ErrNoCouponsFound   = fmt.Errorf("no coupons for merchant: %w", ErrNotFound)
)

// ValidationError carries the human-readable reasons a request was rejected.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Messages, ", ")
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Add appends messages and returns the receiver.
func (e *ValidationError) Add(messages ...string) *ValidationError {
	e.Messages = append(e.Messages, messages...)
	return e
}

// OrNil returns nil when no message was collected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Messages) == 0 {
		return nil
	}
	return e
}
