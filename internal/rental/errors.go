package rental

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package unwraps to one of these.
var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrConflictingBooking = errors.New("conflicting booking")
	ErrNotFound           = errors.New("not found")
)

// RuleError reports which rule rejected a request.
type RuleError struct {
	Kind    error
	Rule    string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Rule, e.Message)
}

func (e *RuleError) Unwrap() error {
	return e.Kind
}

// Validation returns an ErrValidation for field.
func Validation(field, message string) error {
	return &RuleError{Kind: ErrValidation, Rule: field, Message: message}
}

// InvalidTransition returns an ErrInvalidTransition for rule.
func InvalidTransition(rule, message string) error {
	return &RuleError{Kind: ErrInvalidTransition, Rule: rule, Message: message}
}

// ConflictingBooking returns an ErrConflictingBooking for rule.
func ConflictingBooking(rule, message string) error {
	return &RuleError{Kind: ErrConflictingBooking, Rule: rule, Message: message}
}

// NotFound returns an ErrNotFound for the named resource.
func NotFound(resource, message string) error {
	return &RuleError{Kind: ErrNotFound, Rule: resource, Message: message}
}

// AsRuleError extracts the RuleError from err, if any.
func AsRuleError(err error) (*RuleError, bool) {
	var re *RuleError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
