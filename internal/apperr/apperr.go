// Package apperr is the error taxonomy shared by the engine and its transports.
//
// Business-rule rejections wrap one of the rule sentinels in a *RuleError that
// carries the current and requested values; errors.Is still matches the
// sentinel. None of these errors is fatal to the process.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// Not found
	ErrMemberNotFound = errors.New("store: member not found")
	ErrItemNotFound   = errors.New("store: item not found")
	ErrCardNotFound   = errors.New("store: ration card not found")
	ErrCreditNotFound = errors.New("store: credit line not found")

	// Business rules
	ErrInsufficientStock   = errors.New("store: insufficient stock")
	ErrInsufficientCredit  = errors.New("store: insufficient credit")
	ErrInsufficientFunds   = errors.New("store: insufficient funds on credit line")
	ErrBelowMinimumSale    = errors.New("store: below minimum sale quantity")
	ErrDuplicateCard       = errors.New("store: ration card already exists for this year")
	ErrDuplicateItem       = errors.New("store: item name already exists")
	ErrCreditLimitExceeded = errors.New("store: credit limit exceeded")
	ErrAllowanceExceeded   = errors.New("store: ration allowance exceeded")

	// Transient
	ErrContention = errors.New("store: resource busy, retry later")
)

// RuleError is a business-rule rejection with the values that triggered it.
type RuleError struct {
	Rule      error
	Current   string
	Requested string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s (current: %s, requested: %s)", e.Rule.Error(), e.Current, e.Requested)
}

func (e *RuleError) Unwrap() error { return e.Rule }

func NewRuleError(rule error, current, requested interface{}) error {
	return &RuleError{
		Rule:      rule,
		Current:   fmt.Sprint(current),
		Requested: fmt.Sprint(requested),
	}
}

// ValidationError is bad or missing input; nothing was attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("store: validation failed for %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrCreditNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateCard) || errors.Is(err, ErrDuplicateItem)
}

func IsRuleViolation(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInsufficientCredit) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrBelowMinimumSale) ||
		errors.Is(err, ErrCreditLimitExceeded) ||
		errors.Is(err, ErrAllowanceExceeded) ||
		errors.Is(err, ErrDuplicateCard)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsRetryable reports whether the caller may safely repeat the request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrContention)
}

// RuleName is a short label for metrics and logs.
func RuleName(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrInsufficientCredit):
		return "insufficient_credit"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrBelowMinimumSale):
		return "below_minimum_sale"
	case errors.Is(err, ErrDuplicateCard):
		return "duplicate_card"
	case errors.Is(err, ErrDuplicateItem):
		return "duplicate_item"
	case errors.Is(err, ErrCreditLimitExceeded):
		return "credit_limit_exceeded"
	case errors.Is(err, ErrAllowanceExceeded):
		return "allowance_exceeded"
	case errors.Is(err, ErrContention):
		return "contention"
	case IsNotFound(err):
		return "not_found"
	case IsValidation(err):
		return "validation"
	default:
		return "internal"
	}
}
