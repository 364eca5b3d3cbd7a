package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestRuleErrorMatchesSentinel(t *testing.T) {
	err := NewRuleError(ErrInsufficientStock, 3, 5)

	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatal("expected errors.Is to match the rule sentinel")
	}
	if errors.Is(err, ErrInsufficientCredit) {
		t.Fatal("unexpected match on a different rule")
	}

	var rule *RuleError
	if !errors.As(err, &rule) {
		t.Fatal("expected *RuleError")
	}
	if rule.Current != "3" || rule.Requested != "5" {
		t.Errorf("got current=%s requested=%s", rule.Current, rule.Requested)
	}
}

func TestClassification(t *testing.T) {
	wrapped := fmt.Errorf("record purchase: %w", NewRuleError(ErrInsufficientCredit, "0", "45"))

	tests := []struct {
		name      string
		err       error
		notFound  bool
		rule      bool
		valid     bool
		retryable bool
		label     string
	}{
		{"member not found", ErrMemberNotFound, true, false, false, false, "not_found"},
		{"wrapped credit rule", wrapped, false, true, false, false, "insufficient_credit"},
		{"duplicate card", ErrDuplicateCard, false, true, false, false, "duplicate_card"},
		{"validation", NewValidationError("quantity", "must be positive"), false, false, true, false, "validation"},
		{"contention", fmt.Errorf("lock item: %w", ErrContention), false, false, false, true, "contention"},
		{"other", errors.New("boom"), false, false, false, false, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound: got %v, want %v", got, tt.notFound)
			}
			if got := IsRuleViolation(tt.err); got != tt.rule {
				t.Errorf("IsRuleViolation: got %v, want %v", got, tt.rule)
			}
			if got := IsValidation(tt.err); got != tt.valid {
				t.Errorf("IsValidation: got %v, want %v", got, tt.valid)
			}
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable: got %v, want %v", got, tt.retryable)
			}
			if got := RuleName(tt.err); got != tt.label {
				t.Errorf("RuleName: got %q, want %q", got, tt.label)
			}
		})
	}
}
