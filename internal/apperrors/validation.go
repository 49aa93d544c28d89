package apperrors

import (
	"fmt"
)

// Rule names a violated allocation rule.
type Rule string

const (
	RuleEmptyAllocation       Rule = "EMPTY_ALLOCATION"
	RuleZeroAllocation        Rule = "ZERO_ALLOCATION"
	RuleInvalidAmount         Rule = "INVALID_AMOUNT"
	RuleDuplicateAllocation   Rule = "DUPLICATE_ALLOCATION"
	RuleOverAllocation        Rule = "OVER_ALLOCATION"
	RuleAdjustmentRequired    Rule = "ADJUSTMENT_REQUIRED"
	RuleInvalidAdjustmentType Rule = "INVALID_ADJUSTMENT_TYPE"
	RuleInvalidSourceType     Rule = "INVALID_SOURCE_TYPE"
)

// ValidationError reports the first violated rule and, when relevant,
// the transaction that violated it. It matches ErrValidation.
type ValidationError struct {
	Rule       Rule
	SourceType string
	SourceID   string
	Message    string
}

// NewValidationError creates a rule violation without a transaction reference.
func NewValidationError(rule Rule, message string) *ValidationError {
	return &ValidationError{Rule: rule, Message: message}
}

// NewAllocationError creates a rule violation for one transaction.
func NewAllocationError(rule Rule, sourceType, sourceID, message string) *ValidationError {
	return &ValidationError{Rule: rule, SourceType: sourceType, SourceID: sourceID, Message: message}
}

func (e *ValidationError) Error() string {
	if e.SourceID != "" {
		return fmt.Sprintf("%s: %s (transaction %s:%s)", e.Rule, e.Message, e.SourceType, e.SourceID)
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// Is makes errors.Is(err, ErrValidation) hold for every rule violation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
