package accounting

import (
	"fmt"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the precision of every money field.
const MoneyPlaces = 2

// ProposedAllocation is one caller-supplied allocation before validation.
type ProposedAllocation struct {
	Transaction domain.TransactionRef
	PaidAmount  decimal.Decimal
}

// Ceiling is the authoritative state of one obligation as read under lock.
// Transaction is nil when no row matched (unknown id or another contact's row).
// Prior is set when the payment under edit already allocated to it.
type Ceiling struct {
	Transaction *domain.PendingTransaction
	Prior       *domain.Allocation
}

// Limit is the largest amount that may be allocated.
// For a prior allocation that is what is still pending plus what this payment
// consumed; once pending reaches zero it falls back to the prior paid amount.
func (c Ceiling) Limit() decimal.Decimal {
	limit := decimal.Zero
	if c.Transaction != nil && c.sidesAgree() {
		limit = c.Transaction.PendingAmount
	}
	if c.Prior != nil {
		limit = limit.Add(c.Prior.PaidAmount)
	}
	return limit
}

// sidesAgree is false when a carry-over balance flipped side since the prior allocation.
func (c Ceiling) sidesAgree() bool {
	if c.Prior == nil || c.Transaction == nil {
		return true
	}
	return c.Transaction.BalanceType == c.Prior.BalanceType
}

func (c Ceiling) snapshot(ref domain.TransactionRef, paid decimal.Decimal) domain.Allocation {
	alloc := domain.Allocation{Transaction: ref, PaidAmount: paid}
	if c.Transaction != nil && c.sidesAgree() && c.Transaction.BalanceType != domain.NoBalance {
		alloc.BalanceType = c.Transaction.BalanceType
		alloc.Amount = c.Transaction.TotalAmount
		return alloc
	}
	if c.Prior != nil {
		alloc.BalanceType = c.Prior.BalanceType
		alloc.Amount = c.Prior.Amount
	}
	return alloc
}

func isMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

// ValidateAllocations checks proposed allocations against locked ceilings.
// Rules run in order across the whole set and the first failure wins:
// empty set, non-positive or malformed amounts, duplicates, ceilings, adjustment.
func ValidateAllocations(proposed []ProposedAllocation, ceilings map[domain.TransactionRef]Ceiling, adj domain.Adjustment) ([]domain.Allocation, error) {
	if len(proposed) == 0 {
		return nil, apperrors.NewValidationError(apperrors.RuleEmptyAllocation, "at least one allocation is required")
	}

	for _, p := range proposed {
		ref := p.Transaction
		if !ref.SourceType.IsValid() {
			return nil, apperrors.NewAllocationError(apperrors.RuleInvalidSourceType, string(ref.SourceType), ref.SourceID, "unknown source type")
		}
		if !p.PaidAmount.IsPositive() {
			return nil, apperrors.NewAllocationError(apperrors.RuleZeroAllocation, string(ref.SourceType), ref.SourceID, "paid amount must be greater than zero")
		}
		if !isMoney(p.PaidAmount) {
			return nil, apperrors.NewAllocationError(apperrors.RuleInvalidAmount, string(ref.SourceType), ref.SourceID, "paid amount must have at most two decimal places")
		}
	}

	seen := make(map[domain.TransactionRef]struct{}, len(proposed))
	for _, p := range proposed {
		if _, dup := seen[p.Transaction]; dup {
			return nil, apperrors.NewAllocationError(apperrors.RuleDuplicateAllocation, string(p.Transaction.SourceType), p.Transaction.SourceID, "transaction allocated more than once")
		}
		seen[p.Transaction] = struct{}{}
	}

	validated := make([]domain.Allocation, 0, len(proposed))
	for _, p := range proposed {
		ref := p.Transaction
		ceiling := ceilings[ref]
		limit := ceiling.Limit()
		if p.PaidAmount.GreaterThan(limit) {
			return nil, apperrors.NewAllocationError(apperrors.RuleOverAllocation, string(ref.SourceType), ref.SourceID,
				fmt.Sprintf("paid amount %s exceeds available %s", p.PaidAmount.StringFixed(MoneyPlaces), limit.StringFixed(MoneyPlaces)))
		}
		validated = append(validated, ceiling.snapshot(ref, p.PaidAmount))
	}

	if err := ValidateAdjustment(adj); err != nil {
		return nil, err
	}

	return validated, nil
}

// ValidateAdjustment checks the adjustment type and value.
func ValidateAdjustment(adj domain.Adjustment) error {
	if !adj.Type.IsValid() {
		return apperrors.NewValidationError(apperrors.RuleInvalidAdjustmentType, fmt.Sprintf("unknown adjustment type %q", adj.Type))
	}
	if adj.Value.IsNegative() || !isMoney(adj.Value) {
		return apperrors.NewValidationError(apperrors.RuleInvalidAmount, "adjustment value must be a non-negative amount with at most two decimal places")
	}
	if adj.Type != domain.AdjustmentNone && !adj.Value.IsPositive() {
		return apperrors.NewValidationError(apperrors.RuleAdjustmentRequired, fmt.Sprintf("adjustment type %s requires a value greater than zero", adj.Type))
	}
	return nil
}
