package accounting_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sale1     = domain.TransactionRef{SourceType: domain.SourceSale, SourceID: "s1"}
	purchase1 = domain.TransactionRef{SourceType: domain.SourcePurchase, SourceID: "p1"}
)

func pendingRow(ref domain.TransactionRef, total, paid string) *domain.PendingTransaction {
	return &domain.PendingTransaction{
		Ref:           ref,
		TotalAmount:   dec(total),
		PaidAmount:    dec(paid),
		PendingAmount: dec(total).Sub(dec(paid)),
		BalanceType:   ref.SourceType.BalanceType(),
	}
}

func requireRule(t *testing.T, err error, rule apperrors.Rule) *apperrors.ValidationError {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, rule, vErr.Rule)
	return vErr
}

func TestValidateAllocations_Empty(t *testing.T) {
	_, err := accounting.ValidateAllocations(nil, nil, noAdjustment())
	requireRule(t, err, apperrors.RuleEmptyAllocation)
}

func TestValidateAllocations_ZeroBeforeOver(t *testing.T) {
	ceilings := map[domain.TransactionRef]accounting.Ceiling{
		sale1:     {Transaction: pendingRow(sale1, "100", "0")},
		purchase1: {Transaction: pendingRow(purchase1, "100", "0")},
	}
	proposed := []accounting.ProposedAllocation{
		{Transaction: sale1, PaidAmount: dec("500")},
		{Transaction: purchase1, PaidAmount: decimal.Zero},
	}

	_, err := accounting.ValidateAllocations(proposed, ceilings, noAdjustment())
	vErr := requireRule(t, err, apperrors.RuleZeroAllocation)
	assert.Equal(t, "p1", vErr.SourceID)
}

func TestValidateAllocations_PrecisionAndSourceType(t *testing.T) {
	_, err := accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("1.005")}}, nil, noAdjustment())
	requireRule(t, err, apperrors.RuleInvalidAmount)

	bad := domain.TransactionRef{SourceType: "invoice", SourceID: "i1"}
	_, err = accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: bad, PaidAmount: dec("1")}}, nil, noAdjustment())
	requireRule(t, err, apperrors.RuleInvalidSourceType)
}

func TestValidateAllocations_Duplicate(t *testing.T) {
	ceilings := map[domain.TransactionRef]accounting.Ceiling{sale1: {Transaction: pendingRow(sale1, "100", "0")}}
	proposed := []accounting.ProposedAllocation{
		{Transaction: sale1, PaidAmount: dec("40")},
		{Transaction: sale1, PaidAmount: dec("40")},
	}
	_, err := accounting.ValidateAllocations(proposed, ceilings, noAdjustment())
	requireRule(t, err, apperrors.RuleDuplicateAllocation)
}

func TestValidateAllocations_OverAllocationNeverClamped(t *testing.T) {
	ceilings := map[domain.TransactionRef]accounting.Ceiling{sale1: {Transaction: pendingRow(sale1, "100", "30")}}

	_, err := accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("70.01")}}, ceilings, noAdjustment())
	vErr := requireRule(t, err, apperrors.RuleOverAllocation)
	assert.Equal(t, "sale", vErr.SourceType)

	allocs, err := accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("70")}}, ceilings, noAdjustment())
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, domain.Receivable, allocs[0].BalanceType)
	assert.True(t, allocs[0].Amount.Equal(dec("100")))
	assert.True(t, allocs[0].PaidAmount.Equal(dec("70")))
}

func TestValidateAllocations_UnknownTransactionIsOverAllocation(t *testing.T) {
	_, err := accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("1")}}, map[domain.TransactionRef]accounting.Ceiling{}, noAdjustment())
	requireRule(t, err, apperrors.RuleOverAllocation)
}

func TestValidateAllocations_PriorAllocationCeiling(t *testing.T) {
	prior := saleAlloc("s1", "1000")
	prior.Amount = dec("1500")

	t.Run("prior plus pending", func(t *testing.T) {
		ceilings := map[domain.TransactionRef]accounting.Ceiling{sale1: {Transaction: pendingRow(sale1, "1500", "1000"), Prior: &prior}}
		_, err := accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("1500")}}, ceilings, noAdjustment())
		assert.NoError(t, err)

		_, err = accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("1500.01")}}, ceilings, noAdjustment())
		requireRule(t, err, apperrors.RuleOverAllocation)
	})

	t.Run("fully paid falls back to prior amount", func(t *testing.T) {
		ceilings := map[domain.TransactionRef]accounting.Ceiling{sale1: {Transaction: pendingRow(sale1, "1000", "1000"), Prior: &prior}}
		allocs, err := accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("600")}}, ceilings, noAdjustment())
		require.NoError(t, err)
		assert.True(t, allocs[0].PaidAmount.Equal(dec("600")))

		_, err = accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("1000.01")}}, ceilings, noAdjustment())
		requireRule(t, err, apperrors.RuleOverAllocation)
	})

	t.Run("row gone keeps prior snapshot", func(t *testing.T) {
		ceilings := map[domain.TransactionRef]accounting.Ceiling{sale1: {Prior: &prior}}
		allocs, err := accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("10")}}, ceilings, noAdjustment())
		require.NoError(t, err)
		assert.Equal(t, domain.Receivable, allocs[0].BalanceType)
		assert.True(t, allocs[0].Amount.Equal(dec("1500")))
	})
}

func TestValidateAllocations_Adjustment(t *testing.T) {
	ceilings := map[domain.TransactionRef]accounting.Ceiling{sale1: {Transaction: pendingRow(sale1, "100", "0")}}
	proposed := []accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("100")}}

	_, err := accounting.ValidateAllocations(proposed, ceilings, domain.Adjustment{Type: domain.AdjustmentDiscount, Value: decimal.Zero})
	requireRule(t, err, apperrors.RuleAdjustmentRequired)

	_, err = accounting.ValidateAllocations(proposed, ceilings, domain.Adjustment{Type: "rebate", Value: dec("1")})
	requireRule(t, err, apperrors.RuleInvalidAdjustmentType)

	_, err = accounting.ValidateAllocations(proposed, ceilings, domain.Adjustment{Type: domain.AdjustmentSurcharge, Value: dec("2.50")})
	assert.NoError(t, err)
}

func TestValidateAllocations_OverAllocationBeforeAdjustment(t *testing.T) {
	ceilings := map[domain.TransactionRef]accounting.Ceiling{sale1: {Transaction: pendingRow(sale1, "100", "0")}}
	proposed := []accounting.ProposedAllocation{{Transaction: sale1, PaidAmount: dec("101")}}

	_, err := accounting.ValidateAllocations(proposed, ceilings, domain.Adjustment{Type: domain.AdjustmentDiscount, Value: decimal.Zero})
	requireRule(t, err, apperrors.RuleOverAllocation)
}

func TestValidateAllocations_CurrentBalanceFollowsContactSide(t *testing.T) {
	contact := domain.Contact{ContactID: "c1", BalanceAmount: dec("250"), BalanceType: domain.Payable}
	item := domain.NewCurrentBalanceItem(contact)
	ref := domain.CurrentBalanceRef("c1")
	ceilings := map[domain.TransactionRef]accounting.Ceiling{ref: {Transaction: &item}}

	allocs, err := accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: ref, PaidAmount: dec("250")}}, ceilings, noAdjustment())
	require.NoError(t, err)
	assert.Equal(t, domain.Payable, allocs[0].BalanceType)

	_, err = accounting.ValidateAllocations([]accounting.ProposedAllocation{{Transaction: ref, PaidAmount: dec("250.01")}}, ceilings, noAdjustment())
	requireRule(t, err, apperrors.RuleOverAllocation)
}
