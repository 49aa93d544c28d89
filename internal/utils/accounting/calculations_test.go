package accounting_test

import (
	"testing"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func saleAlloc(id, paid string) domain.Allocation {
	return domain.Allocation{
		Transaction: domain.TransactionRef{SourceType: domain.SourceSale, SourceID: id},
		BalanceType: domain.Receivable,
		Amount:      dec(paid),
		PaidAmount:  dec(paid),
	}
}

func purchaseAlloc(id, paid string) domain.Allocation {
	return domain.Allocation{
		Transaction: domain.TransactionRef{SourceType: domain.SourcePurchase, SourceID: id},
		BalanceType: domain.Payable,
		Amount:      dec(paid),
		PaidAmount:  dec(paid),
	}
}

func noAdjustment() domain.Adjustment {
	return domain.Adjustment{Type: domain.AdjustmentNone, Value: decimal.Zero}
}

func TestComputeEffect_FullReceivableSettlement(t *testing.T) {
	contact := domain.Contact{ContactID: "c1", BalanceAmount: dec("1000"), BalanceType: domain.Receivable}
	bank := domain.BankAccount{BankAccountID: "X", CurrentBalance: dec("250.00")}

	effect := accounting.ComputeEffect([]domain.Allocation{saleAlloc("s1", "1000")}, noAdjustment())

	after := accounting.ApplyToContact(contact, effect)
	assert.True(t, after.BalanceAmount.IsZero())
	assert.Equal(t, domain.NoBalance, after.BalanceType)

	bankAfter := accounting.ApplyToBankAccount(bank, effect)
	assert.True(t, bankAfter.CurrentBalance.Equal(dec("1250.00")))
}

func TestComputeEffect_ReverseRestoresScenario(t *testing.T) {
	contact := domain.Contact{ContactID: "c1", BalanceAmount: dec("1000"), BalanceType: domain.Receivable}
	bank := domain.BankAccount{BankAccountID: "X", CurrentBalance: dec("0")}
	payment := domain.Payment{
		Allocations: []domain.Allocation{saleAlloc("s1", "1000")},
		Adjustment:  noAdjustment(),
	}

	effect := accounting.ComputeEffect(payment.Allocations, payment.Adjustment)
	applied := accounting.ApplyToContact(contact, effect)
	appliedBank := accounting.ApplyToBankAccount(bank, effect)

	reversed := accounting.ApplyToContact(applied, accounting.ReverseEffect(payment))
	reversedBank := accounting.ApplyToBankAccount(appliedBank, accounting.ReverseEffect(payment))

	assert.True(t, reversed.BalanceAmount.Equal(dec("1000")))
	assert.Equal(t, domain.Receivable, reversed.BalanceType)
	assert.True(t, reversedBank.CurrentBalance.IsZero())
}

func TestComputeEffect_DiscountExcludedFromBankLeg(t *testing.T) {
	contact := domain.Contact{ContactID: "c1", BalanceAmount: dec("600"), BalanceType: domain.Receivable}
	adj := domain.Adjustment{Type: domain.AdjustmentDiscount, Value: dec("20")}

	effect := accounting.ComputeEffect([]domain.Allocation{saleAlloc("s1", "500")}, adj)

	assert.True(t, effect.ContactDelta.Equal(dec("520")))
	assert.True(t, effect.BankDelta.Equal(dec("500")))
	assert.True(t, effect.AdjustmentAmount.Equal(dec("20")))

	after := accounting.ApplyToContact(contact, effect)
	assert.True(t, after.BalanceAmount.Equal(dec("80")))
	assert.Equal(t, domain.Receivable, after.BalanceType)
}

func TestComputeEffect_SurchargeAndExtraReceiptReduceNet(t *testing.T) {
	for _, typ := range []domain.AdjustmentType{domain.AdjustmentSurcharge, domain.AdjustmentExtraReceipt} {
		t.Run(string(typ), func(t *testing.T) {
			effect := accounting.ComputeEffect([]domain.Allocation{saleAlloc("s1", "500")}, domain.Adjustment{Type: typ, Value: dec("15.50")})
			assert.True(t, effect.ContactDelta.Equal(dec("484.50")))
			assert.True(t, effect.BankDelta.Equal(dec("500")))
		})
	}
}

func TestComputeEffect_PayableFlipsToReceivable(t *testing.T) {
	contact := domain.Contact{ContactID: "c1", BalanceAmount: dec("300"), BalanceType: domain.Payable}
	bank := domain.BankAccount{BankAccountID: "X", CurrentBalance: dec("1000")}

	// paying out 500 against 300 owed leaves the contact owing us 200
	effect := accounting.ComputeEffect([]domain.Allocation{purchaseAlloc("p1", "500")}, noAdjustment())

	after := accounting.ApplyToContact(contact, effect)
	assert.True(t, after.BalanceAmount.Equal(dec("200")))
	assert.Equal(t, domain.Receivable, after.BalanceType)
	assert.NoError(t, after.Validate())

	bankAfter := accounting.ApplyToBankAccount(bank, effect)
	assert.True(t, bankAfter.CurrentBalance.Equal(dec("500")))
}

func TestComputeEffect_MixedSidesNet(t *testing.T) {
	allocs := []domain.Allocation{saleAlloc("s1", "700.25"), purchaseAlloc("p1", "200.10")}
	effect := accounting.ComputeEffect(allocs, noAdjustment())

	assert.True(t, effect.TotalReceivable.Equal(dec("700.25")))
	assert.True(t, effect.TotalPayable.Equal(dec("200.10")))
	assert.True(t, effect.ContactDelta.Equal(dec("500.15")))
	assert.Len(t, effect.SourcePaid, 2)
}

func TestComputeEffect_CurrentBalanceHasNoSourceRow(t *testing.T) {
	alloc := domain.Allocation{
		Transaction: domain.CurrentBalanceRef("c1"),
		BalanceType: domain.Receivable,
		Amount:      dec("100"),
		PaidAmount:  dec("40"),
	}
	effect := accounting.ComputeEffect([]domain.Allocation{alloc}, noAdjustment())

	assert.True(t, effect.ContactDelta.Equal(dec("40")))
	assert.Empty(t, effect.SourcePaid)
}

func TestApplyThenReverse_IsIdentity(t *testing.T) {
	contacts := []domain.Contact{
		{ContactID: "a", BalanceAmount: dec("0"), BalanceType: domain.NoBalance},
		{ContactID: "b", BalanceAmount: dec("0.01"), BalanceType: domain.Receivable},
		{ContactID: "c", BalanceAmount: dec("999.99"), BalanceType: domain.Payable},
		{ContactID: "d", BalanceAmount: dec("123456.78"), BalanceType: domain.Receivable},
	}
	payments := []domain.Payment{
		{Allocations: []domain.Allocation{saleAlloc("s1", "0.01")}, Adjustment: noAdjustment()},
		{Allocations: []domain.Allocation{purchaseAlloc("p1", "1000.00")}, Adjustment: domain.Adjustment{Type: domain.AdjustmentDiscount, Value: dec("0.99")}},
		{Allocations: []domain.Allocation{saleAlloc("s1", "33.33"), purchaseAlloc("p1", "66.67")}, Adjustment: domain.Adjustment{Type: domain.AdjustmentSurcharge, Value: dec("0.10")}},
		{Allocations: []domain.Allocation{saleAlloc("s1", "123456.78")}, Adjustment: domain.Adjustment{Type: domain.AdjustmentExtraReceipt, Value: dec("10")}},
	}
	bank := domain.BankAccount{BankAccountID: "X", CurrentBalance: dec("-50.05")}

	for _, c := range contacts {
		for i, p := range payments {
			effect := accounting.ComputeEffect(p.Allocations, p.Adjustment)
			applied := accounting.ApplyToContact(c, effect)
			assert.NoError(t, applied.Validate(), "contact %s payment %d", c.ContactID, i)

			restored := accounting.ApplyToContact(applied, accounting.ReverseEffect(p))
			assert.True(t, restored.BalanceAmount.Equal(c.BalanceAmount), "contact %s payment %d", c.ContactID, i)
			assert.Equal(t, c.BalanceType, restored.BalanceType, "contact %s payment %d", c.ContactID, i)

			restoredBank := accounting.ApplyToBankAccount(accounting.ApplyToBankAccount(bank, effect), effect.Inverse())
			assert.True(t, restoredBank.CurrentBalance.Equal(bank.CurrentBalance))
		}
	}
}

func TestMergeSourcePaid_DropsNetZero(t *testing.T) {
	oldEffect := accounting.ComputeEffect([]domain.Allocation{saleAlloc("s1", "1000"), saleAlloc("s2", "50")}, noAdjustment())
	newEffect := accounting.ComputeEffect([]domain.Allocation{saleAlloc("s1", "600"), saleAlloc("s2", "50")}, noAdjustment())

	merged := accounting.MergeSourcePaid(oldEffect.Inverse(), newEffect)

	assert.Len(t, merged, 1)
	assert.True(t, merged[domain.TransactionRef{SourceType: domain.SourceSale, SourceID: "s1"}].Equal(dec("-400")))
}
