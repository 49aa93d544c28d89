package accounting

import (
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEffect is the full balance effect of one payment.
// ContactDelta is the net settled amount: positive shrinks a receivable position,
// negative shrinks a payable one. BankDelta is cash actually moved and never
// includes the adjustment. SourcePaid holds the paid_amount increment per
// row-backed obligation.
type LedgerEffect struct {
	TotalReceivable  decimal.Decimal
	TotalPayable     decimal.Decimal
	AdjustmentAmount decimal.Decimal
	ContactDelta     decimal.Decimal
	BankDelta        decimal.Decimal
	SourcePaid       map[domain.TransactionRef]decimal.Decimal
}

// ComputeEffect sums validated allocations and the adjustment into a LedgerEffect.
//
//	net  = receivable - payable + discount - (surcharge | extra_receipt)
//	bank = receivable - payable
func ComputeEffect(allocations []domain.Allocation, adj domain.Adjustment) LedgerEffect {
	effect := LedgerEffect{
		TotalReceivable: decimal.Zero,
		TotalPayable:    decimal.Zero,
		SourcePaid:      make(map[domain.TransactionRef]decimal.Decimal),
	}

	for _, a := range allocations {
		switch a.BalanceType {
		case domain.Receivable:
			effect.TotalReceivable = effect.TotalReceivable.Add(a.PaidAmount)
		case domain.Payable:
			effect.TotalPayable = effect.TotalPayable.Add(a.PaidAmount)
		}
		if !a.Transaction.IsCurrentBalance() {
			effect.SourcePaid[a.Transaction] = effect.SourcePaid[a.Transaction].Add(a.PaidAmount)
		}
	}

	effect.AdjustmentAmount = adj.Amount()
	base := effect.TotalReceivable.Sub(effect.TotalPayable)

	net := base
	switch adj.Type {
	case domain.AdjustmentDiscount:
		net = net.Add(effect.AdjustmentAmount)
	case domain.AdjustmentSurcharge, domain.AdjustmentExtraReceipt:
		net = net.Sub(effect.AdjustmentAmount)
	}

	effect.ContactDelta = net
	effect.BankDelta = base
	return effect
}

// Inverse returns the effect that exactly undoes e.
func (e LedgerEffect) Inverse() LedgerEffect {
	inv := LedgerEffect{
		TotalReceivable:  e.TotalReceivable.Neg(),
		TotalPayable:     e.TotalPayable.Neg(),
		AdjustmentAmount: e.AdjustmentAmount.Neg(),
		ContactDelta:     e.ContactDelta.Neg(),
		BankDelta:        e.BankDelta.Neg(),
		SourcePaid:       make(map[domain.TransactionRef]decimal.Decimal, len(e.SourcePaid)),
	}
	for ref, amt := range e.SourcePaid {
		inv.SourcePaid[ref] = amt.Neg()
	}
	return inv
}

// ReverseEffect is the inverse of a stored payment's own allocations and adjustment.
// Current obligation state is never consulted.
func ReverseEffect(p domain.Payment) LedgerEffect {
	return ComputeEffect(p.Allocations, p.Adjustment).Inverse()
}

// ApplyToContact returns c with the effect applied to its signed balance.
func ApplyToContact(c domain.Contact, e LedgerEffect) domain.Contact {
	c.BalanceAmount, c.BalanceType = domain.BalanceFromSigned(c.SignedBalance().Sub(e.ContactDelta))
	return c
}

// ApplyToBankAccount returns b with the cash leg applied.
func ApplyToBankAccount(b domain.BankAccount, e LedgerEffect) domain.BankAccount {
	b.CurrentBalance = b.CurrentBalance.Add(e.BankDelta)
	return b
}

// MergeSourcePaid sums several per-obligation paid deltas and drops zero entries.
func MergeSourcePaid(effects ...LedgerEffect) map[domain.TransactionRef]decimal.Decimal {
	merged := make(map[domain.TransactionRef]decimal.Decimal)
	for _, e := range effects {
		for ref, amt := range e.SourcePaid {
			merged[ref] = merged[ref].Add(amt)
		}
	}
	for ref, amt := range merged {
		if amt.IsZero() {
			delete(merged, ref)
		}
	}
	return merged
}
