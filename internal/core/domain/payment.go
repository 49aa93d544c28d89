package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentType is the kind of free-form adjustment applied on top of allocations.
type AdjustmentType string

const (
	AdjustmentNone         AdjustmentType = "none"
	AdjustmentDiscount     AdjustmentType = "discount"
	AdjustmentSurcharge    AdjustmentType = "surcharge"
	AdjustmentExtraReceipt AdjustmentType = "extra_receipt"
)

// IsValid reports whether a is a known adjustment type.
func (a AdjustmentType) IsValid() bool {
	switch a {
	case AdjustmentNone, AdjustmentDiscount, AdjustmentSurcharge, AdjustmentExtraReceipt:
		return true
	}
	return false
}

// Adjustment is the discount, surcharge or extra receipt attached to a payment.
type Adjustment struct {
	Type  AdjustmentType  `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Amount is the effective adjustment, zero when the type is none.
func (a Adjustment) Amount() decimal.Decimal {
	if a.Type == AdjustmentNone || a.Type == "" {
		return decimal.Zero
	}
	return a.Value
}

// Allocation is the portion of a payment applied to one obligation.
// BalanceType and Amount are snapshots taken when the allocation was validated.
type Allocation struct {
	Transaction TransactionRef  `json:"transaction"`
	BalanceType BalanceType     `json:"balanceType"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
}

// Payment is a committed settlement against one contact.
// Allocations and Adjustment are the history used for exact reversal.
type Payment struct {
	PaymentID     string       `json:"paymentID"`
	ContactID     string       `json:"contactID"`
	BankAccountID *string      `json:"bankAccountID,omitempty"`
	PaymentDate   time.Time    `json:"paymentDate"`
	Description   *string      `json:"description,omitempty"`
	Adjustment    Adjustment   `json:"adjustment"`
	Allocations   []Allocation `json:"allocations"`
	Revision      int          `json:"revision"`
	DeletedAt     *time.Time   `json:"deletedAt,omitempty"`
	AuditFields
}

// IsDeleted reports whether the payment has been soft-deleted.
func (p Payment) IsDeleted() bool {
	return p.DeletedAt != nil
}

// PriorAllocations indexes the stored allocations by obligation.
func (p Payment) PriorAllocations() map[TransactionRef]Allocation {
	prior := make(map[TransactionRef]Allocation, len(p.Allocations))
	for _, a := range p.Allocations {
		prior[a.Transaction] = a
	}
	return prior
}
