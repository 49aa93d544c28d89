package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType identifies which ledger an outstanding obligation lives in.
type SourceType string

const (
	SourceSale           SourceType = "sale"
	SourcePurchase       SourceType = "purchase"
	SourceExpense        SourceType = "expense"
	SourceIncome         SourceType = "income"
	SourceCurrentBalance SourceType = "current_balance"
)

// SourceTypes lists the row-backed source types in resolver order.
var SourceTypes = []SourceType{SourceSale, SourcePurchase, SourceExpense, SourceIncome}

// IsValid reports whether s is a known source type, including the synthetic one.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceSale, SourcePurchase, SourceExpense, SourceIncome, SourceCurrentBalance:
		return true
	}
	return false
}

// BalanceType returns the fixed side a row-backed source settles.
// The current-balance carry-over follows the contact and returns NoBalance here.
func (s SourceType) BalanceType() BalanceType {
	switch s {
	case SourceSale, SourceIncome:
		return Receivable
	case SourcePurchase, SourceExpense:
		return Payable
	}
	return NoBalance
}

// TransactionRef is the structured identity of an obligation.
type TransactionRef struct {
	SourceType SourceType `json:"sourceType"`
	SourceID   string     `json:"sourceID"`
}

// CurrentBalanceRef is the reserved identity of a contact's carry-over item.
// Its SourceType never names a table, so it cannot collide with a real row.
func CurrentBalanceRef(contactID string) TransactionRef {
	return TransactionRef{SourceType: SourceCurrentBalance, SourceID: contactID}
}

// IsCurrentBalance reports whether the ref points at the synthetic carry-over item.
func (r TransactionRef) IsCurrentBalance() bool {
	return r.SourceType == SourceCurrentBalance
}

func (r TransactionRef) String() string {
	return string(r.SourceType) + ":" + r.SourceID
}

// Less orders refs by source type then id, the order rows are locked in.
func (r TransactionRef) Less(o TransactionRef) bool {
	if r.SourceType != o.SourceType {
		return r.SourceType < o.SourceType
	}
	return r.SourceID < o.SourceID
}

// PendingTransaction is the read model of one outstanding obligation.
type PendingTransaction struct {
	Ref           TransactionRef  `json:"ref"`
	ContactID     string          `json:"contactID"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	BalanceType   BalanceType     `json:"balanceType"`
	Date          time.Time       `json:"date"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
}

// NewCurrentBalanceItem builds the synthetic carry-over item for a contact.
func NewCurrentBalanceItem(c Contact) PendingTransaction {
	return PendingTransaction{
		Ref:           CurrentBalanceRef(c.ContactID),
		ContactID:     c.ContactID,
		TotalAmount:   c.BalanceAmount,
		PaidAmount:    decimal.Zero,
		PendingAmount: c.BalanceAmount,
		BalanceType:   c.BalanceType,
		Date:          c.LastUpdatedAt,
	}
}
