package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceType tells which side of the relationship owes money.
type BalanceType string

const (
	Receivable BalanceType = "receivable" // the contact owes the business
	Payable    BalanceType = "payable"    // the business owes the contact
	NoBalance  BalanceType = "none"
)

// IsValid reports whether the balance type is one of the known values.
func (b BalanceType) IsValid() bool {
	switch b {
	case Receivable, Payable, NoBalance:
		return true
	}
	return false
}

// Contact is a customer or supplier carrying a running balance.
// BalanceAmount is always a non-negative magnitude; BalanceType carries the sign.
type Contact struct {
	ContactID     string          `json:"contactID"`
	Name          string          `json:"name"`
	BalanceAmount decimal.Decimal `json:"balanceAmount"`
	BalanceType   BalanceType     `json:"balanceType"`
	AuditFields
}

// SignedBalance returns the balance as one signed number, positive for receivable.
func (c Contact) SignedBalance() decimal.Decimal {
	if c.BalanceType == Payable {
		return c.BalanceAmount.Neg()
	}
	return c.BalanceAmount
}

// BalanceFromSigned splits a signed balance back into magnitude and type.
func BalanceFromSigned(signed decimal.Decimal) (decimal.Decimal, BalanceType) {
	switch signed.Sign() {
	case 1:
		return signed, Receivable
	case -1:
		return signed.Neg(), Payable
	default:
		return decimal.Zero, NoBalance
	}
}

// Validate checks the magnitude/type invariant.
func (c Contact) Validate() error {
	if c.BalanceAmount.IsNegative() {
		return fmt.Errorf("contact %s balance amount must not be negative, got %s", c.ContactID, c.BalanceAmount)
	}
	if !c.BalanceType.IsValid() {
		return fmt.Errorf("contact %s has unknown balance type %q", c.ContactID, c.BalanceType)
	}
	if (c.BalanceType == NoBalance) != c.BalanceAmount.IsZero() {
		return fmt.Errorf("contact %s balance type %s does not match amount %s", c.ContactID, c.BalanceType, c.BalanceAmount)
	}
	return nil
}
