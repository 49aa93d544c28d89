package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a row of the payments table.
type Payment struct {
	PaymentID       string          `db:"payment_id"`
	ContactID       string          `db:"contact_id"`
	BankAccountID   *string         `db:"bank_account_id"`
	PaymentDate     time.Time       `db:"payment_date"`
	Description     *string         `db:"description"`
	AdjustmentType  string          `db:"adjustment_type"`
	AdjustmentValue decimal.Decimal `db:"adjustment_value"`
	Revision        int             `db:"revision"`
	DeletedAt       *time.Time      `db:"deleted_at"`
	AuditFields
}

// PaymentAllocation is a row of the payment_allocations table.
// Rows are append-only; each payment revision writes a fresh set.
type PaymentAllocation struct {
	AllocationID string          `db:"allocation_id"`
	PaymentID    string          `db:"payment_id"`
	Revision     int             `db:"revision"`
	LineNo       int             `db:"line_no"`
	SourceType   string          `db:"source_type"`
	SourceID     string          `db:"source_id"`
	BalanceType  string          `db:"balance_type"`
	Amount       decimal.Decimal `db:"amount"`
	PaidAmount   decimal.Decimal `db:"paid_amount"`
	CreatedAt    time.Time       `db:"created_at"`
}
