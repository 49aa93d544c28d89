package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceTransaction is a row of one of the sales, purchases, expenses or incomes tables.
type SourceTransaction struct {
	SourceType  string          `db:"source_type"`
	SourceID    string          `db:"id"`
	ContactID   string          `db:"contact_id"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	PaidAmount  decimal.Decimal `db:"paid_amount"`
	TxnDate     time.Time       `db:"txn_date"`
	DueDate     *time.Time      `db:"due_date"`
}
