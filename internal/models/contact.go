package models

import "github.com/shopspring/decimal"

// Contact is a row of the contacts table.
type Contact struct {
	ContactID     string          `db:"contact_id"`
	Name          string          `db:"name"`
	BalanceAmount decimal.Decimal `db:"balance_amount"`
	BalanceType   string          `db:"balance_type"`
	AuditFields
}

// BankAccount is a row of the bank_accounts table.
type BankAccount struct {
	BankAccountID  string          `db:"bank_account_id"`
	Name           string          `db:"name"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	AuditFields
}
