package domain

import "github.com/shopspring/decimal"

// BankAccount is a cash or bank ledger. CurrentBalance may go negative (overdraft).
type BankAccount struct {
	BankAccountID  string          `json:"bankAccountID"`
	Name           string          `json:"name"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	AuditFields
}
