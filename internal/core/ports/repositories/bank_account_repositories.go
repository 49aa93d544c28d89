package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BankAccountRepositoryFacade defines the bank account operations used during reconciliation.
type BankAccountRepositoryFacade interface {
	// FindBankAccountsByIDsForUpdate locks the bank accounts in id order and returns them.
	FindBankAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, bankAccountIDs []string) (map[string]domain.BankAccount, error)

	// UpdateBankAccountBalancesInTx adds each delta to current_balance. Zero deltas are skipped.
	UpdateBankAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}
