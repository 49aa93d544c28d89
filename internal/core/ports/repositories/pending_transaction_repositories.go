package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PendingTransactionReader defines lock-free reads of outstanding obligations
type PendingTransactionReader interface {
	// ListPendingTransactions returns every source row of the contact with a positive
	// pending amount, ordered by due date (nulls last), date, source type and id.
	ListPendingTransactions(ctx context.Context, contactID string) ([]domain.PendingTransaction, error)
}

// PendingTransactionSupport defines locked reads and writes of source rows
type PendingTransactionSupport interface {
	// FindTransactionsForUpdate locks the referenced source rows whatever their contact.
	// Unknown refs are absent from the result.
	FindTransactionsForUpdate(ctx context.Context, tx pgx.Tx, refs []domain.TransactionRef) (map[domain.TransactionRef]domain.PendingTransaction, error)

	// UpdatePaidAmountsInTx adds each delta to the row's paid_amount.
	UpdatePaidAmountsInTx(ctx context.Context, tx pgx.Tx, deltas map[domain.TransactionRef]decimal.Decimal, userID string, now time.Time) error
}

// PendingTransactionRepositoryFacade combines all source-row repository interfaces
type PendingTransactionRepositoryFacade interface {
	PendingTransactionReader
	PendingTransactionSupport
}
