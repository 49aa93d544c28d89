package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a live payment with its current allocations.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPaymentsByContact retrieves live payments of a contact, newest first, using token-based pagination.
	ListPaymentsByContact(ctx context.Context, contactID string, limit int, nextToken *string) ([]domain.Payment, *string, error)
}

// PaymentTransactionSupport defines payment writes that run inside a reconciliation transaction
type PaymentTransactionSupport interface {
	// FindPaymentByIDForUpdate locks a live payment row and returns it with its current allocations.
	FindPaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error)

	// SavePaymentInTx inserts the payment header and its allocations.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// UpdatePaymentInTx rewrites the header in place and appends allocation rows for the new revision.
	// Rows of earlier revisions are kept as history.
	UpdatePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// SoftDeletePaymentInTx flags the payment as deleted.
	SoftDeletePaymentInTx(ctx context.Context, tx pgx.Tx, paymentID string, userID string, now time.Time) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentTransactionSupport
}

// PaymentRepositoryWithTx extends PaymentRepositoryFacade with transaction capabilities
type PaymentRepositoryWithTx interface {
	PaymentRepositoryFacade
	TransactionManager
}
