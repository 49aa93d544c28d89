package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres repositories.
// lockTimeout applies to every transaction begun through the payment repository.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ContactRepo:     newPgxContactRepository(dbPool),
		BankAccountRepo: newPgxBankAccountRepository(dbPool),
		PendingRepo:     newPgxPendingTransactionRepository(dbPool),
		PaymentRepo:     newPgxPaymentRepository(dbPool, lockTimeout),
	}
}
