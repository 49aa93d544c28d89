package pgsql

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/models"
	"github.com/SscSPs/bookkeeping_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxBankAccountRepository struct {
	pool *pgxpool.Pool
}

func newPgxBankAccountRepository(pool *pgxpool.Pool) portsrepo.BankAccountRepositoryFacade {
	return &PgxBankAccountRepository{pool: pool}
}

var _ portsrepo.BankAccountRepositoryFacade = (*PgxBankAccountRepository)(nil)

// FindBankAccountsByIDsForUpdate retrieves multiple bank accounts by IDs and locks the rows for update.
// Must be called within a transaction.
func (r *PgxBankAccountRepository) FindBankAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, bankAccountIDs []string) (map[string]domain.BankAccount, error) {
	if len(bankAccountIDs) == 0 {
		return map[string]domain.BankAccount{}, nil
	}

	query := `
		SELECT bank_account_id, name, current_balance, created_at, created_by, last_updated_at, last_updated_by
		FROM bank_accounts
		WHERE bank_account_id = ANY($1)
		ORDER BY bank_account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, bankAccountIDs)
	if err != nil {
		return nil, classifyError("failed to lock bank accounts", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.BankAccount, len(bankAccountIDs))
	for rows.Next() {
		var m models.BankAccount
		if err := rows.Scan(
			&m.BankAccountID,
			&m.Name,
			&m.CurrentBalance,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, classifyError("failed to scan locked bank account row", err)
		}
		accounts[m.BankAccountID] = mapping.ToDomainBankAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("error iterating locked bank account rows", err)
	}
	return accounts, nil
}

// UpdateBankAccountBalancesInTx updates balances for multiple bank accounts within a transaction.
func (r *PgxBankAccountRepository) UpdateBankAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	ids := make([]string, 0, len(balanceChanges))
	for id, delta := range balanceChanges {
		if !delta.IsZero() { // Only queue updates if there's a change
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)

	query := `
		UPDATE bank_accounts
		SET current_balance = current_balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1;
	`
	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(query, id, balanceChanges[id], now, userID)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for _, id := range ids {
		ct, err := br.Exec()
		if batchErr != nil {
			continue
		}
		if err != nil {
			batchErr = classifyError("failed to update balance for bank account "+id, err)
		} else if ct.RowsAffected() == 0 {
			batchErr = apperrors.NewNotFoundError("bank account", id)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = classifyError("failed to close bank balance batch", err)
	}
	return batchErr
}
