package pgsql

import (
	"context"
	"fmt"
	"sort"
	"strings"
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

// sourceTables maps each row-backed source type to its table.
var sourceTables = map[domain.SourceType]string{
	domain.SourceSale:     "sales",
	domain.SourcePurchase: "purchases",
	domain.SourceExpense:  "expenses",
	domain.SourceIncome:   "incomes",
}

type PgxPendingTransactionRepository struct {
	pool *pgxpool.Pool
}

func newPgxPendingTransactionRepository(pool *pgxpool.Pool) portsrepo.PendingTransactionRepositoryFacade {
	return &PgxPendingTransactionRepository{pool: pool}
}

var _ portsrepo.PendingTransactionRepositoryFacade = (*PgxPendingTransactionRepository)(nil)

// listPendingQuery unions the source tables. Built once from sourceTables.
var listPendingQuery = buildListPendingQuery()

func buildListPendingQuery() string {
	parts := make([]string, 0, len(domain.SourceTypes))
	for _, st := range domain.SourceTypes {
		parts = append(parts, fmt.Sprintf(
			`SELECT '%s' AS source_type, id, contact_id, total_amount, paid_amount, txn_date, due_date
			FROM %s WHERE contact_id = $1 AND total_amount - paid_amount > 0`,
			st, sourceTables[st]))
	}
	return strings.Join(parts, "\nUNION ALL\n") +
		"\nORDER BY due_date ASC NULLS LAST, txn_date ASC, source_type ASC, id ASC;"
}

func scanSourceRow(row pgx.Row, m *models.SourceTransaction) error {
	return row.Scan(
		&m.SourceType,
		&m.SourceID,
		&m.ContactID,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.TxnDate,
		&m.DueDate,
	)
}

// ListPendingTransactions reads the outstanding source rows of a contact without locking.
func (r *PgxPendingTransactionRepository) ListPendingTransactions(ctx context.Context, contactID string) ([]domain.PendingTransaction, error) {
	rows, err := r.pool.Query(ctx, listPendingQuery, contactID)
	if err != nil {
		return nil, classifyError("failed to query pending transactions", err)
	}
	defer rows.Close()

	pending := []domain.PendingTransaction{}
	for rows.Next() {
		var m models.SourceTransaction
		if err := scanSourceRow(rows, &m); err != nil {
			return nil, classifyError("failed to scan pending transaction row", err)
		}
		pending = append(pending, mapping.ToDomainPendingTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("error iterating pending transaction rows", err)
	}
	return pending, nil
}

// groupRefs splits refs by table, skipping refs that do not name a table.
// Types come back in lock order.
func groupRefs(refs []domain.TransactionRef) ([]domain.SourceType, map[domain.SourceType][]string) {
	byType := make(map[domain.SourceType][]string)
	for _, ref := range refs {
		if _, ok := sourceTables[ref.SourceType]; !ok {
			continue
		}
		byType[ref.SourceType] = append(byType[ref.SourceType], ref.SourceID)
	}
	types := make([]domain.SourceType, 0, len(byType))
	for st, ids := range byType {
		sort.Strings(ids)
		types = append(types, st)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types, byType
}

// FindTransactionsForUpdate locks the referenced source rows, table by table in id order.
// Must be called within a transaction.
func (r *PgxPendingTransactionRepository) FindTransactionsForUpdate(ctx context.Context, tx pgx.Tx, refs []domain.TransactionRef) (map[domain.TransactionRef]domain.PendingTransaction, error) {
	found := make(map[domain.TransactionRef]domain.PendingTransaction, len(refs))
	types, byType := groupRefs(refs)

	for _, st := range types {
		query := fmt.Sprintf(`
			SELECT '%s' AS source_type, id, contact_id, total_amount, paid_amount, txn_date, due_date
			FROM %s
			WHERE id = ANY($1)
			ORDER BY id
			FOR UPDATE;
		`, st, sourceTables[st])

		if err := func() error {
			rows, err := tx.Query(ctx, query, byType[st])
			if err != nil {
				return classifyError("failed to lock "+sourceTables[st], err)
			}
			defer rows.Close()
			for rows.Next() {
				var m models.SourceTransaction
				if err := scanSourceRow(rows, &m); err != nil {
					return classifyError("failed to scan locked "+string(st)+" row", err)
				}
				p := mapping.ToDomainPendingTransaction(m)
				found[p.Ref] = p
			}
			if err := rows.Err(); err != nil {
				return classifyError("error iterating locked "+string(st)+" rows", err)
			}
			return nil
		}(); err != nil {
			return nil, err
		}
	}
	return found, nil
}

// UpdatePaidAmountsInTx adds each delta to paid_amount within a transaction.
func (r *PgxPendingTransactionRepository) UpdatePaidAmountsInTx(ctx context.Context, tx pgx.Tx, deltas map[domain.TransactionRef]decimal.Decimal, userID string, now time.Time) error {
	refs := make([]domain.TransactionRef, 0, len(deltas))
	for ref, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		if _, ok := sourceTables[ref.SourceType]; !ok {
			return fmt.Errorf("%w: %s does not name a source table", apperrors.ErrValidation, ref)
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return nil
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })

	batch := &pgx.Batch{}
	for _, ref := range refs {
		query := fmt.Sprintf(`
			UPDATE %s
			SET paid_amount = paid_amount + $2, last_updated_at = $3, last_updated_by = $4
			WHERE id = $1;
		`, sourceTables[ref.SourceType])
		batch.Queue(query, ref.SourceID, deltas[ref], now, userID)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for _, ref := range refs {
		ct, err := br.Exec()
		if batchErr != nil {
			continue
		}
		if err != nil {
			batchErr = classifyError("failed to update paid amount for "+ref.String(), err)
		} else if ct.RowsAffected() == 0 {
			batchErr = apperrors.NewNotFoundError(string(ref.SourceType), ref.SourceID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = classifyError("failed to close paid amount batch", err)
	}
	return batchErr
}
