package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/models"
	"github.com/SscSPs/bookkeeping_app/internal/utils/mapping"
	"github.com/SscSPs/bookkeeping_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payments and their allocations.
func newPgxPaymentRepository(pool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.PaymentRepositoryWithTx {
	return &PgxPaymentRepository{
		BaseRepository: BaseRepository{Pool: pool, LockTimeout: lockTimeout},
	}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryWithTx
var _ portsrepo.PaymentRepositoryWithTx = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, contact_id, bank_account_id, payment_date, description,
	adjustment_type, adjustment_value, revision, deleted_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.ContactID,
		&m.BankAccountID,
		&m.PaymentDate,
		&m.Description,
		&m.AdjustmentType,
		&m.AdjustmentValue,
		&m.Revision,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// loadAllocations reads the allocation rows of the current revision of each payment.
func loadAllocations(ctx context.Context, q querier, paymentIDs []string) (map[string][]models.PaymentAllocation, error) {
	byPayment := make(map[string][]models.PaymentAllocation, len(paymentIDs))
	if len(paymentIDs) == 0 {
		return byPayment, nil
	}

	query := `
		SELECT a.allocation_id, a.payment_id, a.revision, a.line_no, a.source_type, a.source_id,
		       a.balance_type, a.amount, a.paid_amount, a.created_at
		FROM payment_allocations a
		JOIN payments p ON p.payment_id = a.payment_id AND p.revision = a.revision
		WHERE a.payment_id = ANY($1)
		ORDER BY a.payment_id, a.line_no;
	`
	rows, err := q.Query(ctx, query, paymentIDs)
	if err != nil {
		return nil, classifyError("failed to query payment allocations", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.PaymentAllocation
		if err := rows.Scan(
			&a.AllocationID,
			&a.PaymentID,
			&a.Revision,
			&a.LineNo,
			&a.SourceType,
			&a.SourceID,
			&a.BalanceType,
			&a.Amount,
			&a.PaidAmount,
			&a.CreatedAt,
		); err != nil {
			return nil, classifyError("failed to scan payment allocation row", err)
		}
		byPayment[a.PaymentID] = append(byPayment[a.PaymentID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("error iterating payment allocation rows", err)
	}
	return byPayment, nil
}

func (r *PgxPaymentRepository) findPayment(ctx context.Context, q querier, query, paymentID string) (*domain.Payment, error) {
	m, err := scanPayment(q.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment", paymentID)
		}
		return nil, classifyError("failed to find payment "+paymentID, err)
	}

	allocs, err := loadAllocations(ctx, q, []string{m.PaymentID})
	if err != nil {
		return nil, err
	}
	p := mapping.ToDomainPayment(m, allocs[m.PaymentID])
	return &p, nil
}

// FindPaymentByID retrieves a live payment with its current allocations.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 AND deleted_at IS NULL;`
	return r.findPayment(ctx, r.Pool, query, paymentID)
}

// FindPaymentByIDForUpdate locks a live payment row. Must be called within a transaction.
func (r *PgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 AND deleted_at IS NULL FOR UPDATE;`
	return r.findPayment(ctx, tx, query, paymentID)
}

func insertAllocations(ctx context.Context, tx pgx.Tx, p domain.Payment) error {
	rows := mapping.ToModelAllocations(p, uuid.NewString)
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO payment_allocations (
			allocation_id, payment_id, revision, line_no, source_type, source_id,
			balance_type, amount, paid_amount, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, a := range rows {
		batch.Queue(query,
			a.AllocationID,
			a.PaymentID,
			a.Revision,
			a.LineNo,
			a.SourceType,
			a.SourceID,
			a.BalanceType,
			a.Amount,
			a.PaidAmount,
			a.CreatedAt,
		)
	}
	// Close reports the first failing insert.
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return classifyError("failed to insert allocations for payment "+p.PaymentID, err)
	}
	return nil
}

// SavePaymentInTx inserts the payment header and its allocations.
func (r *PgxPaymentRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.PaymentID,
		m.ContactID,
		m.BankAccountID,
		m.PaymentDate,
		m.Description,
		m.AdjustmentType,
		m.AdjustmentValue,
		m.Revision,
		m.DeletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return classifyError("failed to insert payment "+m.PaymentID, err)
	}
	return insertAllocations(ctx, tx, payment)
}

// UpdatePaymentInTx rewrites the header for the new revision and appends its allocation rows.
// The stored revision must be exactly one behind.
func (r *PgxPaymentRepository) UpdatePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		UPDATE payments
		SET contact_id = $2, bank_account_id = $3, payment_date = $4, description = $5,
		    adjustment_type = $6, adjustment_value = $7, revision = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE payment_id = $1 AND revision = $8 - 1 AND deleted_at IS NULL;
	`
	ct, err := tx.Exec(ctx, query,
		m.PaymentID,
		m.ContactID,
		m.BankAccountID,
		m.PaymentDate,
		m.Description,
		m.AdjustmentType,
		m.AdjustmentValue,
		m.Revision,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return classifyError("failed to update payment "+m.PaymentID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewConcurrencyError("payment "+m.PaymentID+" changed underneath the update",
			fmt.Errorf("expected revision %d", m.Revision-1))
	}
	return insertAllocations(ctx, tx, payment)
}

// SoftDeletePaymentInTx flags the payment as deleted. Its allocation rows stay as history.
func (r *PgxPaymentRepository) SoftDeletePaymentInTx(ctx context.Context, tx pgx.Tx, paymentID string, userID string, now time.Time) error {
	query := `
		UPDATE payments
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE payment_id = $1 AND deleted_at IS NULL;
	`
	ct, err := tx.Exec(ctx, query, paymentID, now, userID)
	if err != nil {
		return classifyError("failed to delete payment "+paymentID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payment", paymentID)
	}
	return nil
}

// ListPaymentsByContact retrieves live payments of a contact, newest first.
func (r *PgxPaymentRepository) ListPaymentsByContact(ctx context.Context, contactID string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	limit = pagination.NormalizeLimit(limit)

	var (
		rows pgx.Rows
		err  error
	)
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		query := `SELECT ` + paymentColumns + `
			FROM payments
			WHERE contact_id = $1 AND deleted_at IS NULL
			  AND (payment_date, created_at, payment_id) < ($2, $3, $4)
			ORDER BY payment_date DESC, created_at DESC, payment_id DESC
			LIMIT $5;`
		rows, err = r.Pool.Query(ctx, query, contactID, cursor.Date, cursor.CreatedAt, cursor.ID, limit+1)
	} else {
		query := `SELECT ` + paymentColumns + `
			FROM payments
			WHERE contact_id = $1 AND deleted_at IS NULL
			ORDER BY payment_date DESC, created_at DESC, payment_id DESC
			LIMIT $2;`
		rows, err = r.Pool.Query(ctx, query, contactID, limit+1)
	}
	if err != nil {
		return nil, nil, classifyError("failed to list payments", err)
	}

	headers := make([]models.Payment, 0, limit+1)
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			rows.Close()
			return nil, nil, classifyError("failed to scan payment row", err)
		}
		headers = append(headers, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, classifyError("error iterating payment rows", err)
	}

	// One extra row was fetched to learn whether another page exists.
	var next *string
	if len(headers) > limit {
		headers = headers[:limit]
		last := headers[limit-1]
		token := pagination.EncodeCursor(pagination.Cursor{Date: last.PaymentDate, CreatedAt: last.CreatedAt, ID: last.PaymentID})
		next = &token
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.PaymentID
	}
	allocs, err := loadAllocations(ctx, r.Pool, ids)
	if err != nil {
		return nil, nil, err
	}

	payments := make([]domain.Payment, len(headers))
	for i, h := range headers {
		payments[i] = mapping.ToDomainPayment(h, allocs[h.PaymentID])
	}
	return payments, next, nil
}
