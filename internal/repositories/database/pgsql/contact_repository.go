package pgsql

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/models"
	"github.com/SscSPs/bookkeeping_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxContactRepository struct {
	pool *pgxpool.Pool
}

// newPgxContactRepository creates a new repository for contact data.
func newPgxContactRepository(pool *pgxpool.Pool) portsrepo.ContactRepositoryFacade {
	return &PgxContactRepository{pool: pool}
}

// Ensure PgxContactRepository implements portsrepo.ContactRepositoryFacade
var _ portsrepo.ContactRepositoryFacade = (*PgxContactRepository)(nil)

const contactColumns = `contact_id, name, balance_amount, balance_type, created_at, created_by, last_updated_at, last_updated_by`

func scanContact(row pgx.Row) (models.Contact, error) {
	var m models.Contact
	err := row.Scan(
		&m.ContactID,
		&m.Name,
		&m.BalanceAmount,
		&m.BalanceType,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindContactByID retrieves a contact by its ID.
func (r *PgxContactRepository) FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = $1;`

	m, err := scanContact(r.pool.QueryRow(ctx, query, contactID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("contact", contactID)
		}
		return nil, classifyError("failed to find contact "+contactID, err)
	}
	c := mapping.ToDomainContact(m)
	return &c, nil
}

// FindContactsByIDsForUpdate locks the contacts in id order.
// Must be called within a transaction.
func (r *PgxContactRepository) FindContactsByIDsForUpdate(ctx context.Context, tx pgx.Tx, contactIDs []string) (map[string]domain.Contact, error) {
	if len(contactIDs) == 0 {
		return map[string]domain.Contact{}, nil
	}

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = ANY($1) ORDER BY contact_id FOR UPDATE;`

	rows, err := tx.Query(ctx, query, contactIDs)
	if err != nil {
		return nil, classifyError("failed to lock contacts", err)
	}
	defer rows.Close()

	contacts := make(map[string]domain.Contact, len(contactIDs))
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, classifyError("failed to scan locked contact row", err)
		}
		contacts[m.ContactID] = mapping.ToDomainContact(m)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("error iterating locked contact rows", err)
	}
	return contacts, nil
}

// UpdateContactBalancesInTx writes the new balance of each contact within a transaction.
func (r *PgxContactRepository) UpdateContactBalancesInTx(ctx context.Context, tx pgx.Tx, contacts []domain.Contact, userID string, now time.Time) error {
	if len(contacts) == 0 {
		return nil
	}

	ordered := make([]domain.Contact, len(contacts))
	copy(ordered, contacts)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ContactID < ordered[j].ContactID })

	query := `
		UPDATE contacts
		SET balance_amount = $2, balance_type = $3, last_updated_at = $4, last_updated_by = $5
		WHERE contact_id = $1;
	`
	batch := &pgx.Batch{}
	for _, c := range ordered {
		batch.Queue(query, c.ContactID, c.BalanceAmount, string(c.BalanceType), now, userID)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for _, c := range ordered {
		ct, err := br.Exec()
		if batchErr != nil {
			continue
		}
		if err != nil {
			batchErr = classifyError("failed to update balance for contact "+c.ContactID, err)
		} else if ct.RowsAffected() == 0 {
			batchErr = apperrors.NewNotFoundError("contact", c.ContactID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = classifyError("failed to close contact balance batch", err)
	}
	return batchErr
}
