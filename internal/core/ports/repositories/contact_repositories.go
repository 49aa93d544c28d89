package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ContactReader defines read operations for contact data
type ContactReader interface {
	// FindContactByID retrieves a contact without locking it.
	FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error)
}

// ContactTransactionSupport defines operations that run inside a reconciliation transaction
type ContactTransactionSupport interface {
	// FindContactsByIDsForUpdate locks the contacts in id order and returns them.
	// Missing ids are simply absent from the map.
	FindContactsByIDsForUpdate(ctx context.Context, tx pgx.Tx, contactIDs []string) (map[string]domain.Contact, error)

	// UpdateContactBalancesInTx writes the balance magnitude and type of each contact.
	UpdateContactBalancesInTx(ctx context.Context, tx pgx.Tx, contacts []domain.Contact, userID string, now time.Time) error
}

// ContactRepositoryFacade combines all contact-related repository interfaces
type ContactRepositoryFacade interface {
	ContactReader
	ContactTransactionSupport
}
