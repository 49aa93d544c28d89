package services

import (
	"context"
	"iter"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// PendingResolverSvc lists the outstanding obligations of a contact.
// Reads take no locks and are never authoritative during reconciliation.
type PendingResolverSvc interface {
	// Pending returns a lazy sequence. Every range over it reads fresh state.
	Pending(ctx context.Context, contactID string) iter.Seq2[domain.PendingTransaction, error]

	// ResolvePending collects Pending into a slice.
	ResolvePending(ctx context.Context, contactID string) ([]domain.PendingTransaction, error)
}
