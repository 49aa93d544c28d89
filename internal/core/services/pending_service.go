package services

import (
	"context"
	"iter"
	"log/slog"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
)

// pendingService lists outstanding obligations. It never locks.
type pendingService struct {
	BaseService
	contactRepo portsrepo.ContactReader
	pendingRepo portsrepo.PendingTransactionReader
}

// NewPendingService creates a new PendingResolverSvc.
func NewPendingService(contactRepo portsrepo.ContactReader, pendingRepo portsrepo.PendingTransactionReader) portssvc.PendingResolverSvc {
	return &pendingService{
		contactRepo: contactRepo,
		pendingRepo: pendingRepo,
	}
}

var _ portssvc.PendingResolverSvc = (*pendingService)(nil)

// Pending yields every source row with a positive pending amount, then the
// contact's carry-over item when its balance is positive. Nothing is read until
// the sequence is ranged over, and each range reads again.
func (s *pendingService) Pending(ctx context.Context, contactID string) iter.Seq2[domain.PendingTransaction, error] {
	return func(yield func(domain.PendingTransaction, error) bool) {
		contact, err := s.contactRepo.FindContactByID(ctx, contactID)
		if err != nil {
			yield(domain.PendingTransaction{}, err)
			return
		}

		rows, err := s.pendingRepo.ListPendingTransactions(ctx, contactID)
		if err != nil {
			s.LogError(ctx, err, "Failed to list pending transactions", slog.String("contact_id", contactID))
			yield(domain.PendingTransaction{}, err)
			return
		}
		for _, row := range rows {
			if !row.PendingAmount.IsPositive() {
				continue
			}
			if !yield(row, nil) {
				return
			}
		}

		if contact.BalanceAmount.IsPositive() {
			yield(domain.NewCurrentBalanceItem(*contact), nil)
		}
	}
}

// ResolvePending collects Pending into a slice.
func (s *pendingService) ResolvePending(ctx context.Context, contactID string) ([]domain.PendingTransaction, error) {
	items := []domain.PendingTransaction{}
	for item, err := range s.Pending(ctx, contactID) {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
