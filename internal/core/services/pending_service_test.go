package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock ContactReader ---
type MockContactReader struct {
	mock.Mock
}

var _ portsrepo.ContactReader = (*MockContactReader)(nil)

func (m *MockContactReader) FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

// --- Mock PendingTransactionReader ---
type MockPendingReader struct {
	mock.Mock
}

var _ portsrepo.PendingTransactionReader = (*MockPendingReader)(nil)

func (m *MockPendingReader) ListPendingTransactions(ctx context.Context, contactID string) ([]domain.PendingTransaction, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingTransaction), args.Error(1)
}

func pendingSale(id, total, paid string) domain.PendingTransaction {
	return domain.PendingTransaction{
		Ref:           domain.TransactionRef{SourceType: domain.SourceSale, SourceID: id},
		ContactID:     contactID,
		TotalAmount:   d(total),
		PaidAmount:    d(paid),
		PendingAmount: d(total).Sub(d(paid)),
		BalanceType:   domain.Receivable,
		Date:          time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolvePending_AppendsCurrentBalanceItem(t *testing.T) {
	ctx := context.Background()
	contacts := new(MockContactReader)
	pending := new(MockPendingReader)
	contact := &domain.Contact{ContactID: contactID, BalanceAmount: d("750"), BalanceType: domain.Receivable}

	contacts.On("FindContactByID", ctx, contactID).Return(contact, nil)
	pending.On("ListPendingTransactions", ctx, contactID).Return([]domain.PendingTransaction{
		pendingSale("s1", "500", "100"),
		pendingSale("s2", "350", "0"),
	}, nil)

	svc := services.NewPendingService(contacts, pending)
	items, err := svc.ResolvePending(ctx, contactID)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "s1", items[0].Ref.SourceID)
	assert.True(t, items[0].PendingAmount.Equal(d("400")))
	assert.Equal(t, domain.CurrentBalanceRef(contactID), items[2].Ref)
	assert.True(t, items[2].PendingAmount.Equal(d("750")))
	assert.Equal(t, domain.Receivable, items[2].BalanceType)
}

func TestResolvePending_IsIdempotentAndRestartable(t *testing.T) {
	ctx := context.Background()
	contacts := new(MockContactReader)
	pending := new(MockPendingReader)
	contact := &domain.Contact{ContactID: contactID, BalanceAmount: d("0"), BalanceType: domain.NoBalance}

	contacts.On("FindContactByID", ctx, contactID).Return(contact, nil)
	pending.On("ListPendingTransactions", ctx, contactID).Return([]domain.PendingTransaction{pendingSale("s1", "10", "0")}, nil)

	svc := services.NewPendingService(contacts, pending)
	first, err := svc.ResolvePending(ctx, contactID)
	require.NoError(t, err)
	second, err := svc.ResolvePending(ctx, contactID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 1, "no carry-over item for a settled contact")

	// Each range over the sequence reads again.
	seq := svc.Pending(ctx, contactID)
	for range seq {
	}
	for range seq {
	}
	pending.AssertNumberOfCalls(t, "ListPendingTransactions", 4)
}

func TestPending_IsLazyAndStopsEarly(t *testing.T) {
	ctx := context.Background()
	contacts := new(MockContactReader)
	pending := new(MockPendingReader)
	contact := &domain.Contact{ContactID: contactID, BalanceAmount: d("5"), BalanceType: domain.Payable}

	contacts.On("FindContactByID", ctx, contactID).Return(contact, nil)
	pending.On("ListPendingTransactions", ctx, contactID).Return([]domain.PendingTransaction{
		pendingSale("s1", "10", "0"),
		pendingSale("s2", "10", "0"),
	}, nil)

	svc := services.NewPendingService(contacts, pending)
	seq := svc.Pending(ctx, contactID)
	contacts.AssertNotCalled(t, "FindContactByID", ctx, contactID)

	var seen []string
	for item, err := range seq {
		require.NoError(t, err)
		seen = append(seen, item.Ref.SourceID)
		break
	}
	assert.Equal(t, []string{"s1"}, seen)
}

func TestResolvePending_UnknownContact(t *testing.T) {
	ctx := context.Background()
	contacts := new(MockContactReader)
	pending := new(MockPendingReader)

	contacts.On("FindContactByID", ctx, "nobody").Return(nil, apperrors.NewNotFoundError("contact", "nobody"))

	svc := services.NewPendingService(contacts, pending)
	_, err := svc.ResolvePending(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	pending.AssertNotCalled(t, "ListPendingTransactions", ctx, "nobody")
}

func TestResolvePending_SeesCommittedPayments(t *testing.T) {
	store := newMemStore()
	store.putContact(domain.Contact{ContactID: contactID, BalanceAmount: d("1000"), BalanceType: domain.Receivable})
	store.putSource(domain.PendingTransaction{Ref: saleRef, ContactID: contactID, TotalAmount: d("1000"), PaidAmount: d("0")})

	container := services.NewServiceContainer(store.provider())
	ctx := context.Background()

	before, err := container.Pending.ResolvePending(ctx, contactID)
	require.NoError(t, err)
	require.Len(t, before, 2)

	req := saleRequest("1000")
	req.BankAccountID = nil
	_, err = container.Payment.CreatePayment(ctx, req, testUserID)
	require.NoError(t, err)

	after, err := container.Pending.ResolvePending(ctx, contactID)
	require.NoError(t, err)
	assert.Empty(t, after)
}
