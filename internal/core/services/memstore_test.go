package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the Postgres repositories.
// Row locks are held by a transaction until Commit or Rollback; writes are
// staged on the transaction and only become visible on Commit.
type memStore struct {
	mu       sync.Mutex
	locks    map[string]chan struct{}
	contacts map[string]domain.Contact
	banks    map[string]domain.BankAccount
	sources  map[domain.TransactionRef]domain.PendingTransaction
	payments map[string]domain.Payment
	history  map[string][]domain.Payment

	lockTimeout time.Duration
	failOn      map[string]error
	lockOrder   []string
}

func newMemStore() *memStore {
	return &memStore{
		locks:       make(map[string]chan struct{}),
		contacts:    make(map[string]domain.Contact),
		banks:       make(map[string]domain.BankAccount),
		sources:     make(map[domain.TransactionRef]domain.PendingTransaction),
		payments:    make(map[string]domain.Payment),
		history:     make(map[string][]domain.Payment),
		lockTimeout: time.Second,
		failOn:      make(map[string]error),
	}
}

func (s *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ContactRepo:     s,
		BankAccountRepo: s,
		PendingRepo:     s,
		PaymentRepo:     s,
	}
}

var (
	_ portsrepo.ContactRepositoryFacade            = (*memStore)(nil)
	_ portsrepo.BankAccountRepositoryFacade        = (*memStore)(nil)
	_ portsrepo.PendingTransactionRepositoryFacade = (*memStore)(nil)
	_ portsrepo.PaymentRepositoryWithTx            = (*memStore)(nil)
)

// --- seeding and inspection ---

func (s *memStore) putContact(c domain.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[c.ContactID] = c
}

func (s *memStore) putBank(b domain.BankAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks[b.BankAccountID] = b
}

func (s *memStore) putSource(p domain.PendingTransaction) {
	p.PendingAmount = p.TotalAmount.Sub(p.PaidAmount)
	p.BalanceType = p.Ref.SourceType.BalanceType()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[p.Ref] = p
}

func (s *memStore) contact(id string) domain.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contacts[id]
}

func (s *memStore) bank(id string) domain.BankAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banks[id]
}

func (s *memStore) source(ref domain.TransactionRef) domain.PendingTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sources[ref]
}

func (s *memStore) paymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func (s *memStore) stored(id string) (domain.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	return p, ok
}

func (s *memStore) revisions(id string) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Payment(nil), s.history[id]...)
}

func (s *memStore) failWith(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[method] = err
}

func (s *memStore) fail(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failOn[method]
}

func (s *memStore) locksTaken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lockOrder...)
}

// --- transactions ---

// memTx embeds a nil pgx.Tx; the services only pass it back to the store.
type memTx struct {
	pgx.Tx
	id       int
	held     []string
	done     bool
	contacts map[string]domain.Contact
	bankAdd  map[string]decimal.Decimal
	paidAdd  map[domain.TransactionRef]decimal.Decimal
	payments map[string]domain.Payment
}

var txSeq struct {
	sync.Mutex
	n int
}

func asMemTx(tx pgx.Tx) *memTx {
	return tx.(*memTx)
}

func (s *memStore) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := s.fail("Begin"); err != nil {
		return nil, err
	}
	txSeq.Lock()
	txSeq.n++
	id := txSeq.n
	txSeq.Unlock()
	return &memTx{
		id:       id,
		contacts: make(map[string]domain.Contact),
		bankAdd:  make(map[string]decimal.Decimal),
		paidAdd:  make(map[domain.TransactionRef]decimal.Decimal),
		payments: make(map[string]domain.Payment),
	}, nil
}

func (s *memStore) Commit(ctx context.Context, tx pgx.Tx) error {
	t := asMemTx(tx)
	if t.done {
		return pgx.ErrTxClosed
	}
	if err := s.fail("Commit"); err != nil {
		return err
	}

	s.mu.Lock()
	for id, c := range t.contacts {
		s.contacts[id] = c
	}
	for id, delta := range t.bankAdd {
		b := s.banks[id]
		b.CurrentBalance = b.CurrentBalance.Add(delta)
		s.banks[id] = b
	}
	for ref, delta := range t.paidAdd {
		row := s.sources[ref]
		row.PaidAmount = row.PaidAmount.Add(delta)
		row.PendingAmount = row.TotalAmount.Sub(row.PaidAmount)
		s.sources[ref] = row
	}
	for id, p := range t.payments {
		s.payments[id] = p
		s.history[id] = append(s.history[id], p)
	}
	s.mu.Unlock()

	t.done = true
	s.release(t)
	return nil
}

func (s *memStore) Rollback(ctx context.Context, tx pgx.Tx) error {
	t := asMemTx(tx)
	if t.done {
		return nil
	}
	t.done = true
	s.release(t)
	return nil
}

func (s *memStore) lock(ctx context.Context, tx pgx.Tx, key string) error {
	t := asMemTx(tx)
	for _, h := range t.held {
		if h == key {
			return nil
		}
	}

	s.mu.Lock()
	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}
	s.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-time.After(s.lockTimeout):
		return apperrors.NewConcurrencyError("lock wait timeout on "+key, fmt.Errorf("tx %d", t.id))
	case <-ctx.Done():
		return apperrors.NewStorageError("lock wait cancelled", ctx.Err())
	}

	t.held = append(t.held, key)
	s.mu.Lock()
	s.lockOrder = append(s.lockOrder, key)
	s.mu.Unlock()
	return nil
}

func (s *memStore) release(t *memTx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range t.held {
		<-s.locks[key]
	}
	t.held = nil
}

// --- contacts ---

func (s *memStore) FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[contactID]
	if !ok {
		return nil, apperrors.NewNotFoundError("contact", contactID)
	}
	return &c, nil
}

func (s *memStore) FindContactsByIDsForUpdate(ctx context.Context, tx pgx.Tx, contactIDs []string) (map[string]domain.Contact, error) {
	ids := append([]string(nil), contactIDs...)
	sort.Strings(ids)
	found := make(map[string]domain.Contact, len(ids))
	for _, id := range ids {
		if err := s.lock(ctx, tx, "contact:"+id); err != nil {
			return nil, err
		}
		s.mu.Lock()
		c, ok := s.contacts[id]
		s.mu.Unlock()
		if ok {
			found[id] = c
		}
	}
	return found, nil
}

func (s *memStore) UpdateContactBalancesInTx(ctx context.Context, tx pgx.Tx, contacts []domain.Contact, userID string, now time.Time) error {
	if err := s.fail("UpdateContactBalancesInTx"); err != nil {
		return err
	}
	t := asMemTx(tx)
	for _, c := range contacts {
		c.LastUpdatedAt = now
		c.LastUpdatedBy = userID
		t.contacts[c.ContactID] = c
	}
	return nil
}

// --- bank accounts ---

func (s *memStore) FindBankAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, bankAccountIDs []string) (map[string]domain.BankAccount, error) {
	ids := append([]string(nil), bankAccountIDs...)
	sort.Strings(ids)
	found := make(map[string]domain.BankAccount, len(ids))
	for _, id := range ids {
		if err := s.lock(ctx, tx, "bank:"+id); err != nil {
			return nil, err
		}
		s.mu.Lock()
		b, ok := s.banks[id]
		s.mu.Unlock()
		if ok {
			found[id] = b
		}
	}
	return found, nil
}

func (s *memStore) UpdateBankAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if err := s.fail("UpdateBankAccountBalancesInTx"); err != nil {
		return err
	}
	t := asMemTx(tx)
	for id, delta := range balanceChanges {
		if delta.IsZero() {
			continue
		}
		s.mu.Lock()
		_, ok := s.banks[id]
		s.mu.Unlock()
		if !ok {
			return apperrors.NewNotFoundError("bank account", id)
		}
		t.bankAdd[id] = t.bankAdd[id].Add(delta)
	}
	return nil
}

// --- source rows ---

func (s *memStore) ListPendingTransactions(ctx context.Context, contactID string) ([]domain.PendingTransaction, error) {
	if err := s.fail("ListPendingTransactions"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.PendingTransaction{}
	for _, row := range s.sources {
		if row.ContactID == contactID && row.PendingAmount.IsPositive() {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref.Less(out[j].Ref) })
	return out, nil
}

func (s *memStore) FindTransactionsForUpdate(ctx context.Context, tx pgx.Tx, refs []domain.TransactionRef) (map[domain.TransactionRef]domain.PendingTransaction, error) {
	ordered := append([]domain.TransactionRef(nil), refs...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Less(ordered[j]) })
	found := make(map[domain.TransactionRef]domain.PendingTransaction, len(ordered))
	for _, ref := range ordered {
		if err := s.lock(ctx, tx, "source:"+ref.String()); err != nil {
			return nil, err
		}
		s.mu.Lock()
		row, ok := s.sources[ref]
		s.mu.Unlock()
		if ok {
			found[ref] = row
		}
	}
	return found, nil
}

func (s *memStore) UpdatePaidAmountsInTx(ctx context.Context, tx pgx.Tx, deltas map[domain.TransactionRef]decimal.Decimal, userID string, now time.Time) error {
	if err := s.fail("UpdatePaidAmountsInTx"); err != nil {
		return err
	}
	t := asMemTx(tx)
	for ref, delta := range deltas {
		s.mu.Lock()
		row, ok := s.sources[ref]
		s.mu.Unlock()
		if !ok {
			return apperrors.NewNotFoundError(string(ref.SourceType), ref.SourceID)
		}
		paid := row.PaidAmount.Add(t.paidAdd[ref]).Add(delta)
		if paid.IsNegative() || paid.GreaterThan(row.TotalAmount) {
			return apperrors.NewStorageError("paid_amount check violated for "+ref.String(), fmt.Errorf("paid %s total %s", paid, row.TotalAmount))
		}
		t.paidAdd[ref] = t.paidAdd[ref].Add(delta)
	}
	return nil
}

// --- payments ---

func (s *memStore) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok || p.IsDeleted() {
		return nil, apperrors.NewNotFoundError("payment", paymentID)
	}
	return &p, nil
}

func (s *memStore) ListPaymentsByContact(ctx context.Context, contactID string, limit int, nextToken *string) ([]domain.Payment, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Payment{}
	for _, p := range s.payments {
		if p.ContactID == contactID && !p.IsDeleted() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentID > out[j].PaymentID })
	if limit > 0 && len(out) > limit {
		last := out[limit-1].PaymentID
		return out[:limit], &last, nil
	}
	return out, nil, nil
}

func (s *memStore) FindPaymentByIDForUpdate(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Payment, error) {
	if err := s.lock(ctx, tx, "payment:"+paymentID); err != nil {
		return nil, err
	}
	return s.FindPaymentByID(ctx, paymentID)
}

func (s *memStore) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	if err := s.fail("SavePaymentInTx"); err != nil {
		return err
	}
	s.mu.Lock()
	_, exists := s.payments[payment.PaymentID]
	s.mu.Unlock()
	if exists {
		return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, payment.PaymentID)
	}
	asMemTx(tx).payments[payment.PaymentID] = payment
	return nil
}

func (s *memStore) UpdatePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	if err := s.fail("UpdatePaymentInTx"); err != nil {
		return err
	}
	s.mu.Lock()
	current, ok := s.payments[payment.PaymentID]
	s.mu.Unlock()
	if !ok || current.IsDeleted() {
		return apperrors.NewNotFoundError("payment", payment.PaymentID)
	}
	if current.Revision != payment.Revision-1 {
		return apperrors.NewConcurrencyError("stale revision", fmt.Errorf("have %d", current.Revision))
	}
	asMemTx(tx).payments[payment.PaymentID] = payment
	return nil
}

func (s *memStore) SoftDeletePaymentInTx(ctx context.Context, tx pgx.Tx, paymentID string, userID string, now time.Time) error {
	if err := s.fail("SoftDeletePaymentInTx"); err != nil {
		return err
	}
	s.mu.Lock()
	p, ok := s.payments[paymentID]
	s.mu.Unlock()
	if !ok || p.IsDeleted() {
		return apperrors.NewNotFoundError("payment", paymentID)
	}
	deletedAt := now
	p.DeletedAt = &deletedAt
	p.LastUpdatedAt = now
	p.LastUpdatedBy = userID
	asMemTx(tx).payments[paymentID] = p
	return nil
}
