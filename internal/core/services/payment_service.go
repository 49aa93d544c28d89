package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/platform/metrics"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/SscSPs/bookkeeping_app/internal/utils/mapping"
)

// paymentService orchestrates payment reconciliation.
// Every write runs in one transaction: lock, validate, apply, persist, commit.
type paymentService struct {
	BaseService
	contactRepo portsrepo.ContactRepositoryFacade
	bankRepo    portsrepo.BankAccountRepositoryFacade
	pendingRepo portsrepo.PendingTransactionRepositoryFacade
	paymentRepo portsrepo.PaymentRepositoryWithTx

	metrics *metrics.Recorder
	now     func() time.Time
	newID   func() string
}

// PaymentServiceOption is a functional option for configuring the payment service
type PaymentServiceOption func(*paymentService)

// WithPaymentMetrics records reconciliation outcomes on rec.
func WithPaymentMetrics(rec *metrics.Recorder) PaymentServiceOption {
	return func(s *paymentService) {
		s.metrics = rec
	}
}

// WithClock overrides the time source used for audit fields.
func WithClock(now func() time.Time) PaymentServiceOption {
	return func(s *paymentService) {
		s.now = now
	}
}

// WithIDGenerator overrides how payment ids are generated.
func WithIDGenerator(newID func() string) PaymentServiceOption {
	return func(s *paymentService) {
		s.newID = newID
	}
}

// NewPaymentService creates a new payment service with the provided options
func NewPaymentService(repos portsrepo.RepositoryProvider, options ...PaymentServiceOption) portssvc.PaymentSvcFacade {
	svc := &paymentService{
		contactRepo: repos.ContactRepo,
		bankRepo:    repos.BankAccountRepo,
		pendingRepo: repos.PendingRepo,
		paymentRepo: repos.PaymentRepo,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// lockedParties holds the rows locked at the start of a reconciliation.
type lockedParties struct {
	contacts map[string]domain.Contact
	banks    map[string]domain.BankAccount
	sources  map[domain.TransactionRef]domain.PendingTransaction
}

// lockParties locks contacts, then bank accounts, then source rows. Each
// repository call locks in id order, so every operation acquires locks in
// the same global order.
func (s *paymentService) lockParties(ctx context.Context, tx pgx.Tx, contactIDs, bankIDs []string, refs []domain.TransactionRef) (*lockedParties, error) {
	contacts, err := s.contactRepo.FindContactsByIDsForUpdate(ctx, tx, uniqueSorted(contactIDs))
	if err != nil {
		return nil, err
	}
	banks, err := s.bankRepo.FindBankAccountsByIDsForUpdate(ctx, tx, uniqueSorted(bankIDs))
	if err != nil {
		return nil, err
	}
	sources, err := s.pendingRepo.FindTransactionsForUpdate(ctx, tx, sourceRefs(refs))
	if err != nil {
		return nil, err
	}
	return &lockedParties{contacts: contacts, banks: banks, sources: sources}, nil
}

func (l *lockedParties) contact(id string) (domain.Contact, error) {
	c, ok := l.contacts[id]
	if !ok {
		return domain.Contact{}, apperrors.NewNotFoundError("contact", id)
	}
	return c, nil
}

func (l *lockedParties) requireBank(id *string) error {
	if id == nil {
		return nil
	}
	if _, ok := l.banks[*id]; !ok {
		return apperrors.NewNotFoundError("bank account", *id)
	}
	return nil
}

// buildCeilings resolves each proposed allocation against the locked state.
// Rows owned by another contact get no ceiling. prior is nil for a new payment.
func buildCeilings(proposed []accounting.ProposedAllocation, contact domain.Contact, sources map[domain.TransactionRef]domain.PendingTransaction, prior map[domain.TransactionRef]domain.Allocation) map[domain.TransactionRef]accounting.Ceiling {
	ceilings := make(map[domain.TransactionRef]accounting.Ceiling, len(proposed))
	for _, p := range proposed {
		ref := p.Transaction
		var ceiling accounting.Ceiling
		if ref.IsCurrentBalance() {
			if ref.SourceID == contact.ContactID {
				item := domain.NewCurrentBalanceItem(contact)
				ceiling.Transaction = &item
			}
		} else if row, ok := sources[ref]; ok && row.ContactID == contact.ContactID {
			ceiling.Transaction = &row
		}
		if a, ok := prior[ref]; ok {
			ceiling.Prior = &a
		}
		ceilings[ref] = ceiling
	}
	return ceilings
}

// applyEffects applies the effects in order to the locked contacts and bank accounts
// and writes the results. bankIDs pairs each effect with its bank account, if any.
func (s *paymentService) applyEffects(ctx context.Context, tx pgx.Tx, locked *lockedParties, contactIDs []string, bankIDs []*string, effects []accounting.LedgerEffect, userID string, now time.Time) error {
	touched := make(map[string]domain.Contact)
	bankDeltas := make(map[string]decimal.Decimal)

	for i, effect := range effects {
		id := contactIDs[i]
		c, ok := touched[id]
		if !ok {
			var err error
			if c, err = locked.contact(id); err != nil {
				return err
			}
		}
		touched[id] = accounting.ApplyToContact(c, effect)

		if bankID := bankIDs[i]; bankID != nil {
			bankDeltas[*bankID] = bankDeltas[*bankID].Add(effect.BankDelta)
		}
	}

	updated := make([]domain.Contact, 0, len(touched))
	for _, c := range touched {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: contact %s: %v", apperrors.ErrInternal, c.ContactID, err)
		}
		updated = append(updated, c)
	}
	sort.Slice(updated, func(i, j int) bool { return updated[i].ContactID < updated[j].ContactID })

	if err := s.contactRepo.UpdateContactBalancesInTx(ctx, tx, updated, userID, now); err != nil {
		return err
	}
	if err := s.bankRepo.UpdateBankAccountBalancesInTx(ctx, tx, bankDeltas, userID, now); err != nil {
		return err
	}
	return s.pendingRepo.UpdatePaidAmountsInTx(ctx, tx, accounting.MergeSourcePaid(effects...), userID, now)
}

// abort rolls the transaction back and marks the run ROLLED_BACK.
func (s *paymentService) abort(ctx context.Context, run *reconciliationRun, tx pgx.Tx, err error) error {
	if rbErr := s.paymentRepo.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
		s.LogError(ctx, rbErr, "Failed to roll back reconciliation transaction")
	}
	return run.fail(ctx, err)
}

// CreatePayment validates and applies a new payment.
func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, error) {
	paymentID := s.newID()
	run := newReconciliationRun(s.GetLogger(ctx), s.metrics, domain.OperationCreate, paymentID)

	adj := mapping.ToAdjustment(req)
	proposed := mapping.ToProposedAllocations(req.Allocations)

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, run.fail(ctx, err)
	}

	locked, err := s.lockParties(ctx, tx, []string{req.ContactID}, optionalIDs(req.BankAccountID), proposedRefs(proposed))
	if err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	contact, err := locked.contact(req.ContactID)
	if err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	if err := locked.requireBank(req.BankAccountID); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}

	if err := run.transition(ctx, domain.StateValidating); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	validated, err := accounting.ValidateAllocations(proposed, buildCeilings(proposed, contact, locked.sources, nil), adj)
	if err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}

	// Cancellation up to here is a plain rollback.
	if err := ctx.Err(); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	if err := run.transition(ctx, domain.StateApplying); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	applyCtx := context.WithoutCancel(ctx)

	now := s.now()
	effect := accounting.ComputeEffect(validated, adj)
	if err := s.applyEffects(applyCtx, tx, locked,
		[]string{req.ContactID}, []*string{req.BankAccountID},
		[]accounting.LedgerEffect{effect}, userID, now); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}

	payment := domain.Payment{
		PaymentID:     paymentID,
		ContactID:     req.ContactID,
		BankAccountID: req.BankAccountID,
		PaymentDate:   req.PaymentDate,
		Description:   req.Description,
		Adjustment:    adj,
		Allocations:   validated,
		Revision:      1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.paymentRepo.SavePaymentInTx(applyCtx, tx, payment); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	if err := s.paymentRepo.Commit(applyCtx, tx); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	if err := run.commit(ctx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Payment created",
		slog.String("payment_id", paymentID),
		slog.String("contact_id", req.ContactID),
		slog.String("contact_delta", effect.ContactDelta.String()),
		slog.String("bank_delta", effect.BankDelta.String()))
	return &payment, nil
}

// UpdatePayment reverts the stored effect of a payment and applies the new one in place.
func (s *paymentService) UpdatePayment(ctx context.Context, paymentID string, req dto.UpdatePaymentRequest, userID string) (*domain.Payment, error) {
	run := newReconciliationRun(s.GetLogger(ctx), s.metrics, domain.OperationUpdate, paymentID)

	createReq := dto.CreatePaymentRequest(req)
	adj := mapping.ToAdjustment(createReq)
	proposed := mapping.ToProposedAllocations(createReq.Allocations)

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, run.fail(ctx, err)
	}

	existing, err := s.paymentRepo.FindPaymentByIDForUpdate(ctx, tx, paymentID)
	if err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}

	refs := append(allocationRefs(existing.Allocations), proposedRefs(proposed)...)
	bankIDs := append(optionalIDs(existing.BankAccountID), optionalIDs(req.BankAccountID)...)
	locked, err := s.lockParties(ctx, tx, []string{existing.ContactID, req.ContactID}, bankIDs, refs)
	if err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	contact, err := locked.contact(req.ContactID)
	if err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	if err := locked.requireBank(req.BankAccountID); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}

	// What this payment consumed only extends the ceiling when it stays with the same contact.
	var prior map[domain.TransactionRef]domain.Allocation
	if existing.ContactID == req.ContactID {
		prior = existing.PriorAllocations()
	}

	if err := run.transition(ctx, domain.StateValidating); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	validated, err := accounting.ValidateAllocations(proposed, buildCeilings(proposed, contact, locked.sources, prior), adj)
	if err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	if err := run.transition(ctx, domain.StateApplying); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	applyCtx := context.WithoutCancel(ctx)

	now := s.now()
	reversal := accounting.ReverseEffect(*existing)
	effect := accounting.ComputeEffect(validated, adj)
	if err := s.applyEffects(applyCtx, tx, locked,
		[]string{existing.ContactID, req.ContactID},
		[]*string{existing.BankAccountID, req.BankAccountID},
		[]accounting.LedgerEffect{reversal, effect}, userID, now); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}

	payment := domain.Payment{
		PaymentID:     existing.PaymentID,
		ContactID:     req.ContactID,
		BankAccountID: req.BankAccountID,
		PaymentDate:   req.PaymentDate,
		Description:   req.Description,
		Adjustment:    adj,
		Allocations:   validated,
		Revision:      existing.Revision + 1,
		AuditFields: domain.AuditFields{
			CreatedAt:     existing.CreatedAt,
			CreatedBy:     existing.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.paymentRepo.UpdatePaymentInTx(applyCtx, tx, payment); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	if err := s.paymentRepo.Commit(applyCtx, tx); err != nil {
		return nil, s.abort(ctx, run, tx, err)
	}
	if err := run.commit(ctx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Payment updated",
		slog.String("payment_id", paymentID),
		slog.Int("revision", payment.Revision))
	return &payment, nil
}

// DeletePayment reverts the stored effect of a payment and soft-deletes it.
func (s *paymentService) DeletePayment(ctx context.Context, paymentID string, userID string) error {
	run := newReconciliationRun(s.GetLogger(ctx), s.metrics, domain.OperationDelete, paymentID)

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return run.fail(ctx, err)
	}

	existing, err := s.paymentRepo.FindPaymentByIDForUpdate(ctx, tx, paymentID)
	if err != nil {
		return s.abort(ctx, run, tx, err)
	}
	locked, err := s.lockParties(ctx, tx, []string{existing.ContactID}, optionalIDs(existing.BankAccountID), allocationRefs(existing.Allocations))
	if err != nil {
		return s.abort(ctx, run, tx, err)
	}

	if err := ctx.Err(); err != nil {
		return s.abort(ctx, run, tx, err)
	}
	// Nothing to validate: the stored effect is reverted as recorded.
	if err := run.transition(ctx, domain.StateApplying); err != nil {
		return s.abort(ctx, run, tx, err)
	}
	applyCtx := context.WithoutCancel(ctx)

	now := s.now()
	if err := s.applyEffects(applyCtx, tx, locked,
		[]string{existing.ContactID}, []*string{existing.BankAccountID},
		[]accounting.LedgerEffect{accounting.ReverseEffect(*existing)}, userID, now); err != nil {
		return s.abort(ctx, run, tx, err)
	}
	if err := s.paymentRepo.SoftDeletePaymentInTx(applyCtx, tx, paymentID, userID, now); err != nil {
		return s.abort(ctx, run, tx, err)
	}
	if err := s.paymentRepo.Commit(applyCtx, tx); err != nil {
		return s.abort(ctx, run, tx, err)
	}
	if err := run.commit(ctx); err != nil {
		return err
	}

	s.LogInfo(ctx, "Payment deleted", slog.String("payment_id", paymentID))
	return nil
}

// GetPaymentByID retrieves a live payment.
func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		s.LogDebug(ctx, "Payment lookup failed", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		return nil, err
	}
	return payment, nil
}

// ListPayments retrieves a page of live payments for a contact.
func (s *paymentService) ListPayments(ctx context.Context, contactID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	if _, err := s.contactRepo.FindContactByID(ctx, contactID); err != nil {
		return nil, err
	}

	payments, nextToken, err := s.paymentRepo.ListPaymentsByContact(ctx, contactID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("contact_id", contactID))
		return nil, err
	}

	resp := &dto.ListPaymentsResponse{
		Payments:  make([]dto.PaymentResponse, len(payments)),
		NextToken: nextToken,
	}
	for i := range payments {
		resp.Payments[i] = dto.ToPaymentResponse(&payments[i])
	}
	return resp, nil
}

func optionalIDs(id *string) []string {
	if id == nil {
		return nil
	}
	return []string{*id}
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func proposedRefs(proposed []accounting.ProposedAllocation) []domain.TransactionRef {
	refs := make([]domain.TransactionRef, len(proposed))
	for i, p := range proposed {
		refs[i] = p.Transaction
	}
	return refs
}

func allocationRefs(allocs []domain.Allocation) []domain.TransactionRef {
	refs := make([]domain.TransactionRef, len(allocs))
	for i, a := range allocs {
		refs[i] = a.Transaction
	}
	return refs
}

// sourceRefs keeps row-backed refs, deduplicated and in lock order.
func sourceRefs(refs []domain.TransactionRef) []domain.TransactionRef {
	seen := make(map[domain.TransactionRef]struct{}, len(refs))
	out := make([]domain.TransactionRef, 0, len(refs))
	for _, ref := range refs {
		if ref.IsCurrentBalance() || !ref.SourceType.IsValid() {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
