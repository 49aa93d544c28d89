package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/platform/metrics"
)

// reconciliationRun tracks the state of one create, update or delete.
type reconciliationRun struct {
	op        domain.PaymentOperation
	state     domain.ReconciliationState
	paymentID string
	started   time.Time
	logger    *slog.Logger
	metrics   *metrics.Recorder
}

func newReconciliationRun(logger *slog.Logger, rec *metrics.Recorder, op domain.PaymentOperation, paymentID string) *reconciliationRun {
	return &reconciliationRun{
		op:        op,
		state:     domain.StateDraft,
		paymentID: paymentID,
		started:   time.Now(),
		logger:    logger,
		metrics:   rec,
	}
}

// transition moves the run to next. Terminal states are recorded in metrics.
func (r *reconciliationRun) transition(ctx context.Context, next domain.ReconciliationState) error {
	if !r.state.CanTransitionTo(next) {
		return fmt.Errorf("%w: illegal reconciliation transition %s -> %s", apperrors.ErrInternal, r.state, next)
	}
	r.logger.DebugContext(ctx, "reconciliation state changed",
		slog.String("operation", string(r.op)),
		slog.String("payment_id", r.paymentID),
		slog.String("from", string(r.state)),
		slog.String("to", string(next)))
	r.state = next
	if next.IsTerminal() {
		r.metrics.ObserveReconciliation(r.op, next, time.Since(r.started))
	}
	return nil
}

// fail moves the run to ROLLED_BACK and returns err unchanged.
func (r *reconciliationRun) fail(ctx context.Context, err error) error {
	if !r.state.IsTerminal() {
		_ = r.transition(ctx, domain.StateRolledBack)
	}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		r.metrics.ObserveValidationFailure(verr.Rule)
		r.logger.InfoContext(ctx, "payment rejected",
			slog.String("operation", string(r.op)),
			slog.String("payment_id", r.paymentID),
			slog.String("rule", string(verr.Rule)),
			slog.String("error", err.Error()))
		return err
	}
	r.logger.ErrorContext(ctx, "reconciliation rolled back",
		slog.String("operation", string(r.op)),
		slog.String("payment_id", r.paymentID),
		slog.String("error", err.Error()))
	return err
}

// commit records the COMMITTED state.
func (r *reconciliationRun) commit(ctx context.Context) error {
	if err := r.transition(ctx, domain.StateCommitted); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "reconciliation committed",
		slog.String("operation", string(r.op)),
		slog.String("payment_id", r.paymentID),
		slog.Duration("elapsed", time.Since(r.started)))
	return nil
}
