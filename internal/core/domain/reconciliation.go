package domain

// ReconciliationState is the lifecycle of one create, update or delete run.
type ReconciliationState string

const (
	StateDraft      ReconciliationState = "DRAFT"
	StateValidating ReconciliationState = "VALIDATING"
	StateApplying   ReconciliationState = "APPLYING"
	StateCommitted  ReconciliationState = "COMMITTED"
	StateRolledBack ReconciliationState = "ROLLED_BACK"
)

var reconciliationTransitions = map[ReconciliationState][]ReconciliationState{
	StateDraft:      {StateValidating, StateApplying, StateRolledBack},
	StateValidating: {StateApplying, StateRolledBack},
	StateApplying:   {StateCommitted, StateRolledBack},
}

// CanTransitionTo reports whether next is a legal successor of s.
// Delete skips validation, so Draft may move straight to Applying.
func (s ReconciliationState) CanTransitionTo(next ReconciliationState) bool {
	for _, allowed := range reconciliationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s ReconciliationState) IsTerminal() bool {
	return s == StateCommitted || s == StateRolledBack
}

// PaymentOperation names the orchestrated operation for logs and metrics.
type PaymentOperation string

const (
	OperationCreate PaymentOperation = "create"
	OperationUpdate PaymentOperation = "update"
	OperationDelete PaymentOperation = "delete"
)
