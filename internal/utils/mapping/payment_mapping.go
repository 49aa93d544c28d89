package mapping

import (
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/models"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
)

// ToModelPayment converts a domain Payment header to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:       d.PaymentID,
		ContactID:       d.ContactID,
		BankAccountID:   d.BankAccountID,
		PaymentDate:     d.PaymentDate,
		Description:     d.Description,
		AdjustmentType:  string(d.Adjustment.Type),
		AdjustmentValue: d.Adjustment.Value,
		Revision:        d.Revision,
		DeletedAt:       d.DeletedAt,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment combines a payment header with the allocation rows of its current revision.
func ToDomainPayment(m models.Payment, allocations []models.PaymentAllocation) domain.Payment {
	p := domain.Payment{
		PaymentID:     m.PaymentID,
		ContactID:     m.ContactID,
		BankAccountID: m.BankAccountID,
		PaymentDate:   m.PaymentDate,
		Description:   m.Description,
		Adjustment: domain.Adjustment{
			Type:  domain.AdjustmentType(m.AdjustmentType),
			Value: m.AdjustmentValue,
		},
		Revision:    m.Revision,
		DeletedAt:   m.DeletedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		Allocations: make([]domain.Allocation, 0, len(allocations)),
	}
	for _, a := range allocations {
		if a.Revision != m.Revision {
			continue
		}
		p.Allocations = append(p.Allocations, domain.Allocation{
			Transaction: domain.TransactionRef{SourceType: domain.SourceType(a.SourceType), SourceID: a.SourceID},
			BalanceType: domain.BalanceType(a.BalanceType),
			Amount:      a.Amount,
			PaidAmount:  a.PaidAmount,
		})
	}
	return p
}

// ToModelAllocations converts the allocations of a payment revision to rows.
// newID supplies row ids.
func ToModelAllocations(p domain.Payment, newID func() string) []models.PaymentAllocation {
	rows := make([]models.PaymentAllocation, len(p.Allocations))
	for i, a := range p.Allocations {
		rows[i] = models.PaymentAllocation{
			AllocationID: newID(),
			PaymentID:    p.PaymentID,
			Revision:     p.Revision,
			LineNo:       i + 1,
			SourceType:   string(a.Transaction.SourceType),
			SourceID:     a.Transaction.SourceID,
			BalanceType:  string(a.BalanceType),
			Amount:       a.Amount,
			PaidAmount:   a.PaidAmount,
			CreatedAt:    p.LastUpdatedAt,
		}
	}
	return rows
}

// ToProposedAllocations converts request allocations to validator input.
func ToProposedAllocations(reqs []dto.AllocationRequest) []accounting.ProposedAllocation {
	proposed := make([]accounting.ProposedAllocation, len(reqs))
	for i, r := range reqs {
		proposed[i] = accounting.ProposedAllocation{
			Transaction: domain.TransactionRef{SourceType: r.SourceType, SourceID: r.TransactionID},
			PaidAmount:  r.PaidAmount,
		}
	}
	return proposed
}

// ToAdjustment reads the adjustment of a request. An empty type means none.
func ToAdjustment(req dto.CreatePaymentRequest) domain.Adjustment {
	adj := domain.Adjustment{Type: req.AdjustmentType, Value: req.AdjustmentValue}
	if adj.Type == "" {
		adj.Type = domain.AdjustmentNone
	}
	return adj
}
