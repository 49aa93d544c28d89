package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationRequest is one allocation as sent by the caller.
// Identity travels as a structured source type and id pair.
type AllocationRequest struct {
	TransactionID string            `json:"transactionId" binding:"required"`
	SourceType    domain.SourceType `json:"sourceType" binding:"required,oneof=sale purchase expense income current_balance"`
	PaidAmount    decimal.Decimal   `json:"paidAmount" binding:"decimal2"`
}

// CreatePaymentRequest defines the data needed to record a payment.
// Allocations are not marked required so that an empty set reaches allocation validation.
type CreatePaymentRequest struct {
	ContactID       string                `json:"contactId" binding:"required"`
	BankAccountID   *string               `json:"bankAccountId,omitempty" binding:"omitempty,min=1"`
	PaymentDate     time.Time             `json:"date" binding:"required"`
	Description     *string               `json:"description,omitempty" binding:"omitempty,max=500"`
	AdjustmentType  domain.AdjustmentType `json:"adjustmentType" binding:"omitempty,oneof=none discount surcharge extra_receipt"`
	AdjustmentValue decimal.Decimal       `json:"adjustmentValue" binding:"decimal2"`
	Allocations     []AllocationRequest   `json:"allocations" binding:"dive"`
}

// UpdatePaymentRequest replaces a payment's header, adjustment and allocations.
type UpdatePaymentRequest CreatePaymentRequest

// AllocationResponse is one stored allocation.
type AllocationResponse struct {
	TransactionID string             `json:"transactionId"`
	SourceType    domain.SourceType  `json:"sourceType"`
	BalanceType   domain.BalanceType `json:"balanceType"`
	Amount        decimal.Decimal    `json:"amount"`
	PaidAmount    decimal.Decimal    `json:"paidAmount"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID       string                `json:"id"`
	ContactID       string                `json:"contactId"`
	BankAccountID   *string               `json:"bankAccountId,omitempty"`
	PaymentDate     time.Time             `json:"date"`
	Description     *string               `json:"description,omitempty"`
	AdjustmentType  domain.AdjustmentType `json:"adjustmentType"`
	AdjustmentValue decimal.Decimal       `json:"adjustmentValue"`
	Allocations     []AllocationResponse  `json:"allocations"`
	Revision        int                   `json:"revision"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy   string                `json:"lastUpdatedBy"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	allocations := make([]AllocationResponse, len(p.Allocations))
	for i, a := range p.Allocations {
		allocations[i] = AllocationResponse{
			TransactionID: a.Transaction.SourceID,
			SourceType:    a.Transaction.SourceType,
			BalanceType:   a.BalanceType,
			Amount:        a.Amount,
			PaidAmount:    a.PaidAmount,
		}
	}
	return PaymentResponse{
		PaymentID:       p.PaymentID,
		ContactID:       p.ContactID,
		BankAccountID:   p.BankAccountID,
		PaymentDate:     p.PaymentDate,
		Description:     p.Description,
		AdjustmentType:  p.Adjustment.Type,
		AdjustmentValue: p.Adjustment.Value,
		Allocations:     allocations,
		Revision:        p.Revision,
		CreatedAt:       p.CreatedAt,
		CreatedBy:       p.CreatedBy,
		LastUpdatedAt:   p.LastUpdatedAt,
		LastUpdatedBy:   p.LastUpdatedBy,
	}
}

// ListPaymentsParams defines parameters for listing payments of a contact.
type ListPaymentsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListPaymentsResponse wraps a page of payments.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}
