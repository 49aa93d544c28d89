package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PendingTransactionResponse is one outstanding obligation of a contact.
type PendingTransactionResponse struct {
	TransactionID string             `json:"id"`
	SourceType    domain.SourceType  `json:"sourceType"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	PaidAmount    decimal.Decimal    `json:"paidAmount"`
	PendingAmount decimal.Decimal    `json:"pendingAmount"`
	BalanceType   domain.BalanceType `json:"balanceType"`
	Date          time.Time          `json:"date"`
	DueDate       *time.Time         `json:"dueDate,omitempty"`
}

// ListPendingResponse wraps the outstanding obligations of a contact.
type ListPendingResponse struct {
	ContactID    string                       `json:"contactId"`
	Transactions []PendingTransactionResponse `json:"transactions"`
}

// ToPendingTransactionResponses converts resolver output to response DTOs.
func ToPendingTransactionResponses(items []domain.PendingTransaction) []PendingTransactionResponse {
	responses := make([]PendingTransactionResponse, len(items))
	for i, item := range items {
		responses[i] = PendingTransactionResponse{
			TransactionID: item.Ref.SourceID,
			SourceType:    item.Ref.SourceType,
			TotalAmount:   item.TotalAmount,
			PaidAmount:    item.PaidAmount,
			PendingAmount: item.PendingAmount,
			BalanceType:   item.BalanceType,
			Date:          item.Date,
			DueDate:       item.DueDate,
		}
	}
	return responses
}
