package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
)

// PaymentReaderSvc defines read operations for payment data
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a live payment.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a page of live payments for a contact.
	ListPayments(ctx context.Context, contactID string, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)
}

// PaymentWriterSvc defines the reconciliation operations. Each one runs in a
// single storage transaction and either commits fully or leaves no trace.
type PaymentWriterSvc interface {
	// CreatePayment validates and applies a new payment.
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, userID string) (*domain.Payment, error)

	// UpdatePayment reverts the stored effect of a payment and applies the new one in place.
	UpdatePayment(ctx context.Context, paymentID string, req dto.UpdatePaymentRequest, userID string) (*domain.Payment, error)

	// DeletePayment reverts the stored effect of a payment and soft-deletes it.
	DeletePayment(ctx context.Context, paymentID string, userID string) error
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
