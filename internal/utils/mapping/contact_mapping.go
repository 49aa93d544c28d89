package mapping

import (
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/models"
)

// ToDomainContact converts a model Contact to a domain Contact
func ToDomainContact(m models.Contact) domain.Contact {
	return domain.Contact{
		ContactID:     m.ContactID,
		Name:          m.Name,
		BalanceAmount: m.BalanceAmount,
		BalanceType:   domain.BalanceType(m.BalanceType),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:  m.BankAccountID,
		Name:           m.Name,
		CurrentBalance: m.CurrentBalance,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPendingTransaction converts a source row to the resolver read model.
func ToDomainPendingTransaction(m models.SourceTransaction) domain.PendingTransaction {
	st := domain.SourceType(m.SourceType)
	return domain.PendingTransaction{
		Ref:           domain.TransactionRef{SourceType: st, SourceID: m.SourceID},
		ContactID:     m.ContactID,
		TotalAmount:   m.TotalAmount,
		PaidAmount:    m.PaidAmount,
		PendingAmount: m.TotalAmount.Sub(m.PaidAmount),
		BalanceType:   st.BalanceType(),
		Date:          m.TxnDate,
		DueDate:       m.DueDate,
	}
}
