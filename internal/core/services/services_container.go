package services

import (
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, paymentOptions ...PaymentServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Pending: NewPendingService(repos.ContactRepo, repos.PendingRepo),
		Payment: NewPaymentService(repos, paymentOptions...),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.PaymentSvcFacade   = (*paymentService)(nil)
	_ portssvc.PendingResolverSvc = (*pendingService)(nil)
)
