package services

import (
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
	"github.com/hazemq/billpay_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo, notifier)
	container.Customer = NewCustomerService(repos.CustomerRepo, repos.CompanyRepo)
	container.Company = NewCompanyService(repos.CompanyRepo)
	container.Notification = NewNotificationService(repos.NotificationRepo)
	container.Payment = NewPaymentService(
		repos.UserRepo,
		repos.CustomerRepo,
		repos.CompanyRepo,
		repos.PaymentRepo,
		repos.NotificationRepo,
		notifier,
	)
	container.Token = NewTokenService(cfg)

	return container
}
