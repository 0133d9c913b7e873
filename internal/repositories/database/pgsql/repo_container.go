package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		CustomerRepo:     newPgxCustomerRepository(dbPool),
		CompanyRepo:      newPgxCompanyRepository(dbPool),
		PaymentRepo:      newPgxPaymentRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
		TelegramChatRepo: newPgxTelegramChatRepository(dbPool),
	}
}
