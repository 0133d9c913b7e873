package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/hazemq/billpay_backend/internal/core/domain"
)

// CustomerRepositoryFacade defines persistence operations for customers.
type CustomerRepositoryFacade interface {
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// FindCustomersByPhone returns every record on file for a phone number,
	// newest first.
	FindCustomersByPhone(ctx context.Context, phoneNumber string) ([]domain.Customer, error)

	ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) error
	DeleteCustomer(ctx context.Context, customerID string) error

	// UpsertCustomerByPhoneInTx inserts the customer if the phone number is
	// not on file, otherwise updates the mutable fields of the existing
	// record. Returns the customer ID either way.
	UpsertCustomerByPhoneInTx(ctx context.Context, tx pgx.Tx, customer domain.Customer) (string, error)
}
