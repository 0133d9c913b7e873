package services

import (
	"context"

	"github.com/hazemq/billpay_backend/internal/core/domain"
	"github.com/hazemq/billpay_backend/internal/dto"
)

// CustomerSvcFacade defines operations on customer reference data.
type CustomerSvcFacade interface {
	// InquireByPhone returns every customer record for a phone number, newest
	// first. An empty slice is a valid "not found" answer, not an error.
	InquireByPhone(ctx context.Context, phoneNumber string) ([]domain.Customer, error)

	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, params dto.ListCustomersParams) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, updaterUserID string) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string, actor *domain.User) error
}
