package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	"github.com/hazemq/billpay_backend/internal/core/domain"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
	"github.com/hazemq/billpay_backend/internal/dto"
)

type customerService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
	companyRepo  portsrepo.CompanyRepositoryFacade
}

// NewCustomerService creates a new customer service.
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade, companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CustomerSvcFacade {
	return &customerService{customerRepo: customerRepo, companyRepo: companyRepo}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

// InquireByPhone returns every customer record for a phone number, newest
// first. An empty slice means the number is not on file; that is a valid
// answer, not an error.
func (s *customerService) InquireByPhone(ctx context.Context, phoneNumber string) ([]domain.Customer, error) {
	return s.customerRepo.FindCustomersByPhone(ctx, phoneNumber)
}

// GetCustomerByID retrieves a customer by their ID.
func (s *customerService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.customerRepo.FindCustomerByID(ctx, customerID)
}

// ListCustomers retrieves customers with pagination.
func (s *customerService) ListCustomers(ctx context.Context, params dto.ListCustomersParams) ([]domain.Customer, error) {
	return s.customerRepo.ListCustomers(ctx, params.Limit, params.Offset)
}

// UpdateCustomer updates the mutable fields of a customer record.
func (s *customerService) UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest, updaterUserID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.MobileNumber != nil {
		customer.MobileNumber = *req.MobileNumber
	}
	if req.CompanyID != nil {
		if *req.CompanyID != "" {
			if _, err := s.companyRepo.FindCompanyByID(ctx, *req.CompanyID); err != nil {
				return nil, fmt.Errorf("%w: unknown company", apperrors.ErrValidation)
			}
		}
		customer.CompanyID = *req.CompanyID
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
	customer.LastUpdatedAt = time.Now()
	customer.LastUpdatedBy = updaterUserID

	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer record. Admin only; ledger rows keep
// their history via the store's ON DELETE behavior.
func (s *customerService) DeleteCustomer(ctx context.Context, customerID string, actor *domain.User) error {
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return s.customerRepo.DeleteCustomer(ctx, customerID)
}
