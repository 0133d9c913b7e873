package repositories

import (
	"context"
	"time"

	"github.com/hazemq/billpay_backend/internal/core/domain"
)

// CompanyRepositoryFacade defines persistence operations for billing companies.
type CompanyRepositoryFacade interface {
	SaveCompany(ctx context.Context, company domain.Company) error
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	ListCompanies(ctx context.Context, includeInactive bool) ([]domain.Company, error)
	UpdateCompany(ctx context.Context, company domain.Company) error
	DeactivateCompany(ctx context.Context, companyID string, updatedBy string, now time.Time) error
}
