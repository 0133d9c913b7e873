package services

import (
	"context"

	"github.com/hazemq/billpay_backend/internal/core/domain"
	"github.com/hazemq/billpay_backend/internal/dto"
)

// CompanySvcFacade defines operations on billing-company reference data.
type CompanySvcFacade interface {
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	ListCompanies(ctx context.Context, includeInactive bool) ([]domain.Company, error)
	UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, updaterUserID string) (*domain.Company, error)
	DeactivateCompany(ctx context.Context, companyID string, actorUserID string) error
}
