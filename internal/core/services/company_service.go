package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hazemq/billpay_backend/internal/core/domain"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
	"github.com/hazemq/billpay_backend/internal/dto"
)

type companyService struct {
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates a new company service.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CompanySvcFacade {
	return &companyService{companyRepo: companyRepo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

// CreateCompany registers a new billing company.
func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	now := time.Now()
	company := domain.Company{
		CompanyID:  uuid.NewString(),
		Name:       req.Name,
		Category:   req.Category,
		Commission: req.Commission,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		return nil, err
	}
	return &company, nil
}

// GetCompanyByID retrieves a company by its ID.
func (s *companyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

// ListCompanies retrieves companies, optionally including inactive ones.
func (s *companyService) ListCompanies(ctx context.Context, includeInactive bool) ([]domain.Company, error) {
	return s.companyRepo.ListCompanies(ctx, includeInactive)
}

// UpdateCompany updates the mutable fields of a company.
func (s *companyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, updaterUserID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Category != nil {
		company.Category = *req.Category
	}
	if req.Commission != nil {
		company.Commission = *req.Commission
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}
	company.LastUpdatedAt = time.Now()
	company.LastUpdatedBy = updaterUserID

	if err := s.companyRepo.UpdateCompany(ctx, *company); err != nil {
		return nil, err
	}
	return company, nil
}

// DeactivateCompany marks a company inactive so it stops accepting new
// payment requests.
func (s *companyService) DeactivateCompany(ctx context.Context, companyID string, actorUserID string) error {
	return s.companyRepo.DeactivateCompany(ctx, companyID, actorUserID, time.Now())
}
