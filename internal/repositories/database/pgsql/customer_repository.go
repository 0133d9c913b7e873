package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	"github.com/hazemq/billpay_backend/internal/core/domain"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	"github.com/hazemq/billpay_backend/internal/models"
	"github.com/hazemq/billpay_backend/internal/utils/mapping"
)

const customerColumns = `customer_id, phone_number, name, mobile_number, company_id, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer records.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var m models.Customer
	var companyID sql.NullString
	err := row.Scan(
		&m.CustomerID,
		&m.PhoneNumber,
		&m.Name,
		&m.MobileNumber,
		&companyID,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if companyID.Valid {
		m.CompanyID = companyID.String
	}
	return &m, nil
}

// FindCustomerByID retrieves a customer by their ID.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`

	m, err := scanCustomer(r.Pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}

	customer := mapping.ToDomainCustomer(*m)
	return &customer, nil
}

// FindCustomersByPhone returns every record on file for a phone number,
// newest first. Most phones have at most one record; an empty slice means
// the number is unknown.
func (r *PgxCustomerRepository) FindCustomersByPhone(ctx context.Context, phoneNumber string) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1 ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to find customers by phone: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		m, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, mapping.ToDomainCustomer(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}
	return customers, nil
}

// ListCustomers retrieves customers ordered by creation time, newest first.
func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		m, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, mapping.ToDomainCustomer(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}
	return customers, nil
}

// UpdateCustomer updates the mutable fields of a customer record.
func (r *PgxCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)

	var companyID sql.NullString
	if m.CompanyID != "" {
		companyID = sql.NullString{String: m.CompanyID, Valid: true}
	}

	query := `
		UPDATE customers
		SET name = $2, mobile_number = $3, company_id = $4, notes = $5, last_updated_at = $6, last_updated_by = $7
		WHERE customer_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CustomerID,
		m.Name,
		m.MobileNumber,
		companyID,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer %s: %w", m.CustomerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCustomer removes a customer record. Ledger rows keep their customer_id
// reference via ON DELETE SET NULL.
func (r *PgxCustomerRepository) DeleteCustomer(ctx context.Context, customerID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1;`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpsertCustomerByPhoneInTx inserts the customer if the phone number is not on
// file, otherwise refreshes the mutable fields of the existing record. Returns
// the customer ID either way.
func (r *PgxCustomerRepository) UpsertCustomerByPhoneInTx(ctx context.Context, tx pgx.Tx, customer domain.Customer) (string, error) {
	m := mapping.ToModelCustomer(customer)

	var companyID sql.NullString
	if m.CompanyID != "" {
		companyID = sql.NullString{String: m.CompanyID, Valid: true}
	}

	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (phone_number) DO UPDATE
		SET name = EXCLUDED.name,
		    mobile_number = EXCLUDED.mobile_number,
		    company_id = EXCLUDED.company_id,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by
		RETURNING customer_id;
	`
	var customerID string
	err := tx.QueryRow(ctx, query,
		m.CustomerID,
		m.PhoneNumber,
		m.Name,
		m.MobileNumber,
		companyID,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&customerID)
	if err != nil {
		return "", fmt.Errorf("failed to upsert customer for phone %s: %w", m.PhoneNumber, mapPgError(err))
	}
	return customerID, nil
}
