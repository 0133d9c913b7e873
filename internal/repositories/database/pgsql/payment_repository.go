package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	"github.com/hazemq/billpay_backend/internal/core/domain"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	"github.com/hazemq/billpay_backend/internal/models"
	"github.com/hazemq/billpay_backend/internal/utils/mapping"
)

const requestColumns = `request_id, user_id, customer_id, request_type, amount, status, notes, staff_notes, approved_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for the payment ledger.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryWithTx {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryWithTx = (*PgxPaymentRepository)(nil)

func scanRequest(row pgx.Row) (*models.PaymentRequest, error) {
	var m models.PaymentRequest
	var customerID sql.NullString
	err := row.Scan(
		&m.RequestID,
		&m.UserID,
		&customerID,
		&m.Type,
		&m.Amount,
		&m.Status,
		&m.Notes,
		&m.StaffNotes,
		&m.ApprovedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		m.CustomerID = customerID.String
	}
	return &m, nil
}

// InsertRequestInTx inserts a new ledger row within a transaction.
func (r *PgxPaymentRepository) InsertRequestInTx(ctx context.Context, tx pgx.Tx, req domain.PaymentRequest) error {
	m := mapping.ToModelPaymentRequest(req)

	// Balance adjustments carry no customer.
	var customerID sql.NullString
	if m.CustomerID != "" {
		customerID = sql.NullString{String: m.CustomerID, Valid: true}
	}

	query := `
		INSERT INTO payment_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.RequestID,
		m.UserID,
		customerID,
		m.Type,
		m.Amount,
		m.Status,
		m.Notes,
		m.StaffNotes,
		m.ApprovedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment request %s: %w", m.RequestID, mapPgError(err))
	}
	return nil
}

// FindRequestByID retrieves a ledger row by its ID.
func (r *PgxPaymentRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.PaymentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM payment_requests WHERE request_id = $1;`

	m, err := scanRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment request %s: %w", requestID, err)
	}

	req := mapping.ToDomainPaymentRequest(*m)
	return &req, nil
}

// FindRequestForUpdate fetches a ledger row with a FOR UPDATE lock within a transaction.
func (r *PgxPaymentRepository) FindRequestForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.PaymentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM payment_requests WHERE request_id = $1 FOR UPDATE;`

	m, err := scanRequest(tx.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock payment request %s: %w", requestID, mapPgError(err))
	}

	req := mapping.ToDomainPaymentRequest(*m)
	return &req, nil
}

// listQuery builds the filtered listing query. Search matches the customer's
// phone number or name via the customers join.
func listQuery(params portsrepo.ListRequestsParams, userID string) (string, []any) {
	query := `
		SELECT pr.request_id, pr.user_id, pr.customer_id, pr.request_type, pr.amount, pr.status, pr.notes, pr.staff_notes, pr.approved_at, pr.created_at, pr.created_by, pr.last_updated_at, pr.last_updated_by
		FROM payment_requests pr
		LEFT JOIN customers c ON c.customer_id = pr.customer_id
		WHERE 1=1`
	args := make([]any, 0, 4)

	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(" AND pr.user_id = $%d", len(args))
	}
	if params.Status != "" {
		args = append(args, params.Status)
		query += fmt.Sprintf(" AND pr.status = $%d", len(args))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		query += fmt.Sprintf(" AND (c.phone_number ILIKE $%d OR c.name ILIKE $%d)", len(args), len(args))
	}

	args = append(args, params.Limit)
	query += fmt.Sprintf(" ORDER BY pr.created_at DESC LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d;", len(args))

	return query, args
}

func (r *PgxPaymentRepository) queryRequests(ctx context.Context, query string, args []any) ([]domain.PaymentRequest, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.PaymentRequest, 0)
	for rows.Next() {
		m, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment request row: %w", err)
		}
		requests = append(requests, mapping.ToDomainPaymentRequest(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment request rows: %w", err)
	}
	return requests, nil
}

// ListRequests retrieves ledger rows across all users, newest first.
func (r *PgxPaymentRepository) ListRequests(ctx context.Context, params portsrepo.ListRequestsParams) ([]domain.PaymentRequest, error) {
	query, args := listQuery(params, "")
	return r.queryRequests(ctx, query, args)
}

// ListRequestsByUser retrieves ledger rows created by one user, newest first.
func (r *PgxPaymentRepository) ListRequestsByUser(ctx context.Context, userID string, params portsrepo.ListRequestsParams) ([]domain.PaymentRequest, error) {
	query, args := listQuery(params, userID)
	return r.queryRequests(ctx, query, args)
}

// UpdateRequestStatusInTx transitions a ledger row's status with a
// compare-and-set on the guard statuses. Returns false when no row matched,
// meaning the row's current status was outside the guard set.
func (r *PgxPaymentRepository) UpdateRequestStatusInTx(ctx context.Context, tx pgx.Tx, requestID string, guard []domain.RequestStatus, newStatus domain.RequestStatus, staffNotes string, approvedAt *time.Time, updatedBy string, now time.Time) (bool, error) {
	guardStrs := make([]string, len(guard))
	for i, s := range guard {
		guardStrs[i] = string(s)
	}

	query := `
		UPDATE payment_requests
		SET status = $2,
		    staff_notes = CASE WHEN $3 <> '' THEN $3 ELSE staff_notes END,
		    approved_at = COALESCE($4, approved_at),
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE request_id = $1 AND status = ANY($7);
	`
	cmdTag, err := tx.Exec(ctx, query, requestID, string(newStatus), staffNotes, approvedAt, now, updatedBy, guardStrs)
	if err != nil {
		return false, fmt.Errorf("failed to update status of payment request %s: %w", requestID, mapPgError(err))
	}
	return cmdTag.RowsAffected() > 0, nil
}

// UpdateRequestAmountInTx sets the stored amount of a ledger row.
func (r *PgxPaymentRepository) UpdateRequestAmountInTx(ctx context.Context, tx pgx.Tx, requestID string, amount decimal.Decimal, updatedBy string, now time.Time) error {
	query := `
		UPDATE payment_requests
		SET amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE request_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, requestID, amount, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update amount of payment request %s: %w", requestID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
