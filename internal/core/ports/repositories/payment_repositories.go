package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hazemq/billpay_backend/internal/core/domain"
)

// ListRequestsParams filters ledger listings.
type ListRequestsParams struct {
	Status string // empty means all
	Search string // matches customer phone or name
	Limit  int
	Offset int
}

// PaymentReader defines read operations for payment requests.
type PaymentReader interface {
	FindRequestByID(ctx context.Context, requestID string) (*domain.PaymentRequest, error)
	ListRequests(ctx context.Context, params ListRequestsParams) ([]domain.PaymentRequest, error)
	ListRequestsByUser(ctx context.Context, userID string, params ListRequestsParams) ([]domain.PaymentRequest, error)
}

// PaymentWriterTx defines in-transaction write operations on the ledger.
// Status updates are compare-and-set: the guard states must include the row's
// current status or the update matches nothing and the caller sees a lost race.
type PaymentWriterTx interface {
	// FindRequestForUpdate fetches a ledger row with a FOR UPDATE lock.
	FindRequestForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.PaymentRequest, error)

	// InsertRequestInTx inserts a new ledger row.
	InsertRequestInTx(ctx context.Context, tx pgx.Tx, req domain.PaymentRequest) error

	// UpdateRequestStatusInTx transitions status with a compare-and-set on the
	// guard statuses. Returns false when no row matched the guard.
	UpdateRequestStatusInTx(ctx context.Context, tx pgx.Tx, requestID string, guard []domain.RequestStatus, newStatus domain.RequestStatus, staffNotes string, approvedAt *time.Time, updatedBy string, now time.Time) (bool, error)

	// UpdateRequestAmountInTx sets the stored amount.
	UpdateRequestAmountInTx(ctx context.Context, tx pgx.Tx, requestID string, amount decimal.Decimal, updatedBy string, now time.Time) error
}

// PaymentRepositoryFacade combines all ledger repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriterTx
}

// PaymentRepositoryWithTx extends PaymentRepositoryFacade with transaction capabilities.
type PaymentRepositoryWithTx interface {
	PaymentRepositoryFacade
	TransactionManager
}
