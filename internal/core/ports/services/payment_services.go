package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hazemq/billpay_backend/internal/core/domain"
	"github.com/hazemq/billpay_backend/internal/dto"
)

// PaymentSvcFacade is the balance-ledger and approval state machine. All
// methods resolve their outcome into apperrors sentinels; a balance change
// never commits without its matching status change.
type PaymentSvcFacade interface {
	// CreateRequest upserts the customer by phone, reserves the amount from
	// the submitter's balance when present, and inserts a pending request.
	// With insufficient balance nothing is created.
	CreateRequest(ctx context.Context, userID string, req dto.CreatePaymentRequest) (*domain.PaymentRequest, error)

	// Approve transitions pending -> approved. Funds were already reserved at
	// creation, so no balance moves.
	Approve(ctx context.Context, requestID string, actor *domain.User) (*domain.PaymentRequest, error)

	// Reject transitions any non-rejected state -> rejected and credits the
	// amount back to the owning user.
	Reject(ctx context.Context, requestID string, actor *domain.User, reason string) (*domain.PaymentRequest, error)

	// ChangeStatus is the administrative override. The balance delta follows
	// from the (old, new) pair: approved -> pending/rejected credits the
	// amount back, pending/rejected -> approved debits it again after a
	// sufficiency check.
	ChangeStatus(ctx context.Context, requestID string, actor *domain.User, newStatus domain.RequestStatus, staffNotes string) (*domain.PaymentRequest, error)

	// SetAmount fills in or replaces the stored amount. On an approved
	// request the new amount is debited on top of whatever was debited
	// before; see the method implementation for the flagged caveat.
	SetAmount(ctx context.Context, requestID string, actor *domain.User, amount decimal.Decimal) (*domain.PaymentRequest, error)

	// AddBalance and DeductBalance are the logged administrative ledger
	// adjustments.
	AddBalance(ctx context.Context, actor *domain.User, userID string, amount decimal.Decimal, notes string) (decimal.Decimal, error)
	DeductBalance(ctx context.Context, actor *domain.User, userID string, amount decimal.Decimal, notes string) (decimal.Decimal, error)

	GetRequest(ctx context.Context, requestID string) (*domain.PaymentRequest, error)
	ListRequests(ctx context.Context, actor *domain.User, params dto.ListPaymentRequestsParams) ([]domain.PaymentRequest, error)
	ListUserRequests(ctx context.Context, userID string, params dto.ListPaymentRequestsParams) ([]domain.PaymentRequest, error)
}
