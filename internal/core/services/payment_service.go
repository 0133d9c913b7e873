package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	"github.com/hazemq/billpay_backend/internal/core/domain"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
	"github.com/hazemq/billpay_backend/internal/dto"
	"github.com/hazemq/billpay_backend/internal/middleware"
)

type paymentService struct {
	userRepo     portsrepo.UserRepositoryWithTx
	customerRepo portsrepo.CustomerRepositoryFacade
	companyRepo  portsrepo.CompanyRepositoryFacade
	paymentRepo  portsrepo.PaymentRepositoryWithTx
	notifRepo    portsrepo.NotificationRepositoryFacade
	notifier     portssvc.Notifier
}

// NewPaymentService creates the ledger/approval service.
func NewPaymentService(
	userRepo portsrepo.UserRepositoryWithTx,
	customerRepo portsrepo.CustomerRepositoryFacade,
	companyRepo portsrepo.CompanyRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryWithTx,
	notifRepo portsrepo.NotificationRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		paymentRepo:  paymentRepo,
		notifRepo:    notifRepo,
		notifier:     notifier,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// CreateRequest upserts the customer by phone, reserves the amount from the
// submitter's balance when an amount is present, and inserts a pending ledger
// row. Everything happens in one transaction: with insufficient balance the
// transaction rolls back and nothing is created.
func (s *paymentService) CreateRequest(ctx context.Context, userID string, req dto.CreatePaymentRequest) (*domain.PaymentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown company", apperrors.ErrValidation)
	}
	if !company.IsActive {
		return nil, fmt.Errorf("%w: company %q is inactive", apperrors.ErrValidation, company.Name)
	}

	var amount decimal.Decimal
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidAmount)
		}
		amount = *req.Amount
	}

	now := time.Now()

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = s.paymentRepo.Rollback(ctx, tx)
	}()

	customer := domain.Customer{
		CustomerID:   uuid.NewString(),
		PhoneNumber:  req.PhoneNumber,
		Name:         req.CustomerName,
		MobileNumber: req.MobileNumber,
		CompanyID:    req.CompanyID,
		Notes:        "",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	customerID, err := s.customerRepo.UpsertCustomerByPhoneInTx(ctx, tx, customer)
	if err != nil {
		return nil, err
	}

	// Reservation: the debit happens now, not at approval.
	if amount.IsPositive() {
		if err := s.debitLocked(ctx, tx, userID, amount, userID, now); err != nil {
			return nil, err
		}
	}

	request := domain.PaymentRequest{
		RequestID:  uuid.NewString(),
		UserID:     userID,
		CustomerID: customerID,
		Type:       domain.TypePayment,
		Amount:     amount,
		Status:     domain.StatusPending,
		Notes:      req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.paymentRepo.InsertRequestInTx(ctx, tx, request); err != nil {
		return nil, err
	}

	title := "New payment request"
	message := fmt.Sprintf("Request for %s (%s), amount %s", req.CustomerName, req.PhoneNumber, amount.StringFixed(2))
	if err := s.notifRepo.InsertNotificationForAdminsInTx(ctx, tx, title, message, now); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Payment request created",
		slog.String("request_id", request.RequestID),
		slog.String("user_id", userID),
		slog.String("amount", amount.StringFixed(2)),
	)
	return &request, nil
}

// debitLocked locks the user row, checks sufficiency and applies the debit.
// Must run inside the caller's transaction.
func (s *paymentService) debitLocked(ctx context.Context, tx pgx.Tx, userID string, amount decimal.Decimal, actorID string, now time.Time) error {
	user, err := s.userRepo.FindUserForUpdate(ctx, tx, userID)
	if err != nil {
		return err
	}
	if user.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientBalance, user.Balance.StringFixed(2), amount.StringFixed(2))
	}
	return s.userRepo.AdjustUserBalanceInTx(ctx, tx, userID, amount.Neg(), actorID, now)
}

// creditLocked locks the user row and credits the amount back.
func (s *paymentService) creditLocked(ctx context.Context, tx pgx.Tx, userID string, amount decimal.Decimal, actorID string, now time.Time) error {
	if _, err := s.userRepo.FindUserForUpdate(ctx, tx, userID); err != nil {
		return err
	}
	return s.userRepo.AdjustUserBalanceInTx(ctx, tx, userID, amount, actorID, now)
}

// Approve transitions pending -> approved. The funds were reserved when the
// request was created, so approval moves no money.
func (s *paymentService) Approve(ctx context.Context, requestID string, actor *domain.User) (*domain.PaymentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now()

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = s.paymentRepo.Rollback(ctx, tx)
	}()

	request, err := s.paymentRepo.FindRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	switch request.Status {
	case domain.StatusApproved:
		return nil, apperrors.ErrAlreadyApproved
	case domain.StatusRejected:
		// Un-reject first via ChangeStatus.
		return nil, apperrors.ErrAlreadyRejected
	}

	if !request.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: request has no amount set", apperrors.ErrInvalidAmount)
	}

	staffNote := fmt.Sprintf("approved by %s", actor.Name)
	ok, err := s.paymentRepo.UpdateRequestStatusInTx(ctx, tx, requestID, []domain.RequestStatus{domain.StatusPending}, domain.StatusApproved, staffNote, &now, actor.UserID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrConflict
	}

	if err := s.notifyOwnerInTx(ctx, tx, request.UserID, "Payment request approved", fmt.Sprintf("Your request for %s was approved.", request.Amount.StringFixed(2)), now); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Payment request approved", slog.String("request_id", requestID), slog.String("actor_id", actor.UserID))

	s.notifyOwnerChat(ctx, request.UserID, "Payment request approved", fmt.Sprintf("Your request for %s was approved.", request.Amount.StringFixed(2)))
	return s.paymentRepo.FindRequestByID(ctx, requestID)
}

// Reject transitions any non-rejected state -> rejected and credits the
// reserved amount back to the owning user.
func (s *paymentService) Reject(ctx context.Context, requestID string, actor *domain.User, reason string) (*domain.PaymentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now()

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = s.paymentRepo.Rollback(ctx, tx)
	}()

	request, err := s.paymentRepo.FindRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status == domain.StatusRejected {
		// Guards double-credit.
		return nil, apperrors.ErrAlreadyRejected
	}

	if request.Amount.IsPositive() {
		if err := s.creditLocked(ctx, tx, request.UserID, request.Amount, actor.UserID, now); err != nil {
			return nil, err
		}
	}

	staffNote := fmt.Sprintf("rejected by %s", actor.Name)
	if reason != "" {
		staffNote = fmt.Sprintf("%s: %s", staffNote, reason)
	}
	ok, err := s.paymentRepo.UpdateRequestStatusInTx(ctx, tx, requestID, []domain.RequestStatus{domain.StatusPending, domain.StatusApproved}, domain.StatusRejected, staffNote, nil, actor.UserID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrConflict
	}

	message := fmt.Sprintf("Your request for %s was rejected.", request.Amount.StringFixed(2))
	if reason != "" {
		message = fmt.Sprintf("%s Reason: %s", message, reason)
	}
	if err := s.notifyOwnerInTx(ctx, tx, request.UserID, "Payment request rejected", message, now); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Payment request rejected", slog.String("request_id", requestID), slog.String("actor_id", actor.UserID))

	s.notifyOwnerChat(ctx, request.UserID, "Payment request rejected", message)
	return s.paymentRepo.FindRequestByID(ctx, requestID)
}

// ChangeStatus is the administrative override. The balance delta follows
// purely from the (old, new) status pair:
//
//	approved -> pending/rejected  credit the amount back
//	pending/rejected -> approved  debit the amount again, checking sufficiency
//
// Every other pair moves no money. The whole transition aborts, status
// untouched, when a required debit cannot be covered.
func (s *paymentService) ChangeStatus(ctx context.Context, requestID string, actor *domain.User, newStatus domain.RequestStatus, staffNotes string) (*domain.PaymentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, newStatus)
	}

	now := time.Now()

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = s.paymentRepo.Rollback(ctx, tx)
	}()

	request, err := s.paymentRepo.FindRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	oldStatus := request.Status
	if oldStatus == newStatus {
		switch newStatus {
		case domain.StatusApproved:
			return nil, apperrors.ErrAlreadyApproved
		case domain.StatusRejected:
			return nil, apperrors.ErrAlreadyRejected
		default:
			return nil, fmt.Errorf("%w: request is already %s", apperrors.ErrValidation, newStatus)
		}
	}

	if request.Amount.IsPositive() {
		switch {
		case oldStatus == domain.StatusApproved:
			// Leaving approved releases the captured amount.
			if err := s.creditLocked(ctx, tx, request.UserID, request.Amount, actor.UserID, now); err != nil {
				return nil, err
			}
		case newStatus == domain.StatusApproved:
			// Entering approved from pending or rejected re-debits.
			if err := s.debitLocked(ctx, tx, request.UserID, request.Amount, actor.UserID, now); err != nil {
				return nil, err
			}
		}
	}

	var approvedAt *time.Time
	if newStatus == domain.StatusApproved {
		approvedAt = &now
	}

	note := fmt.Sprintf("status changed %s -> %s by %s", oldStatus, newStatus, actor.Name)
	if staffNotes != "" {
		note = fmt.Sprintf("%s: %s", note, staffNotes)
	}
	ok, err := s.paymentRepo.UpdateRequestStatusInTx(ctx, tx, requestID, []domain.RequestStatus{oldStatus}, newStatus, note, approvedAt, actor.UserID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrConflict
	}

	message := fmt.Sprintf("Your request status changed from %s to %s.", oldStatus, newStatus)
	if err := s.notifyOwnerInTx(ctx, tx, request.UserID, "Payment request updated", message, now); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Payment request status changed",
		slog.String("request_id", requestID),
		slog.String("from", string(oldStatus)),
		slog.String("to", string(newStatus)),
		slog.String("actor_id", actor.UserID),
	)

	s.notifyOwnerChat(ctx, request.UserID, "Payment request updated", message)
	return s.paymentRepo.FindRequestByID(ctx, requestID)
}

// SetAmount fills in or replaces the stored amount. On a pending request this
// only updates the row, no balance effect. On an approved request the new
// amount is debited after a sufficiency check WITHOUT crediting back the
// previously debited amount. Repeated calls therefore compound debits.
// TODO: product owners to decide whether approved-state re-debit should credit
// the old amount first; keeping long-standing behavior until then.
func (s *paymentService) SetAmount(ctx context.Context, requestID string, actor *domain.User, amount decimal.Decimal) (*domain.PaymentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidAmount)
	}

	now := time.Now()

	tx, err := s.paymentRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = s.paymentRepo.Rollback(ctx, tx)
	}()

	request, err := s.paymentRepo.FindRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status == domain.StatusApproved {
		if err := s.debitLocked(ctx, tx, request.UserID, amount, actor.UserID, now); err != nil {
			return nil, err
		}
	}

	if err := s.paymentRepo.UpdateRequestAmountInTx(ctx, tx, requestID, amount, actor.UserID, now); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Payment request amount set",
		slog.String("request_id", requestID),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("actor_id", actor.UserID),
	)
	return s.paymentRepo.FindRequestByID(ctx, requestID)
}

// AddBalance credits a user's balance and records the adjustment as an
// approved ledger row.
func (s *paymentService) AddBalance(ctx context.Context, actor *domain.User, userID string, amount decimal.Decimal, notes string) (decimal.Decimal, error) {
	return s.adjustBalance(ctx, actor, userID, amount, notes, domain.TypeBalanceAdd)
}

// DeductBalance debits a user's balance, refusing to take it negative, and
// records the adjustment as an approved ledger row.
func (s *paymentService) DeductBalance(ctx context.Context, actor *domain.User, userID string, amount decimal.Decimal, notes string) (decimal.Decimal, error) {
	return s.adjustBalance(ctx, actor, userID, amount, notes, domain.TypeBalanceDeduct)
}

func (s *paymentService) adjustBalance(ctx context.Context, actor *domain.User, userID string, amount decimal.Decimal, notes string, adjType domain.RequestType) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.IsAdmin() {
		return decimal.Zero, apperrors.ErrForbidden
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidAmount)
	}

	now := time.Now()

	tx, err := s.userRepo.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() {
		_ = s.userRepo.Rollback(ctx, tx)
	}()

	user, err := s.userRepo.FindUserForUpdate(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	delta := amount
	if adjType == domain.TypeBalanceDeduct {
		if user.Balance.LessThan(amount) {
			return decimal.Zero, fmt.Errorf("%w: balance %s, deduction %s", apperrors.ErrInsufficientBalance, user.Balance.StringFixed(2), amount.StringFixed(2))
		}
		delta = amount.Neg()
	}

	if err := s.userRepo.AdjustUserBalanceInTx(ctx, tx, userID, delta, actor.UserID, now); err != nil {
		return decimal.Zero, err
	}

	// Adjustments are logged in the same ledger as payment requests so the
	// balance history stays complete.
	entry := domain.PaymentRequest{
		RequestID:  uuid.NewString(),
		UserID:     userID,
		Type:       adjType,
		Amount:     amount,
		Status:     domain.StatusApproved,
		Notes:      notes,
		StaffNotes: fmt.Sprintf("%s by %s", adjType, actor.Name),
		ApprovedAt: &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.paymentRepo.InsertRequestInTx(ctx, tx, entry); err != nil {
		return decimal.Zero, err
	}

	verb := "added to"
	if adjType == domain.TypeBalanceDeduct {
		verb = "deducted from"
	}
	message := fmt.Sprintf("%s was %s your balance.", amount.StringFixed(2), verb)
	if err := s.notifyOwnerInTx(ctx, tx, userID, "Balance adjusted", message, now); err != nil {
		return decimal.Zero, err
	}

	if err := s.userRepo.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}

	newBalance := user.Balance.Add(delta)
	logger.Info("Balance adjusted",
		slog.String("user_id", userID),
		slog.String("type", string(adjType)),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("new_balance", newBalance.StringFixed(2)),
		slog.String("actor_id", actor.UserID),
	)

	s.notifyOwnerChat(ctx, userID, "Balance adjusted", message)
	return newBalance, nil
}

// GetRequest retrieves one ledger row.
func (s *paymentService) GetRequest(ctx context.Context, requestID string) (*domain.PaymentRequest, error) {
	return s.paymentRepo.FindRequestByID(ctx, requestID)
}

// ListRequests lists ledger rows. Admins see everything; other users are
// scoped to their own rows.
func (s *paymentService) ListRequests(ctx context.Context, actor *domain.User, params dto.ListPaymentRequestsParams) ([]domain.PaymentRequest, error) {
	repoParams := portsrepo.ListRequestsParams{
		Status: params.Status,
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if actor.IsAdmin() {
		return s.paymentRepo.ListRequests(ctx, repoParams)
	}
	return s.paymentRepo.ListRequestsByUser(ctx, actor.UserID, repoParams)
}

// ListUserRequests lists ledger rows created by one user.
func (s *paymentService) ListUserRequests(ctx context.Context, userID string, params dto.ListPaymentRequestsParams) ([]domain.PaymentRequest, error) {
	return s.paymentRepo.ListRequestsByUser(ctx, userID, portsrepo.ListRequestsParams{
		Status: params.Status,
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

// notifyOwnerInTx writes the in-app notification row inside the transition's
// transaction.
func (s *paymentService) notifyOwnerInTx(ctx context.Context, tx pgx.Tx, userID string, title string, message string, now time.Time) error {
	return s.notifRepo.InsertNotificationInTx(ctx, tx, domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		IsRead:         false,
		CreatedAt:      now,
	})
}

// notifyOwnerChat delivers the chat notification after commit. Best effort:
// lookup or delivery failure never affects the committed transition.
func (s *paymentService) notifyOwnerChat(ctx context.Context, userID string, title string, message string) {
	owner, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to resolve notification target", slog.String("user_id", userID), slog.String("error", err.Error()))
		return
	}
	s.notifier.Notify(ctx, owner.Phone, title, message)
}
