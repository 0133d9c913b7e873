package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/hazemq/billpay_backend/internal/apperrors"
	"github.com/hazemq/billpay_backend/internal/core/domain"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
	"github.com/hazemq/billpay_backend/internal/core/services"
	"github.com/hazemq/billpay_backend/internal/dto"
)

const (
	testOwnerID   = "user-1"
	testAdminID   = "admin-1"
	testCompanyID = "company-1"
)

// PaymentServiceTestSuite drives the ledger state machine against stateful
// mocks: the owner's balance and the request row live in suite fields and the
// mock Fn hooks read and mutate them the way the real repositories would.
type PaymentServiceTestSuite struct {
	suite.Suite
	mockUserRepo     *MockUserRepository
	mockCustomerRepo *MockCustomerRepository
	mockCompanyRepo  *MockCompanyRepository
	mockPaymentRepo  *MockPaymentRepository
	mockNotifRepo    *MockNotificationRepository
	notifier         *MockNotifier
	service          portssvc.PaymentSvcFacade

	balance       decimal.Decimal
	request       *domain.PaymentRequest
	inserted      []domain.PaymentRequest
	notifications []domain.Notification
	adminNotices  int
	commits       int
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.mockCustomerRepo = new(MockCustomerRepository)
	s.mockCompanyRepo = new(MockCompanyRepository)
	s.mockPaymentRepo = new(MockPaymentRepository)
	s.mockNotifRepo = new(MockNotificationRepository)
	s.notifier = new(MockNotifier)
	s.service = services.NewPaymentService(
		s.mockUserRepo,
		s.mockCustomerRepo,
		s.mockCompanyRepo,
		s.mockPaymentRepo,
		s.mockNotifRepo,
		s.notifier,
	)

	s.balance = decimal.Zero
	s.request = nil
	s.inserted = nil
	s.notifications = nil
	s.adminNotices = 0
	s.commits = 0

	s.mockUserRepo.FindUserForUpdateFn = func(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
		return &domain.User{UserID: userID, Phone: "+1234567890", Balance: s.balance, IsActive: true}, nil
	}
	s.mockUserRepo.AdjustUserBalanceInTxFn = func(ctx context.Context, tx pgx.Tx, userID string, delta decimal.Decimal, updatedBy string, now time.Time) error {
		s.balance = s.balance.Add(delta)
		return nil
	}
	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		return &domain.User{UserID: userID, Phone: "+1234567890", Balance: s.balance, IsActive: true}, nil
	}

	s.mockPaymentRepo.FindRequestForUpdateFn = func(ctx context.Context, tx pgx.Tx, requestID string) (*domain.PaymentRequest, error) {
		if s.request == nil || s.request.RequestID != requestID {
			return nil, apperrors.ErrNotFound
		}
		cp := *s.request
		return &cp, nil
	}
	s.mockPaymentRepo.FindRequestByIDFn = func(ctx context.Context, requestID string) (*domain.PaymentRequest, error) {
		if s.request == nil || s.request.RequestID != requestID {
			return nil, apperrors.ErrNotFound
		}
		cp := *s.request
		return &cp, nil
	}
	s.mockPaymentRepo.InsertRequestInTxFn = func(ctx context.Context, tx pgx.Tx, req domain.PaymentRequest) error {
		s.inserted = append(s.inserted, req)
		if req.Type == domain.TypePayment {
			cp := req
			s.request = &cp
		}
		return nil
	}
	s.mockPaymentRepo.UpdateRequestStatusFn = func(ctx context.Context, tx pgx.Tx, requestID string, guard []domain.RequestStatus, newStatus domain.RequestStatus, staffNotes string, approvedAt *time.Time, updatedBy string, now time.Time) (bool, error) {
		if s.request == nil || s.request.RequestID != requestID {
			return false, nil
		}
		matched := false
		for _, g := range guard {
			if s.request.Status == g {
				matched = true
			}
		}
		if !matched {
			return false, nil
		}
		s.request.Status = newStatus
		if staffNotes != "" {
			s.request.StaffNotes = staffNotes
		}
		if approvedAt != nil {
			s.request.ApprovedAt = approvedAt
		}
		return true, nil
	}
	s.mockPaymentRepo.UpdateRequestAmountFn = func(ctx context.Context, tx pgx.Tx, requestID string, amount decimal.Decimal, updatedBy string, now time.Time) error {
		if s.request != nil && s.request.RequestID == requestID {
			s.request.Amount = amount
		}
		return nil
	}
	s.mockPaymentRepo.CommitFn = func(ctx context.Context, tx pgx.Tx) error {
		s.commits++
		return nil
	}
	s.mockUserRepo.CommitFn = s.mockPaymentRepo.CommitFn

	s.mockNotifRepo.InsertNotificationInTxFn = func(ctx context.Context, tx pgx.Tx, n domain.Notification) error {
		s.notifications = append(s.notifications, n)
		return nil
	}
	s.mockNotifRepo.InsertNotificationForAdminsInTxFn = func(ctx context.Context, tx pgx.Tx, title, message string, now time.Time) error {
		s.adminNotices++
		return nil
	}

	s.mockCompanyRepo.FindCompanyByIDFn = func(ctx context.Context, companyID string) (*domain.Company, error) {
		return &domain.Company{CompanyID: companyID, Name: "Electric Co", IsActive: true}, nil
	}
	s.mockCustomerRepo.UpsertCustomerByPhoneInTxFn = func(ctx context.Context, tx pgx.Tx, customer domain.Customer) (string, error) {
		return "cust-1", nil
	}
}

func (s *PaymentServiceTestSuite) admin() *domain.User {
	return &domain.User{UserID: testAdminID, Name: "Admin One", Role: domain.RoleAdmin, IsActive: true}
}

func (s *PaymentServiceTestSuite) staff() *domain.User {
	return &domain.User{UserID: testOwnerID, Name: "Staff One", Role: domain.RoleUser, IsActive: true}
}

func (s *PaymentServiceTestSuite) seedRequest(status domain.RequestStatus, amount decimal.Decimal) {
	s.request = &domain.PaymentRequest{
		RequestID:  "req-1",
		UserID:     testOwnerID,
		CustomerID: "cust-1",
		Type:       domain.TypePayment,
		Amount:     amount,
		Status:     status,
	}
}

func (s *PaymentServiceTestSuite) createReq(amount *decimal.Decimal) dto.CreatePaymentRequest {
	return dto.CreatePaymentRequest{
		PhoneNumber:  "+201001234567",
		CustomerName: "Ahmed",
		CompanyID:    testCompanyID,
		Amount:       amount,
	}
}

func amt(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func (s *PaymentServiceTestSuite) TestCreateRequest_ReservesAmountImmediately() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(1000)

	created, err := s.service.CreateRequest(ctx, testOwnerID, s.createReq(amt(600)))

	s.Require().NoError(err)
	s.Equal(domain.StatusPending, created.Status)
	s.True(created.Amount.Equal(decimal.NewFromInt(600)))
	s.True(s.balance.Equal(decimal.NewFromInt(400)), "amount must be reserved at creation, got %s", s.balance)
	s.Equal(1, s.adminNotices, "admins should be notified of the new request")
	s.Equal(1, s.commits)
}

func (s *PaymentServiceTestSuite) TestCreateRequest_WithoutAmount_NoReservation() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(1000)
	locked := false
	s.mockUserRepo.FindUserForUpdateFn = func(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
		locked = true
		return &domain.User{UserID: userID, Balance: s.balance, IsActive: true}, nil
	}

	created, err := s.service.CreateRequest(ctx, testOwnerID, s.createReq(nil))

	s.Require().NoError(err)
	s.True(created.Amount.IsZero())
	s.True(s.balance.Equal(decimal.NewFromInt(1000)))
	s.False(locked, "no balance row should be locked when no amount is given")
}

func (s *PaymentServiceTestSuite) TestCreateRequest_InsufficientBalance_CreatesNothing() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(100)

	created, err := s.service.CreateRequest(ctx, testOwnerID, s.createReq(amt(150)))

	s.Require().ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.Nil(created)
	s.Empty(s.inserted, "no ledger row may be created")
	s.True(s.balance.Equal(decimal.NewFromInt(100)), "balance must be untouched")
	s.Zero(s.commits)
}

func (s *PaymentServiceTestSuite) TestCreateRequest_NegativeAmount_Invalid() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(1000)

	_, err := s.service.CreateRequest(ctx, testOwnerID, s.createReq(amt(-5)))

	s.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
	s.Zero(s.commits)
}

func (s *PaymentServiceTestSuite) TestCreateRequest_InactiveCompany_Rejected() {
	ctx := context.Background()
	s.mockCompanyRepo.FindCompanyByIDFn = func(ctx context.Context, companyID string) (*domain.Company, error) {
		return &domain.Company{CompanyID: companyID, Name: "Defunct Co", IsActive: false}, nil
	}

	_, err := s.service.CreateRequest(ctx, testOwnerID, s.createReq(amt(50)))

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Zero(s.commits)
}

func (s *PaymentServiceTestSuite) TestApprove_MovesNoMoney() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(400) // 600 already reserved at creation
	s.seedRequest(domain.StatusPending, decimal.NewFromInt(600))

	approved, err := s.service.Approve(ctx, "req-1", s.admin())

	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, approved.Status)
	s.NotNil(approved.ApprovedAt)
	s.True(s.balance.Equal(decimal.NewFromInt(400)), "approval must not move money")
	s.Len(s.notifications, 1)
	s.Len(s.notifier.Calls, 1)
}

func (s *PaymentServiceTestSuite) TestApprove_SecondCall_AlreadyApproved() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(400)
	s.seedRequest(domain.StatusPending, decimal.NewFromInt(600))

	_, err := s.service.Approve(ctx, "req-1", s.admin())
	s.Require().NoError(err)

	_, err = s.service.Approve(ctx, "req-1", s.admin())
	s.Require().ErrorIs(err, apperrors.ErrAlreadyApproved)
	s.True(s.balance.Equal(decimal.NewFromInt(400)))
}

func (s *PaymentServiceTestSuite) TestApprove_RejectedRequest_AlreadyRejected() {
	ctx := context.Background()
	s.seedRequest(domain.StatusRejected, decimal.NewFromInt(600))

	_, err := s.service.Approve(ctx, "req-1", s.admin())

	s.Require().ErrorIs(err, apperrors.ErrAlreadyRejected)
}

func (s *PaymentServiceTestSuite) TestApprove_WithoutAmount_Invalid() {
	ctx := context.Background()
	s.seedRequest(domain.StatusPending, decimal.Zero)

	_, err := s.service.Approve(ctx, "req-1", s.admin())

	s.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
	s.Equal(domain.StatusPending, s.request.Status)
}

func (s *PaymentServiceTestSuite) TestApprove_NonAdmin_Forbidden() {
	ctx := context.Background()
	s.seedRequest(domain.StatusPending, decimal.NewFromInt(600))

	_, err := s.service.Approve(ctx, "req-1", s.staff())

	s.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (s *PaymentServiceTestSuite) TestReject_CreditsReservedAmountBack() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(400)
	s.seedRequest(domain.StatusPending, decimal.NewFromInt(600))

	rejected, err := s.service.Reject(ctx, "req-1", s.admin(), "wrong biller")

	s.Require().NoError(err)
	s.Equal(domain.StatusRejected, rejected.Status)
	s.True(s.balance.Equal(decimal.NewFromInt(1000)), "reserved amount must be credited back")
	s.Contains(rejected.StaffNotes, "wrong biller")
	s.Len(s.notifier.Calls, 1)
}

func (s *PaymentServiceTestSuite) TestReject_SecondCall_AlreadyRejected() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(1000)
	s.seedRequest(domain.StatusRejected, decimal.NewFromInt(600))

	_, err := s.service.Reject(ctx, "req-1", s.admin(), "")

	s.Require().ErrorIs(err, apperrors.ErrAlreadyRejected)
	s.True(s.balance.Equal(decimal.NewFromInt(1000)), "no double credit")
}

func (s *PaymentServiceTestSuite) TestReject_NonAdmin_Forbidden() {
	ctx := context.Background()
	s.seedRequest(domain.StatusPending, decimal.NewFromInt(600))

	_, err := s.service.Reject(ctx, "req-1", s.staff(), "")

	s.Require().ErrorIs(err, apperrors.ErrForbidden)
}

// Full lifecycle: create reserves, approve holds, reject after approval
// returns the owner to the starting balance.
func (s *PaymentServiceTestSuite) TestLifecycle_CreateApproveReject_RestoresBalance() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(1000)

	created, err := s.service.CreateRequest(ctx, testOwnerID, s.createReq(amt(600)))
	s.Require().NoError(err)
	s.True(s.balance.Equal(decimal.NewFromInt(400)))

	_, err = s.service.Approve(ctx, created.RequestID, s.admin())
	s.Require().NoError(err)
	s.True(s.balance.Equal(decimal.NewFromInt(400)))

	_, err = s.service.Reject(ctx, created.RequestID, s.admin(), "customer cancelled")
	s.Require().NoError(err)
	s.True(s.balance.Equal(decimal.NewFromInt(1000)))
	s.Equal(domain.StatusRejected, s.request.Status)
}

func (s *PaymentServiceTestSuite) TestChangeStatus_RejectedToApproved_DebitsAgain() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(1000)
	s.seedRequest(domain.StatusRejected, decimal.NewFromInt(600))

	updated, err := s.service.ChangeStatus(ctx, "req-1", s.admin(), domain.StatusApproved, "reinstated")

	s.Require().NoError(err)
	s.Equal(domain.StatusApproved, updated.Status)
	s.NotNil(updated.ApprovedAt)
	s.True(s.balance.Equal(decimal.NewFromInt(400)), "entering approved must re-debit")
}

func (s *PaymentServiceTestSuite) TestChangeStatus_ApprovedToPending_CreditsBack() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(400)
	s.seedRequest(domain.StatusApproved, decimal.NewFromInt(600))

	updated, err := s.service.ChangeStatus(ctx, "req-1", s.admin(), domain.StatusPending, "")

	s.Require().NoError(err)
	s.Equal(domain.StatusPending, updated.Status)
	s.True(s.balance.Equal(decimal.NewFromInt(1000)), "leaving approved must credit back")
}

func (s *PaymentServiceTestSuite) TestChangeStatus_PendingToRejected_MovesNoMoney() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(400)
	s.seedRequest(domain.StatusPending, decimal.NewFromInt(600))

	updated, err := s.service.ChangeStatus(ctx, "req-1", s.admin(), domain.StatusRejected, "")

	s.Require().NoError(err)
	s.Equal(domain.StatusRejected, updated.Status)
	s.True(s.balance.Equal(decimal.NewFromInt(400)), "pending -> rejected via override moves no money")
}

func (s *PaymentServiceTestSuite) TestChangeStatus_InsufficientBalance_StatusUntouched() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(100)
	s.seedRequest(domain.StatusRejected, decimal.NewFromInt(600))

	_, err := s.service.ChangeStatus(ctx, "req-1", s.admin(), domain.StatusApproved, "")

	s.Require().ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.Equal(domain.StatusRejected, s.request.Status, "failed transition must not change status")
	s.True(s.balance.Equal(decimal.NewFromInt(100)))
	s.Zero(s.commits)
}

func (s *PaymentServiceTestSuite) TestChangeStatus_SameStatus_Refused() {
	ctx := context.Background()
	s.seedRequest(domain.StatusApproved, decimal.NewFromInt(600))

	_, err := s.service.ChangeStatus(ctx, "req-1", s.admin(), domain.StatusApproved, "")

	s.Require().ErrorIs(err, apperrors.ErrAlreadyApproved)
}

func (s *PaymentServiceTestSuite) TestChangeStatus_UnknownStatus_Invalid() {
	ctx := context.Background()
	s.seedRequest(domain.StatusPending, decimal.NewFromInt(600))

	_, err := s.service.ChangeStatus(ctx, "req-1", s.admin(), domain.RequestStatus("cancelled"), "")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
}

// Approve -> un-approve -> approve again must net exactly one debit.
func (s *PaymentServiceTestSuite) TestChangeStatus_ApproveCycle_NetsSingleDebit() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(1000)
	s.seedRequest(domain.StatusPending, decimal.NewFromInt(600))

	// Pending funds were reserved at creation in the real flow; simulate it.
	s.balance = s.balance.Sub(decimal.NewFromInt(600))

	_, err := s.service.Approve(ctx, "req-1", s.admin())
	s.Require().NoError(err)
	s.True(s.balance.Equal(decimal.NewFromInt(400)))

	_, err = s.service.ChangeStatus(ctx, "req-1", s.admin(), domain.StatusPending, "")
	s.Require().NoError(err)
	s.True(s.balance.Equal(decimal.NewFromInt(1000)))

	_, err = s.service.ChangeStatus(ctx, "req-1", s.admin(), domain.StatusApproved, "")
	s.Require().NoError(err)
	s.True(s.balance.Equal(decimal.NewFromInt(400)), "cycle must net exactly one debit")
}

func (s *PaymentServiceTestSuite) TestSetAmount_OnPending_NoBalanceEffect() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(1000)
	s.seedRequest(domain.StatusPending, decimal.Zero)

	updated, err := s.service.SetAmount(ctx, "req-1", s.admin(), decimal.NewFromInt(250))

	s.Require().NoError(err)
	s.True(updated.Amount.Equal(decimal.NewFromInt(250)))
	s.True(s.balance.Equal(decimal.NewFromInt(1000)))
}

func (s *PaymentServiceTestSuite) TestSetAmount_OnApproved_DebitsNewAmount() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(400)
	s.seedRequest(domain.StatusApproved, decimal.NewFromInt(600))

	updated, err := s.service.SetAmount(ctx, "req-1", s.admin(), decimal.NewFromInt(300))

	s.Require().NoError(err)
	s.True(updated.Amount.Equal(decimal.NewFromInt(300)))
	// The previously debited 600 is not credited back; the new amount stacks.
	s.True(s.balance.Equal(decimal.NewFromInt(100)))
}

func (s *PaymentServiceTestSuite) TestSetAmount_NonPositive_Invalid() {
	ctx := context.Background()
	s.seedRequest(domain.StatusPending, decimal.Zero)

	_, err := s.service.SetAmount(ctx, "req-1", s.admin(), decimal.Zero)

	s.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *PaymentServiceTestSuite) TestAddThenDeduct_RestoresBalance() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(500)

	after, err := s.service.AddBalance(ctx, s.admin(), testOwnerID, decimal.NewFromInt(200), "top up")
	s.Require().NoError(err)
	s.True(after.Equal(decimal.NewFromInt(700)))

	after, err = s.service.DeductBalance(ctx, s.admin(), testOwnerID, decimal.NewFromInt(200), "correction")
	s.Require().NoError(err)
	s.True(after.Equal(decimal.NewFromInt(500)))

	s.Require().Len(s.inserted, 2, "each adjustment must leave a ledger row")
	s.Equal(domain.TypeBalanceAdd, s.inserted[0].Type)
	s.Equal(domain.TypeBalanceDeduct, s.inserted[1].Type)
	s.Equal(domain.StatusApproved, s.inserted[0].Status)
	s.Equal(domain.StatusApproved, s.inserted[1].Status)
}

func (s *PaymentServiceTestSuite) TestDeductBalance_Insufficient() {
	ctx := context.Background()
	s.balance = decimal.NewFromInt(100)

	_, err := s.service.DeductBalance(ctx, s.admin(), testOwnerID, decimal.NewFromInt(150), "")

	s.Require().ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.True(s.balance.Equal(decimal.NewFromInt(100)))
	s.Empty(s.inserted, "a refused deduction must not be logged")
}

func (s *PaymentServiceTestSuite) TestAddBalance_NonAdmin_Forbidden() {
	ctx := context.Background()

	_, err := s.service.AddBalance(ctx, s.staff(), testOwnerID, decimal.NewFromInt(50), "")

	s.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (s *PaymentServiceTestSuite) TestListRequests_NonAdminScopedToOwnRows() {
	ctx := context.Background()
	var scopedTo string
	s.mockPaymentRepo.ListRequestsByUserFn = func(ctx context.Context, userID string, params portsrepo.ListRequestsParams) ([]domain.PaymentRequest, error) {
		scopedTo = userID
		return nil, nil
	}

	_, err := s.service.ListRequests(ctx, s.staff(), dto.ListPaymentRequestsParams{Limit: 20})

	s.Require().NoError(err)
	s.Equal(testOwnerID, scopedTo)
}

func (s *PaymentServiceTestSuite) TestListRequests_AdminSeesAll() {
	ctx := context.Background()
	allCalled := false
	s.mockPaymentRepo.ListRequestsFn = func(ctx context.Context, params portsrepo.ListRequestsParams) ([]domain.PaymentRequest, error) {
		allCalled = true
		return nil, nil
	}

	_, err := s.service.ListRequests(ctx, s.admin(), dto.ListPaymentRequestsParams{Limit: 20})

	s.Require().NoError(err)
	s.True(allCalled)
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
