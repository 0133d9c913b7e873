package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/hazemq/billpay_backend/internal/core/domain"
	portsrepo "github.com/hazemq/billpay_backend/internal/core/ports/repositories"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
	FindUserByIDFn             func(ctx context.Context, userID string) (*domain.User, error)
	FindUserByPhoneFn          func(ctx context.Context, phone string) (*domain.User, error)
	ListUsersFn                func(ctx context.Context, limit, offset int) ([]domain.User, error)
	SaveUserFn                 func(ctx context.Context, user domain.User) error
	UpdateUserFn               func(ctx context.Context, user domain.User) error
	DeactivateUserFn           func(ctx context.Context, userID, updatedBy string, now time.Time) error
	DeleteUserFn               func(ctx context.Context, userID string) error
	FindUserForUpdateFn        func(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error)
	AdjustUserBalanceInTxFn    func(ctx context.Context, tx pgx.Tx, userID string, delta decimal.Decimal, updatedBy string, now time.Time) error
	UpdatePasswordInTxFn       func(ctx context.Context, tx pgx.Tx, userID, newHash string, now time.Time) error
	InsertPasswordChangeInTxFn func(ctx context.Context, tx pgx.Tx, change domain.PasswordChange) error
	BeginFn                    func(ctx context.Context) (pgx.Tx, error)
	CommitFn                   func(ctx context.Context, tx pgx.Tx) error
	RollbackFn                 func(ctx context.Context, tx pgx.Tx) error
}

var _ portsrepo.UserRepositoryWithTx = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if m.FindUserByIDFn != nil {
		return m.FindUserByIDFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if m.FindUserByPhoneFn != nil {
		return m.FindUserByPhoneFn(ctx, phone)
	}
	args := m.Called(ctx, phone)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx, limit, offset)
	}
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	if m.SaveUserFn != nil {
		return m.SaveUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	if m.UpdateUserFn != nil {
		return m.UpdateUserFn(ctx, user)
	}
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeactivateUser(ctx context.Context, userID string, updatedBy string, now time.Time) error {
	if m.DeactivateUserFn != nil {
		return m.DeactivateUserFn(ctx, userID, updatedBy, now)
	}
	args := m.Called(ctx, userID, updatedBy, now)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
	if m.FindUserForUpdateFn != nil {
		return m.FindUserForUpdateFn(ctx, tx, userID)
	}
	args := m.Called(ctx, tx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) AdjustUserBalanceInTx(ctx context.Context, tx pgx.Tx, userID string, delta decimal.Decimal, updatedBy string, now time.Time) error {
	if m.AdjustUserBalanceInTxFn != nil {
		return m.AdjustUserBalanceInTxFn(ctx, tx, userID, delta, updatedBy, now)
	}
	args := m.Called(ctx, tx, userID, delta, updatedBy, now)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordInTx(ctx context.Context, tx pgx.Tx, userID string, newHash string, now time.Time) error {
	if m.UpdatePasswordInTxFn != nil {
		return m.UpdatePasswordInTxFn(ctx, tx, userID, newHash, now)
	}
	args := m.Called(ctx, tx, userID, newHash, now)
	return args.Error(0)
}

func (m *MockUserRepository) InsertPasswordChangeInTx(ctx context.Context, tx pgx.Tx, change domain.PasswordChange) error {
	if m.InsertPasswordChangeInTxFn != nil {
		return m.InsertPasswordChangeInTxFn(ctx, tx, change)
	}
	args := m.Called(ctx, tx, change)
	return args.Error(0)
}

func (m *MockUserRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.BeginFn != nil {
		return m.BeginFn(ctx)
	}
	return nil, nil
}

func (m *MockUserRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if m.CommitFn != nil {
		return m.CommitFn(ctx, tx)
	}
	return nil
}

func (m *MockUserRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if m.RollbackFn != nil {
		return m.RollbackFn(ctx, tx)
	}
	return nil
}

// --- Mock PaymentRepository ---

type MockPaymentRepository struct {
	mock.Mock
	FindRequestByIDFn        func(ctx context.Context, requestID string) (*domain.PaymentRequest, error)
	ListRequestsFn           func(ctx context.Context, params portsrepo.ListRequestsParams) ([]domain.PaymentRequest, error)
	ListRequestsByUserFn     func(ctx context.Context, userID string, params portsrepo.ListRequestsParams) ([]domain.PaymentRequest, error)
	FindRequestForUpdateFn   func(ctx context.Context, tx pgx.Tx, requestID string) (*domain.PaymentRequest, error)
	InsertRequestInTxFn      func(ctx context.Context, tx pgx.Tx, req domain.PaymentRequest) error
	UpdateRequestStatusFn    func(ctx context.Context, tx pgx.Tx, requestID string, guard []domain.RequestStatus, newStatus domain.RequestStatus, staffNotes string, approvedAt *time.Time, updatedBy string, now time.Time) (bool, error)
	UpdateRequestAmountFn    func(ctx context.Context, tx pgx.Tx, requestID string, amount decimal.Decimal, updatedBy string, now time.Time) error
	BeginFn                  func(ctx context.Context) (pgx.Tx, error)
	CommitFn                 func(ctx context.Context, tx pgx.Tx) error
	RollbackFn               func(ctx context.Context, tx pgx.Tx) error
}

var _ portsrepo.PaymentRepositoryWithTx = (*MockPaymentRepository)(nil)

func (m *MockPaymentRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.PaymentRequest, error) {
	if m.FindRequestByIDFn != nil {
		return m.FindRequestByIDFn(ctx, requestID)
	}
	args := m.Called(ctx, requestID)
	var req *domain.PaymentRequest
	if args.Get(0) != nil {
		req = args.Get(0).(*domain.PaymentRequest)
	}
	return req, args.Error(1)
}

func (m *MockPaymentRepository) ListRequests(ctx context.Context, params portsrepo.ListRequestsParams) ([]domain.PaymentRequest, error) {
	if m.ListRequestsFn != nil {
		return m.ListRequestsFn(ctx, params)
	}
	args := m.Called(ctx, params)
	var reqs []domain.PaymentRequest
	if args.Get(0) != nil {
		reqs = args.Get(0).([]domain.PaymentRequest)
	}
	return reqs, args.Error(1)
}

func (m *MockPaymentRepository) ListRequestsByUser(ctx context.Context, userID string, params portsrepo.ListRequestsParams) ([]domain.PaymentRequest, error) {
	if m.ListRequestsByUserFn != nil {
		return m.ListRequestsByUserFn(ctx, userID, params)
	}
	args := m.Called(ctx, userID, params)
	var reqs []domain.PaymentRequest
	if args.Get(0) != nil {
		reqs = args.Get(0).([]domain.PaymentRequest)
	}
	return reqs, args.Error(1)
}

func (m *MockPaymentRepository) FindRequestForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.PaymentRequest, error) {
	if m.FindRequestForUpdateFn != nil {
		return m.FindRequestForUpdateFn(ctx, tx, requestID)
	}
	args := m.Called(ctx, tx, requestID)
	var req *domain.PaymentRequest
	if args.Get(0) != nil {
		req = args.Get(0).(*domain.PaymentRequest)
	}
	return req, args.Error(1)
}

func (m *MockPaymentRepository) InsertRequestInTx(ctx context.Context, tx pgx.Tx, req domain.PaymentRequest) error {
	if m.InsertRequestInTxFn != nil {
		return m.InsertRequestInTxFn(ctx, tx, req)
	}
	args := m.Called(ctx, tx, req)
	return args.Error(0)
}

func (m *MockPaymentRepository) UpdateRequestStatusInTx(ctx context.Context, tx pgx.Tx, requestID string, guard []domain.RequestStatus, newStatus domain.RequestStatus, staffNotes string, approvedAt *time.Time, updatedBy string, now time.Time) (bool, error) {
	if m.UpdateRequestStatusFn != nil {
		return m.UpdateRequestStatusFn(ctx, tx, requestID, guard, newStatus, staffNotes, approvedAt, updatedBy, now)
	}
	args := m.Called(ctx, tx, requestID, guard, newStatus, staffNotes, approvedAt, updatedBy, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) UpdateRequestAmountInTx(ctx context.Context, tx pgx.Tx, requestID string, amount decimal.Decimal, updatedBy string, now time.Time) error {
	if m.UpdateRequestAmountFn != nil {
		return m.UpdateRequestAmountFn(ctx, tx, requestID, amount, updatedBy, now)
	}
	args := m.Called(ctx, tx, requestID, amount, updatedBy, now)
	return args.Error(0)
}

func (m *MockPaymentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.BeginFn != nil {
		return m.BeginFn(ctx)
	}
	return nil, nil
}

func (m *MockPaymentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if m.CommitFn != nil {
		return m.CommitFn(ctx, tx)
	}
	return nil
}

func (m *MockPaymentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if m.RollbackFn != nil {
		return m.RollbackFn(ctx, tx)
	}
	return nil
}

// --- Mock CustomerRepository ---

type MockCustomerRepository struct {
	mock.Mock
	FindCustomerByIDFn         func(ctx context.Context, customerID string) (*domain.Customer, error)
	FindCustomersByPhoneFn     func(ctx context.Context, phoneNumber string) ([]domain.Customer, error)
	ListCustomersFn            func(ctx context.Context, limit, offset int) ([]domain.Customer, error)
	UpdateCustomerFn           func(ctx context.Context, customer domain.Customer) error
	DeleteCustomerFn           func(ctx context.Context, customerID string) error
	UpsertCustomerByPhoneInTxFn func(ctx context.Context, tx pgx.Tx, customer domain.Customer) (string, error)
}

var _ portsrepo.CustomerRepositoryFacade = (*MockCustomerRepository)(nil)

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	if m.FindCustomerByIDFn != nil {
		return m.FindCustomerByIDFn(ctx, customerID)
	}
	args := m.Called(ctx, customerID)
	var c *domain.Customer
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Customer)
	}
	return c, args.Error(1)
}

func (m *MockCustomerRepository) FindCustomersByPhone(ctx context.Context, phoneNumber string) ([]domain.Customer, error) {
	if m.FindCustomersByPhoneFn != nil {
		return m.FindCustomersByPhoneFn(ctx, phoneNumber)
	}
	args := m.Called(ctx, phoneNumber)
	var cs []domain.Customer
	if args.Get(0) != nil {
		cs = args.Get(0).([]domain.Customer)
	}
	return cs, args.Error(1)
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	if m.ListCustomersFn != nil {
		return m.ListCustomersFn(ctx, limit, offset)
	}
	args := m.Called(ctx, limit, offset)
	var cs []domain.Customer
	if args.Get(0) != nil {
		cs = args.Get(0).([]domain.Customer)
	}
	return cs, args.Error(1)
}

func (m *MockCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	if m.UpdateCustomerFn != nil {
		return m.UpdateCustomerFn(ctx, customer)
	}
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteCustomer(ctx context.Context, customerID string) error {
	if m.DeleteCustomerFn != nil {
		return m.DeleteCustomerFn(ctx, customerID)
	}
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpsertCustomerByPhoneInTx(ctx context.Context, tx pgx.Tx, customer domain.Customer) (string, error) {
	if m.UpsertCustomerByPhoneInTxFn != nil {
		return m.UpsertCustomerByPhoneInTxFn(ctx, tx, customer)
	}
	args := m.Called(ctx, tx, customer)
	return args.String(0), args.Error(1)
}

// --- Mock CompanyRepository ---

type MockCompanyRepository struct {
	mock.Mock
	SaveCompanyFn       func(ctx context.Context, company domain.Company) error
	FindCompanyByIDFn   func(ctx context.Context, companyID string) (*domain.Company, error)
	ListCompaniesFn     func(ctx context.Context, includeInactive bool) ([]domain.Company, error)
	UpdateCompanyFn     func(ctx context.Context, company domain.Company) error
	DeactivateCompanyFn func(ctx context.Context, companyID, updatedBy string, now time.Time) error
}

var _ portsrepo.CompanyRepositoryFacade = (*MockCompanyRepository)(nil)

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	if m.SaveCompanyFn != nil {
		return m.SaveCompanyFn(ctx, company)
	}
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	if m.FindCompanyByIDFn != nil {
		return m.FindCompanyByIDFn(ctx, companyID)
	}
	args := m.Called(ctx, companyID)
	var c *domain.Company
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Company)
	}
	return c, args.Error(1)
}

func (m *MockCompanyRepository) ListCompanies(ctx context.Context, includeInactive bool) ([]domain.Company, error) {
	if m.ListCompaniesFn != nil {
		return m.ListCompaniesFn(ctx, includeInactive)
	}
	args := m.Called(ctx, includeInactive)
	var cs []domain.Company
	if args.Get(0) != nil {
		cs = args.Get(0).([]domain.Company)
	}
	return cs, args.Error(1)
}

func (m *MockCompanyRepository) UpdateCompany(ctx context.Context, company domain.Company) error {
	if m.UpdateCompanyFn != nil {
		return m.UpdateCompanyFn(ctx, company)
	}
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) DeactivateCompany(ctx context.Context, companyID string, updatedBy string, now time.Time) error {
	if m.DeactivateCompanyFn != nil {
		return m.DeactivateCompanyFn(ctx, companyID, updatedBy, now)
	}
	args := m.Called(ctx, companyID, updatedBy, now)
	return args.Error(0)
}

// --- Mock NotificationRepository ---

type MockNotificationRepository struct {
	mock.Mock
	InsertNotificationInTxFn          func(ctx context.Context, tx pgx.Tx, n domain.Notification) error
	InsertNotificationForAdminsInTxFn func(ctx context.Context, tx pgx.Tx, title, message string, now time.Time) error
	ListNotificationsFn               func(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error)
	CountUnreadFn                     func(ctx context.Context, userID string) (int, error)
	MarkNotificationReadFn            func(ctx context.Context, userID, notificationID string) error
	MarkAllNotificationsReadFn        func(ctx context.Context, userID string) error
}

var _ portsrepo.NotificationRepositoryFacade = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) InsertNotificationInTx(ctx context.Context, tx pgx.Tx, n domain.Notification) error {
	if m.InsertNotificationInTxFn != nil {
		return m.InsertNotificationInTxFn(ctx, tx, n)
	}
	return nil
}

func (m *MockNotificationRepository) InsertNotificationForAdminsInTx(ctx context.Context, tx pgx.Tx, title string, message string, now time.Time) error {
	if m.InsertNotificationForAdminsInTxFn != nil {
		return m.InsertNotificationForAdminsInTxFn(ctx, tx, title, message, now)
	}
	return nil
}

func (m *MockNotificationRepository) ListNotifications(ctx context.Context, userID string, limit int, offset int) ([]domain.Notification, error) {
	if m.ListNotificationsFn != nil {
		return m.ListNotificationsFn(ctx, userID, limit, offset)
	}
	args := m.Called(ctx, userID, limit, offset)
	var ns []domain.Notification
	if args.Get(0) != nil {
		ns = args.Get(0).([]domain.Notification)
	}
	return ns, args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	if m.CountUnreadFn != nil {
		return m.CountUnreadFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkNotificationRead(ctx context.Context, userID string, notificationID string) error {
	if m.MarkNotificationReadFn != nil {
		return m.MarkNotificationReadFn(ctx, userID, notificationID)
	}
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if m.MarkAllNotificationsReadFn != nil {
		return m.MarkAllNotificationsReadFn(ctx, userID)
	}
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock Notifier ---

type MockNotifier struct {
	Calls []NotifyCall
}

type NotifyCall struct {
	Phone   string
	Title   string
	Message string
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Notify(ctx context.Context, phone string, title string, message string) {
	m.Calls = append(m.Calls, NotifyCall{Phone: phone, Title: title, Message: message})
}
