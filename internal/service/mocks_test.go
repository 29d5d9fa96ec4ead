package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/notify"
)

// MockGuestRepo
type MockGuestRepo struct {
	mock.Mock
}

func (m *MockGuestRepo) Create(ctx context.Context, guest *domain.Guest) error {
	args := m.Called(ctx, guest)
	return args.Error(0)
}
func (m *MockGuestRepo) GetByID(ctx context.Context, id int32) (*domain.Guest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}
func (m *MockGuestRepo) GetByEmail(ctx context.Context, email string) (*domain.Guest, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}
func (m *MockGuestRepo) UpdateAccountStatus(ctx context.Context, id int32, status domain.AccountStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetPolicy(ctx context.Context, policyID int32) (*domain.InsurancePolicy, error) {
	args := m.Called(ctx, policyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InsurancePolicy), args.Error(1)
}
func (m *MockBookingRepo) ListByGuest(ctx context.Context, guestID int32) ([]domain.Booking, error) {
	args := m.Called(ctx, guestID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) FindActiveByPaymentMethod(ctx context.Context, paymentMethodRef string) (*domain.Booking, error) {
	args := m.Called(ctx, paymentMethodRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdatePayment(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

// MockClaimRepo
type MockClaimRepo struct {
	mock.Mock
}

func (m *MockClaimRepo) Create(ctx context.Context, claim *domain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}
func (m *MockClaimRepo) GetByID(ctx context.Context, id int32) (*domain.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}
func (m *MockClaimRepo) Update(ctx context.Context, claim *domain.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}
func (m *MockClaimRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Claim, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Claim), args.Error(1)
}
func (m *MockClaimRepo) ListForGuest(ctx context.Context, guestID int32) ([]domain.Claim, error) {
	args := m.Called(ctx, guestID)
	return args.Get(0).([]domain.Claim), args.Error(1)
}
func (m *MockClaimRepo) HasOpenClaimAgainstGuest(ctx context.Context, guestID int32) (bool, error) {
	args := m.Called(ctx, guestID)
	return args.Bool(0), args.Error(1)
}
func (m *MockClaimRepo) AddPhoto(ctx context.Context, photo *domain.ClaimPhoto) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}
func (m *MockClaimRepo) GetPhotos(ctx context.Context, claimID int32) ([]domain.ClaimPhoto, error) {
	args := m.Called(ctx, claimID)
	return args.Get(0).([]domain.ClaimPhoto), args.Error(1)
}

// MockTripIssueRepo
type MockTripIssueRepo struct {
	mock.Mock
}

func (m *MockTripIssueRepo) Create(ctx context.Context, issue *domain.TripIssue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}
func (m *MockTripIssueRepo) GetByID(ctx context.Context, id int32) (*domain.TripIssue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripIssue), args.Error(1)
}
func (m *MockTripIssueRepo) GetActiveByBooking(ctx context.Context, bookingID int32) (*domain.TripIssue, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripIssue), args.Error(1)
}
func (m *MockTripIssueRepo) Update(ctx context.Context, issue *domain.TripIssue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}
func (m *MockTripIssueRepo) ListEscalatable(ctx context.Context, now time.Time) ([]domain.TripIssue, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.TripIssue), args.Error(1)
}

// MockTripChargeRepo
type MockTripChargeRepo struct {
	mock.Mock
}

func (m *MockTripChargeRepo) Create(ctx context.Context, charge *domain.TripCharge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}
func (m *MockTripChargeRepo) GetByID(ctx context.Context, id int32) (*domain.TripCharge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripCharge), args.Error(1)
}
func (m *MockTripChargeRepo) Update(ctx context.Context, charge *domain.TripCharge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}
func (m *MockTripChargeRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.TripCharge, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.TripCharge), args.Error(1)
}
func (m *MockTripChargeRepo) ListRetryable(ctx context.Context, now time.Time) ([]domain.TripCharge, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.TripCharge), args.Error(1)
}

// MockRefundRepo
type MockRefundRepo struct {
	mock.Mock
}

func (m *MockRefundRepo) Create(ctx context.Context, refund *domain.RefundRequest) error {
	args := m.Called(ctx, refund)
	return args.Error(0)
}
func (m *MockRefundRepo) ListByBooking(ctx context.Context, bookingID int32) ([]domain.RefundRequest, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.RefundRequest), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, guestID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, guestID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, guestID int32) error {
	args := m.Called(ctx, id, guestID)
	return args.Error(0)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Notify(ctx context.Context, to notify.Recipient, kind notify.TemplateKind, payload map[string]string) error {
	args := m.Called(ctx, to, kind, payload)
	return args.Error(0)
}
