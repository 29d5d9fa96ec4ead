package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/security"
	"driveshare-backend/internal/service"
)

type MockBankingService struct {
	mock.Mock
}

func (m *MockBankingService) Execute(ctx context.Context, guestID int32, cmd service.BankingCommand) (*service.BankingResult, error) {
	args := m.Called(ctx, guestID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BankingResult), args.Error(1)
}

func (m *MockBankingService) RetryDueCharges(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockBankingService) CreateTripCharge(ctx context.Context, bookingID int32, description string, amountCents int64) (*domain.TripCharge, error) {
	args := m.Called(ctx, bookingID, description, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TripCharge), args.Error(1)
}

func (m *MockBankingService) ListBookingCharges(ctx context.Context, guestID, bookingID int32) ([]domain.TripCharge, error) {
	args := m.Called(ctx, guestID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TripCharge), args.Error(1)
}

type MockPaymentLockService struct {
	mock.Mock
}

func (m *MockPaymentLockService) IsLocked(ctx context.Context, paymentMethodRef string, guestID int32) (domain.PaymentMethodLock, error) {
	args := m.Called(ctx, paymentMethodRef, guestID)
	return args.Get(0).(domain.PaymentMethodLock), args.Error(1)
}

func bankingTestRouter(banking service.BankingService, tokens security.TokenManager) *mux.Router {
	handler := NewBankingHandler(banking, new(MockPaymentLockService))
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))
	api.HandleFunc("/banking/{guestID}", handler.Execute).Methods(http.MethodPost)
	return r
}

func postBanking(t *testing.T, router *mux.Router, token, guestID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/banking/"+guestID, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBankingExecute_CallerScoping(t *testing.T) {
	tokens := security.NewTokenManager("test-secret", 60)

	t.Run("Stranger Cannot Charge Another Guest", func(t *testing.T) {
		banking := new(MockBankingService)
		router := bankingTestRouter(banking, tokens)
		token, _ := tokens.GenerateToken(99, "stranger@test.com", security.RoleGuest)

		rec := postBanking(t, router, token, "10", `{"action":"charge","trip_charge_id":5}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		banking.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Stranger Cannot Refund Another Guest", func(t *testing.T) {
		banking := new(MockBankingService)
		router := bankingTestRouter(banking, tokens)
		token, _ := tokens.GenerateToken(99, "stranger@test.com", security.RoleGuest)

		rec := postBanking(t, router, token, "10", `{"action":"refund","booking_id":1,"amount_cents":30000,"reason":"r"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		banking.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Guest Settles Own Account", func(t *testing.T) {
		banking := new(MockBankingService)
		banking.On("Execute", mock.Anything, int32(10), service.ChargeCommand{TripChargeID: 5}).
			Return(&service.BankingResult{Action: "charge", ChargeOutcome: "charged"}, nil)
		router := bankingTestRouter(banking, tokens)
		token, _ := tokens.GenerateToken(10, "guest@test.com", security.RoleGuest)

		rec := postBanking(t, router, token, "10", `{"action":"charge","trip_charge_id":5}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		banking.AssertExpectations(t)
	})

	t.Run("Guest Cannot Waive Own Charge", func(t *testing.T) {
		banking := new(MockBankingService)
		router := bankingTestRouter(banking, tokens)
		token, _ := tokens.GenerateToken(10, "guest@test.com", security.RoleGuest)

		rec := postBanking(t, router, token, "10", `{"action":"waive","trip_charge_id":5,"percentage":100,"reason":"r"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		banking.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fleet Acts On Any Guest", func(t *testing.T) {
		banking := new(MockBankingService)
		banking.On("Execute", mock.Anything, int32(10), service.RefundCommand{BookingID: 1, AmountCents: 30000, Reason: "goodwill"}).
			Return(&service.BankingResult{Action: "refund"}, nil)
		router := bankingTestRouter(banking, tokens)
		token, _ := tokens.GenerateToken(1, "ops@test.com", security.RoleFleet)

		rec := postBanking(t, router, token, "10", `{"action":"refund","booking_id":1,"amount_cents":30000,"reason":"goodwill"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		banking.AssertExpectations(t)
	})
}
