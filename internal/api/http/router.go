package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"driveshare-backend/internal/security"
	"driveshare-backend/internal/service"
)

// NewRouter wires every API route behind bearer-token auth. Fleet-only
// routes get the extra role check on top.
func NewRouter(
	tokens security.TokenManager,
	auth service.AuthService,
	claims service.ClaimService,
	eligibility service.EligibilityService,
	tripIssues service.TripIssueService,
	banking service.BankingService,
	locks service.PaymentLockService,
	notifications service.NotificationService,
) *mux.Router {
	authHandler := NewAuthHandler(auth)
	claimsHandler := NewClaimsHandler(claims, eligibility)
	tripIssuesHandler := NewTripIssuesHandler(tripIssues)
	bankingHandler := NewBankingHandler(banking, locks)
	notificationsHandler := NewNotificationsHandler(notifications)

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/auth/register", authHandler.Register).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/claims", claimsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/claims", claimsHandler.File).Methods(http.MethodPost)
	api.HandleFunc("/claims/eligibility", claimsHandler.Eligibility).Methods(http.MethodGet)
	api.HandleFunc("/claims/{id}", claimsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/claims/{id}/response", claimsHandler.Respond).Methods(http.MethodPost)
	api.HandleFunc("/claims/{id}/review", RequireFleet(claimsHandler.StartReview)).Methods(http.MethodPost)
	api.HandleFunc("/claims/{id}/adjudicate", RequireFleet(claimsHandler.Adjudicate)).Methods(http.MethodPost)
	api.HandleFunc("/claims/{id}/paid", RequireFleet(claimsHandler.MarkPaid)).Methods(http.MethodPost)

	api.HandleFunc("/trip-issues", tripIssuesHandler.Report).Methods(http.MethodPost)
	api.HandleFunc("/trip-issues/{id}/acknowledge", tripIssuesHandler.Acknowledge).Methods(http.MethodPost)
	api.HandleFunc("/trip-issues/{id}/dispute", tripIssuesHandler.Dispute).Methods(http.MethodPost)
	api.HandleFunc("/trip-issues/{id}/resolve", RequireFleet(tripIssuesHandler.Resolve)).Methods(http.MethodPost)

	api.HandleFunc("/banking/{guestID}", bankingHandler.Execute).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/charges", bankingHandler.BookingCharges).Methods(http.MethodGet)
	api.HandleFunc("/payment-methods/{id}/lock", bankingHandler.PaymentMethodLock).Methods(http.MethodGet)

	api.HandleFunc("/notifications", notificationsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", notificationsHandler.MarkAsRead).Methods(http.MethodPost)

	api.HandleFunc("/guests/{id}/status", RequireFleet(authHandler.UpdateAccountStatus)).Methods(http.MethodPost)

	return r
}
