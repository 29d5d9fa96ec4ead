package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/notify"
	"driveshare-backend/internal/payments"
	"driveshare-backend/internal/repository"
)

type bankingService struct {
	chargeRepo  repository.TripChargeRepository
	bookingRepo repository.BookingRepository
	refundRepo  repository.RefundRepository
	guestRepo   repository.GuestRepository
	gateway     payments.Gateway
	locks       PaymentLockService
	noteRepo    repository.NotificationRepository
	dispatcher  notify.Dispatcher
	// retryInterval is how long after a failed attempt the sweep may
	// try the charge again.
	retryInterval time.Duration
	now           func() time.Time
}

func NewBankingService(
	chargeRepo repository.TripChargeRepository,
	bookingRepo repository.BookingRepository,
	refundRepo repository.RefundRepository,
	guestRepo repository.GuestRepository,
	gateway payments.Gateway,
	locks PaymentLockService,
	noteRepo repository.NotificationRepository,
	dispatcher notify.Dispatcher,
	retryInterval time.Duration,
) BankingService {
	return &bankingService{
		chargeRepo:    chargeRepo,
		bookingRepo:   bookingRepo,
		refundRepo:    refundRepo,
		guestRepo:     guestRepo,
		gateway:       gateway,
		locks:         locks,
		noteRepo:      noteRepo,
		dispatcher:    dispatcher,
		retryInterval: retryInterval,
		now:           time.Now,
	}
}

// Execute runs one settlement action. The command set is closed; every
// variant is handled here and an unknown dynamic value is a validation
// error, not a silent fallthrough.
func (s *bankingService) Execute(ctx context.Context, guestID int32, cmd BankingCommand) (*BankingResult, error) {
	switch c := cmd.(type) {
	case ChargeCommand:
		return s.charge(ctx, guestID, c)
	case WaiveCommand:
		return s.waive(ctx, guestID, c)
	case RefundCommand:
		return s.refund(ctx, guestID, c)
	case AddBonusCommand:
		return s.addBonus(ctx, guestID, c)
	case EscalateDisputeCommand:
		return s.escalateDispute(ctx, guestID, c)
	default:
		return nil, &domain.ValidationError{Field: "action", Message: fmt.Sprintf("unsupported banking action %T", cmd)}
	}
}

func (s *bankingService) charge(ctx context.Context, guestID int32, cmd ChargeCommand) (*BankingResult, error) {
	charge, booking, err := s.loadChargeForGuest(ctx, guestID, cmd.TripChargeID)
	if err != nil {
		return nil, err
	}

	if !charge.ChargeStatus.Chargeable() {
		return nil, &domain.ConflictError{
			Resource: "trip_charge",
			Message:  fmt.Sprintf("charge is %s and cannot be charged again", charge.ChargeStatus),
		}
	}

	paymentMethod := cmd.PaymentMethodRef
	if paymentMethod == "" {
		paymentMethod = booking.PaymentMethodRef
	}
	if paymentMethod == "" || booking.CustomerRef == "" {
		// Missing binding is a recorded failure, not an exception: the
		// row keeps the latest known truth and the sweep retries later.
		return s.recordChargeFailure(ctx, charge, "payment method binding missing for booking")
	}

	// The lock state is advisory here: a claim-locked instrument is
	// still chargeable for its own booking's fees, but operators want
	// it surfaced.
	if lock, err := s.locks.IsLocked(ctx, paymentMethod, booking.GuestID); err == nil && lock.LockedForClaim {
		logger.Warn("Charging a claim-locked payment method", "trip_charge_id", charge.ID, "guest_id", booking.GuestID)
	}

	if charge.IdempotencyKey == "" {
		// Legacy rows predate key-at-creation. Persist the key before
		// the gateway call so a crash in between cannot mint a second
		// one on retry.
		charge.IdempotencyKey = uuid.NewString()
		if err := s.chargeRepo.Update(ctx, charge); err != nil {
			return nil, err
		}
	}

	// Gateway first, durable CHARGED second. If the process dies in
	// between, the row is still PENDING/FAILED and the reused
	// idempotency key makes the retry safe.
	result, err := s.gateway.Charge(ctx, payments.ChargeRequest{
		CustomerRef:      booking.CustomerRef,
		PaymentMethodRef: paymentMethod,
		AmountCents:      charge.TotalChargesCents,
		Description:      fmt.Sprintf("Trip charges for booking %s: %s", booking.BookingCode, charge.Description),
		IdempotencyKey:   charge.IdempotencyKey,
		Metadata:         map[string]string{"booking_code": booking.BookingCode, "trip_charge_id": fmt.Sprintf("%d", charge.ID)},
	})
	if err != nil {
		if _, ferr := s.recordChargeFailure(ctx, charge, fmt.Sprintf("gateway unreachable: %v", err)); ferr != nil {
			return nil, ferr
		}
		return nil, &domain.GatewayError{Op: "charge", Retryable: true, Err: err}
	}

	if result.Status != payments.ChargeSucceeded {
		// A decline is a normal outcome communicated via the failure
		// branch, never an error.
		return s.recordChargeFailure(ctx, charge, result.FailureReason)
	}

	now := s.now()
	charge.ChargeStatus = domain.ChargeStatusCharged
	charge.GatewayChargeID = result.GatewayChargeID
	charge.ChargedAt = &now
	charge.NextRetryAt = nil
	charge.FailureReason = ""
	if err := s.chargeRepo.Update(ctx, charge); err != nil {
		return nil, err
	}

	booking.PaymentStatus = domain.PaymentStatusPaid
	if err := s.bookingRepo.UpdatePayment(ctx, booking); err != nil {
		return nil, err
	}

	s.notifyGuest(ctx, booking.GuestID, notify.TemplateChargeProcessed,
		"Trip charge processed",
		fmt.Sprintf("Your card was charged %d cents for booking %s.", charge.TotalChargesCents, booking.BookingCode))

	logger.Info("Trip charge collected", "trip_charge_id", charge.ID, "gateway_charge_id", result.GatewayChargeID)
	return &BankingResult{Action: "charge", Charge: charge, Booking: booking, ChargeOutcome: "charged"}, nil
}

func (s *bankingService) recordChargeFailure(ctx context.Context, charge *domain.TripCharge, reason string) (*BankingResult, error) {
	retryAt := s.now().Add(s.retryInterval)
	charge.ChargeStatus = domain.ChargeStatusFailed
	charge.ChargeAttempts++
	charge.NextRetryAt = &retryAt
	charge.FailureReason = reason
	if err := s.chargeRepo.Update(ctx, charge); err != nil {
		return nil, err
	}
	logger.Warn("Trip charge failed", "trip_charge_id", charge.ID, "attempts", charge.ChargeAttempts, "reason", reason)
	return &BankingResult{Action: "charge", Charge: charge, ChargeOutcome: "failed"}, nil
}

func (s *bankingService) waive(ctx context.Context, guestID int32, cmd WaiveCommand) (*BankingResult, error) {
	if cmd.Reason == "" {
		return nil, &domain.ValidationError{Field: "reason", Message: "a waive reason is required"}
	}
	if cmd.Percentage <= 0 || cmd.Percentage > 100 {
		return nil, &domain.ValidationError{Field: "percentage", Message: "percentage must be between 1 and 100"}
	}

	charge, booking, err := s.loadChargeForGuest(ctx, guestID, cmd.TripChargeID)
	if err != nil {
		return nil, err
	}

	// Reapplying a waive must never stack amounts.
	if charge.ChargeStatus == domain.ChargeStatusWaived || charge.ChargeStatus == domain.ChargeStatusAdjusted {
		return nil, &domain.ConflictError{Resource: "trip_charge", Message: "charge was already waived"}
	}
	if charge.ChargeStatus == domain.ChargeStatusCharged {
		return nil, &domain.ConflictError{Resource: "trip_charge", Message: "charge was already collected; use a refund instead"}
	}

	waived := charge.TotalChargesCents * int64(cmd.Percentage) / 100
	charge.WaivePercentage = cmd.Percentage
	charge.WaivedAmountCents = waived
	charge.WaiveReason = cmd.Reason
	if cmd.Percentage == 100 {
		charge.ChargeStatus = domain.ChargeStatusWaived
	} else {
		charge.ChargeStatus = domain.ChargeStatusAdjusted
	}
	charge.NextRetryAt = nil
	if err := s.chargeRepo.Update(ctx, charge); err != nil {
		return nil, err
	}

	if cmd.Percentage == 100 {
		booking.PaymentStatus = domain.PaymentStatusWaived
		booking.WaivedAmountCents += waived
		booking.WaiveReason = cmd.Reason
		if err := s.bookingRepo.UpdatePayment(ctx, booking); err != nil {
			return nil, err
		}
	}

	logger.Info("Trip charge waived", "trip_charge_id", charge.ID, "percentage", cmd.Percentage, "waived_cents", waived)
	return &BankingResult{Action: "waive", Charge: charge, Booking: booking}, nil
}

func (s *bankingService) refund(ctx context.Context, guestID int32, cmd RefundCommand) (*BankingResult, error) {
	if cmd.AmountCents <= 0 {
		return nil, &domain.ValidationError{Field: "amount", Message: "refund amount must be positive"}
	}
	if cmd.Reason == "" {
		return nil, &domain.ValidationError{Field: "reason", Message: "a refund reason is required"}
	}

	booking, err := s.bookingRepo.GetByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != guestID {
		return nil, domain.ErrNotFound
	}
	if booking.PaymentIntentRef == "" {
		return nil, &domain.NotEligibleError{BlockReason: "booking has no captured payment to refund against"}
	}

	prior, err := s.refundRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	var priorCents int64
	for i := range prior {
		priorCents += prior[i].AmountCents
	}
	if priorCents+cmd.AmountCents > booking.TotalAmountCents {
		return nil, &domain.NotEligibleError{BlockReason: "refund would exceed the captured payment amount"}
	}

	// The key is derived from the refund ledger, not minted per call:
	// the same logical refund (same intent, same prior total, same
	// amount) always presents the same key, so a retry after an
	// ambiguous gateway failure cannot refund twice. Once a refund
	// lands in the ledger the prior total moves and the next refund
	// gets its own key.
	result, err := s.gateway.Refund(ctx, payments.RefundRequest{
		PaymentIntentRef: booking.PaymentIntentRef,
		AmountCents:      cmd.AmountCents,
		Reason:           cmd.Reason,
		IdempotencyKey:   refundIdempotencyKey(booking.PaymentIntentRef, priorCents, cmd.AmountCents),
	})
	if err != nil {
		return nil, &domain.GatewayError{Op: "refund", Retryable: true, Err: err}
	}

	refund := &domain.RefundRequest{
		BookingID:       booking.ID,
		AmountCents:     result.AmountCents,
		Reason:          cmd.Reason,
		Status:          domain.RefundStatusProcessed,
		GatewayRefundID: result.GatewayRefundID,
	}
	if err := s.refundRepo.Create(ctx, refund); err != nil {
		return nil, err
	}

	booking.RefundedTotalCents += result.AmountCents
	if booking.RefundedTotalCents >= booking.TotalAmountCents {
		booking.PaymentStatus = domain.PaymentStatusRefunded
	} else {
		booking.PaymentStatus = domain.PaymentStatusPartialRefund
	}
	if err := s.bookingRepo.UpdatePayment(ctx, booking); err != nil {
		return nil, err
	}

	// Confirmation is best-effort; a dispatch failure never rolls the
	// refund back.
	s.notifyGuest(ctx, booking.GuestID, notify.TemplateRefundProcessed,
		"Refund processed",
		fmt.Sprintf("A refund of %d cents was processed for booking %s.", result.AmountCents, booking.BookingCode))

	logger.Info("Refund processed", "booking_id", booking.ID, "amount_cents", result.AmountCents, "gateway_refund_id", result.GatewayRefundID)
	return &BankingResult{Action: "refund", Refund: refund, Booking: booking}, nil
}

// addBonus credits a goodwill amount onto the booking without touching
// the gateway. It shows up in the refund ledger as auto-approved.
func (s *bankingService) addBonus(ctx context.Context, guestID int32, cmd AddBonusCommand) (*BankingResult, error) {
	if cmd.AmountCents <= 0 {
		return nil, &domain.ValidationError{Field: "amount", Message: "bonus amount must be positive"}
	}

	booking, err := s.bookingRepo.GetByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != guestID {
		return nil, domain.ErrNotFound
	}

	refund := &domain.RefundRequest{
		BookingID:    booking.ID,
		AmountCents:  cmd.AmountCents,
		Reason:       cmd.Reason,
		Status:       domain.RefundStatusApproved,
		AutoApproved: true,
	}
	if err := s.refundRepo.Create(ctx, refund); err != nil {
		return nil, err
	}

	booking.RefundedTotalCents += cmd.AmountCents
	if err := s.bookingRepo.UpdatePayment(ctx, booking); err != nil {
		return nil, err
	}

	logger.Info("Goodwill bonus added", "booking_id", booking.ID, "amount_cents", cmd.AmountCents)
	return &BankingResult{Action: "add_bonus", Refund: refund, Booking: booking}, nil
}

func (s *bankingService) escalateDispute(ctx context.Context, guestID int32, cmd EscalateDisputeCommand) (*BankingResult, error) {
	charge, _, err := s.loadChargeForGuest(ctx, guestID, cmd.TripChargeID)
	if err != nil {
		return nil, err
	}

	if charge.ChargeStatus == domain.ChargeStatusDisputed {
		return nil, &domain.ConflictError{Resource: "trip_charge", Message: "charge is already disputed"}
	}
	if charge.ChargeStatus == domain.ChargeStatusWaived {
		return nil, &domain.ConflictError{Resource: "trip_charge", Message: "a waived charge has nothing to dispute"}
	}

	// Status and flag only; no money moves on escalation.
	charge.ChargeStatus = domain.ChargeStatusDisputed
	charge.RequiresApproval = true
	charge.DisputeNotes = cmd.Notes
	charge.NextRetryAt = nil
	if err := s.chargeRepo.Update(ctx, charge); err != nil {
		return nil, err
	}

	logger.Info("Trip charge disputed", "trip_charge_id", charge.ID)
	return &BankingResult{Action: "escalate_dispute", Charge: charge}, nil
}

func (s *bankingService) RetryDueCharges(ctx context.Context, now time.Time) (int, error) {
	charges, err := s.chargeRepo.ListRetryable(ctx, now)
	if err != nil {
		return 0, err
	}

	attempted := 0
	for i := range charges {
		charge := &charges[i]
		booking, err := s.bookingRepo.GetByID(ctx, charge.BookingID)
		if err != nil {
			logger.Error("Retry sweep: booking lookup failed", "trip_charge_id", charge.ID, "error", err)
			continue
		}
		if _, err := s.Execute(ctx, booking.GuestID, ChargeCommand{TripChargeID: charge.ID}); err != nil {
			logger.Error("Retry sweep: charge attempt errored", "trip_charge_id", charge.ID, "error", err)
			continue
		}
		attempted++
	}
	return attempted, nil
}

func (s *bankingService) CreateTripCharge(ctx context.Context, bookingID int32, description string, amountCents int64) (*domain.TripCharge, error) {
	if amountCents <= 0 {
		return nil, &domain.ValidationError{Field: "amount", Message: "charge amount must be positive"}
	}
	if _, err := s.bookingRepo.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}

	charge := &domain.TripCharge{
		BookingID:         bookingID,
		Description:       description,
		TotalChargesCents: amountCents,
		ChargeStatus:      domain.ChargeStatusPending,
		// One key for the charge's whole lifetime, across every retry.
		IdempotencyKey: uuid.NewString(),
	}
	if err := s.chargeRepo.Create(ctx, charge); err != nil {
		return nil, err
	}
	return charge, nil
}

func (s *bankingService) ListBookingCharges(ctx context.Context, guestID, bookingID int32) ([]domain.TripCharge, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != guestID {
		return nil, domain.ErrNotFound
	}
	return s.chargeRepo.ListByBooking(ctx, bookingID)
}

func refundIdempotencyKey(paymentIntentRef string, priorRefundedCents, amountCents int64) string {
	name := fmt.Sprintf("refund:%s:%d:%d", paymentIntentRef, priorRefundedCents, amountCents)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func (s *bankingService) loadChargeForGuest(ctx context.Context, guestID, chargeID int32) (*domain.TripCharge, *domain.Booking, error) {
	charge, err := s.chargeRepo.GetByID(ctx, chargeID)
	if err != nil {
		return nil, nil, err
	}
	booking, err := s.bookingRepo.GetByID(ctx, charge.BookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.GuestID != guestID {
		return nil, nil, domain.ErrNotFound
	}
	return charge, booking, nil
}

func (s *bankingService) notifyGuest(ctx context.Context, guestID int32, kind notify.TemplateKind, title, message string) {
	note := &domain.Notification{
		GuestID: guestID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type": string(kind),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("Failed to persist notification", "guest_id", guestID, "error", err)
	}

	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		logger.Warn("Failed to load guest for notification", "guest_id", guestID, "error", err)
		return
	}
	if err := s.dispatcher.Notify(ctx, notify.Recipient{Email: guest.Email, Name: guest.Name}, kind, map[string]string{"message": message}); err != nil {
		logger.Warn("Notification delivery failed", "guest_id", guestID, "kind", string(kind), "error", err)
	}
}
