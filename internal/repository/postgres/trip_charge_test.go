package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository/postgres"
)

var tripChargeTestColumns = []string{"id", "booking_id", "description", "total_charges_cents", "charge_status",
	"charge_attempts", "next_retry_at", "waive_percentage", "waived_amount_cents", "waive_reason",
	"dispute_notes", "requires_approval", "idempotency_key", "gateway_charge_id", "failure_reason",
	"charged_at", "created_on", "updated_on"}

func TestTripChargeRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTripChargeRepository(db)
	ctx := context.Background()

	charge := &domain.TripCharge{
		BookingID:         1,
		Description:       "Late return fee",
		TotalChargesCents: 4500,
		ChargeStatus:      domain.ChargeStatusPending,
		IdempotencyKey:    "key-5",
	}

	mock.ExpectQuery("INSERT INTO trip_charges").
		WithArgs(charge.BookingID, charge.Description, charge.TotalChargesCents, charge.ChargeStatus,
			charge.IdempotencyKey, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	err = repo.Create(ctx, charge)
	assert.NoError(t, err)
	assert.Equal(t, int32(5), charge.ID)
}

func TestTripChargeRepository_Update_PersistsIdempotencyKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTripChargeRepository(db)
	ctx := context.Background()

	charge := &domain.TripCharge{
		ID:             5,
		ChargeStatus:   domain.ChargeStatusFailed,
		ChargeAttempts: 2,
		FailureReason:  "card_declined",
		IdempotencyKey: "key-5",
	}

	mock.ExpectExec("UPDATE trip_charges SET").
		WithArgs(charge.ChargeStatus, charge.ChargeAttempts, charge.NextRetryAt,
			charge.WaivePercentage, charge.WaivedAmountCents, charge.WaiveReason,
			charge.DisputeNotes, charge.RequiresApproval, charge.IdempotencyKey, charge.GatewayChargeID,
			charge.FailureReason, charge.ChargedAt, sqlmock.AnyArg(), charge.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Update(ctx, charge)
	assert.NoError(t, err)
}

func TestTripChargeRepository_ListRetryable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewTripChargeRepository(db)
	ctx := context.Background()
	now := time.Now()
	retryAt := now.Add(-time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM trip_charges").
		WithArgs(domain.ChargeStatusFailed, now).
		WillReturnRows(sqlmock.NewRows(tripChargeTestColumns).
			AddRow(5, 1, "Late return fee", 4500, "FAILED",
				1, retryAt, 0, 0, "",
				"", false, "key-5", "", "card_declined",
				nil, now, now))

	charges, err := repo.ListRetryable(ctx, now)
	assert.NoError(t, err)
	assert.Len(t, charges, 1)
	assert.Equal(t, domain.ChargeStatusFailed, charges[0].ChargeStatus)
	assert.Equal(t, "key-5", charges[0].IdempotencyKey)
}
