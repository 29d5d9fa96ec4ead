package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type claimRepository struct {
	db *sql.DB
}

func NewClaimRepository(db *sql.DB) repository.ClaimRepository {
	return &claimRepository{db: db}
}

const claimColumns = `id, booking_id, policy_id, claim_type, status, description,
	deductible_cents, estimated_cost_cents, approved_amount_cents, incident_date,
	filed_by_role, filed_by_guest_id, guest_at_fault,
	guest_response_text, guest_response_date, guest_response_deadline,
	review_notes, payout_reference, created_on, updated_on`

func scanClaim(row interface{ Scan(...any) error }, c *domain.Claim) error {
	return row.Scan(&c.ID, &c.BookingID, &c.PolicyID, &c.Type, &c.Status, &c.Description,
		&c.DeductibleCents, &c.EstimatedCostCents, &c.ApprovedAmountCents, &c.IncidentDate,
		&c.FiledByRole, &c.FiledByGuestID, &c.GuestAtFault,
		&c.GuestResponseText, &c.GuestResponseDate, &c.GuestResponseDeadline,
		&c.ReviewNotes, &c.PayoutReference, &c.CreatedOn, &c.UpdatedOn)
}

func (r *claimRepository) Create(ctx context.Context, c *domain.Claim) error {
	query := `INSERT INTO claims (booking_id, policy_id, claim_type, status, description,
	          deductible_cents, estimated_cost_cents, incident_date,
	          filed_by_role, filed_by_guest_id, guest_at_fault, guest_response_deadline, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, c.BookingID, c.PolicyID, c.Type, c.Status, c.Description,
		c.DeductibleCents, c.EstimatedCostCents, c.IncidentDate,
		c.FiledByRole, c.FiledByGuestID, c.GuestAtFault, c.GuestResponseDeadline, time.Now(), time.Now()).Scan(&c.ID)
	// Partial unique index claims_live_booking_filer_idx backs the
	// eligibility gate against concurrent filings.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return repository.ErrDuplicateClaim
	}
	return err
}

func (r *claimRepository) GetByID(ctx context.Context, id int32) (*domain.Claim, error) {
	c := &domain.Claim{}
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`
	err := scanClaim(r.db.QueryRowContext(ctx, query, id), c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *claimRepository) Update(ctx context.Context, c *domain.Claim) error {
	query := `UPDATE claims SET status=$1, approved_amount_cents=$2, estimated_cost_cents=$3,
	          guest_response_text=$4, guest_response_date=$5,
	          review_notes=$6, payout_reference=$7, guest_at_fault=$8, updated_on=$9 WHERE id=$10`
	_, err := r.db.ExecContext(ctx, query, c.Status, c.ApprovedAmountCents, c.EstimatedCostCents,
		c.GuestResponseText, c.GuestResponseDate,
		c.ReviewNotes, c.PayoutReference, c.GuestAtFault, time.Now(), c.ID)
	return err
}

func (r *claimRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE booking_id = $1 ORDER BY created_on DESC`
	return r.list(ctx, query, bookingID)
}

func (r *claimRepository) ListForGuest(ctx context.Context, guestID int32) ([]domain.Claim, error) {
	// Claims the guest filed, plus claims on the guest's bookings filed
	// by any other party (host, fleet, partner, legacy).
	query := `SELECT ` + claimColumns + ` FROM claims
	          WHERE filed_by_guest_id = $1
	             OR booking_id IN (SELECT id FROM bookings WHERE guest_id = $1)
	          ORDER BY created_on DESC`
	return r.list(ctx, query, guestID)
}

func (r *claimRepository) list(ctx context.Context, query string, args ...any) ([]domain.Claim, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []domain.Claim
	for rows.Next() {
		var c domain.Claim
		if err := scanClaim(rows, &c); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

func (r *claimRepository) HasOpenClaimAgainstGuest(ctx context.Context, guestID int32) (bool, error) {
	// "Against the guest" means a claim on one of the guest's bookings
	// not filed by the guest themselves. NULL filed_by_role rows are
	// legacy host filings.
	query := `SELECT count(*) FROM claims c
	          JOIN bookings b ON b.id = c.booking_id
	          WHERE b.guest_id = $1
	            AND (c.filed_by_guest_id IS NULL OR c.filed_by_guest_id <> $1)
	            AND c.status NOT IN ($2, $3, $4, $5)`
	var count int32
	err := r.db.QueryRowContext(ctx, query, guestID,
		domain.ClaimStatusDenied, domain.ClaimStatusPaid, domain.ClaimStatusResolved, domain.ClaimStatusClosed).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *claimRepository) AddPhoto(ctx context.Context, photo *domain.ClaimPhoto) error {
	query := `INSERT INTO claim_photos (claim_id, url, caption) VALUES ($1, $2, $3) RETURNING id`
	return r.db.QueryRowContext(ctx, query, photo.ClaimID, photo.URL, photo.Caption).Scan(&photo.ID)
}

func (r *claimRepository) GetPhotos(ctx context.Context, claimID int32) ([]domain.ClaimPhoto, error) {
	query := `SELECT id, claim_id, url, caption FROM claim_photos WHERE claim_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.ClaimPhoto
	for rows.Next() {
		var p domain.ClaimPhoto
		if err := rows.Scan(&p.ID, &p.ClaimID, &p.URL, &p.Caption); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
