package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type tripIssueRepository struct {
	db *sql.DB
}

func NewTripIssueRepository(db *sql.DB) repository.TripIssueRepository {
	return &tripIssueRepository{db: db}
}

const tripIssueColumns = `id, booking_id, issue_type, severity, description, status, dispute_reason,
	host_reported_at, guest_acknowledged_at, escalation_deadline, created_on, updated_on`

func scanTripIssue(row interface{ Scan(...any) error }, i *domain.TripIssue) error {
	return row.Scan(&i.ID, &i.BookingID, &i.Type, &i.Severity, &i.Description, &i.Status, &i.DisputeReason,
		&i.HostReportedAt, &i.GuestAcknowledgedAt, &i.EscalationDeadline, &i.CreatedOn, &i.UpdatedOn)
}

func (r *tripIssueRepository) Create(ctx context.Context, i *domain.TripIssue) error {
	query := `INSERT INTO trip_issues (booking_id, issue_type, severity, description, status,
	          host_reported_at, escalation_deadline, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query, i.BookingID, i.Type, i.Severity, i.Description, i.Status,
		i.HostReportedAt, i.EscalationDeadline, time.Now(), time.Now()).Scan(&i.ID)
}

func (r *tripIssueRepository) GetByID(ctx context.Context, id int32) (*domain.TripIssue, error) {
	i := &domain.TripIssue{}
	query := `SELECT ` + tripIssueColumns + ` FROM trip_issues WHERE id = $1`
	err := scanTripIssue(r.db.QueryRowContext(ctx, query, id), i)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *tripIssueRepository) GetActiveByBooking(ctx context.Context, bookingID int32) (*domain.TripIssue, error) {
	i := &domain.TripIssue{}
	query := `SELECT ` + tripIssueColumns + ` FROM trip_issues
	          WHERE booking_id = $1 AND status NOT IN ($2, $3) LIMIT 1`
	err := scanTripIssue(r.db.QueryRowContext(ctx, query, bookingID,
		domain.TripIssueStatusResolved, domain.TripIssueStatusEscalated), i)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *tripIssueRepository) Update(ctx context.Context, i *domain.TripIssue) error {
	query := `UPDATE trip_issues SET status=$1, dispute_reason=$2, guest_acknowledged_at=$3, updated_on=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, i.Status, i.DisputeReason, i.GuestAcknowledgedAt, time.Now(), i.ID)
	return err
}

func (r *tripIssueRepository) ListEscalatable(ctx context.Context, now time.Time) ([]domain.TripIssue, error) {
	query := `SELECT ` + tripIssueColumns + ` FROM trip_issues
	          WHERE status = $1 AND guest_acknowledged_at IS NULL AND escalation_deadline < $2
	          ORDER BY escalation_deadline`
	rows, err := r.db.QueryContext(ctx, query, domain.TripIssueStatusOpen, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []domain.TripIssue
	for rows.Next() {
		var i domain.TripIssue
		if err := scanTripIssue(rows, &i); err != nil {
			return nil, err
		}
		issues = append(issues, i)
	}
	return issues, rows.Err()
}
