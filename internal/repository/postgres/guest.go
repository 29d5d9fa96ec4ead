package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

type guestRepository struct {
	db *sql.DB
}

func NewGuestRepository(db *sql.DB) repository.GuestRepository {
	return &guestRepository{db: db}
}

func (r *guestRepository) Create(ctx context.Context, g *domain.Guest) error {
	query := `INSERT INTO guests (name, email, password_hash, account_status, customer_ref, default_payment_method_ref, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query, g.Name, g.Email, g.PasswordHash, g.AccountStatus, g.CustomerRef, g.DefaultPaymentMethodRef, time.Now(), time.Now()).Scan(&g.ID)
}

func (r *guestRepository) GetByID(ctx context.Context, id int32) (*domain.Guest, error) {
	g := &domain.Guest{}
	query := `SELECT id, name, email, password_hash, account_status, customer_ref, default_payment_method_ref, created_on, updated_on FROM guests WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.Email, &g.PasswordHash, &g.AccountStatus, &g.CustomerRef, &g.DefaultPaymentMethodRef, &g.CreatedOn, &g.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *guestRepository) GetByEmail(ctx context.Context, email string) (*domain.Guest, error) {
	g := &domain.Guest{}
	query := `SELECT id, name, email, password_hash, account_status, customer_ref, default_payment_method_ref, created_on, updated_on FROM guests WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&g.ID, &g.Name, &g.Email, &g.PasswordHash, &g.AccountStatus, &g.CustomerRef, &g.DefaultPaymentMethodRef, &g.CreatedOn, &g.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *guestRepository) UpdateAccountStatus(ctx context.Context, id int32, status domain.AccountStatus) error {
	query := `UPDATE guests SET account_status=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}
