package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/escuela-musica-api/internal/models"
)

// PaymentRepository persists payments attached to sales.
type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO payments (id, sale_id, method, payment_date, status, amount, description, transaction_number, created_at)
		VALUES (:id, :sale_id, :method, :payment_date, :status, :amount, :description, :transaction_number, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// ExistsForSale reports whether the sale already has a payment.
func (r *PaymentRepository) ExistsForSale(ctx context.Context, saleID string) (bool, error) {
	var found int
	if err := r.db.GetContext(ctx, &found, `SELECT 1 FROM payments WHERE sale_id = $1 LIMIT 1`, saleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check sale payment: %w", err)
	}
	return true, nil
}

// ListBySale returns the payments of a sale, newest first.
func (r *PaymentRepository) ListBySale(ctx context.Context, saleID string) ([]models.Payment, error) {
	const query = `SELECT id, sale_id, method, payment_date, status, amount, description, transaction_number, created_at
		FROM payments WHERE sale_id = $1 ORDER BY payment_date DESC`
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, saleID); err != nil {
		return nil, fmt.Errorf("list sale payments: %w", err)
	}
	return payments, nil
}

// DeleteBySale removes the payments of a sale.
func (r *PaymentRepository) DeleteBySale(ctx context.Context, exec sqlx.ExtContext, saleID string) error {
	if _, err := pick(exec, r.db).ExecContext(ctx, `DELETE FROM payments WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale payments: %w", err)
	}
	return nil
}
