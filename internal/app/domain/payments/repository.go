package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ Repo = (*PostgresRepo)(nil)

type Repo interface {
	Create(ctx context.Context, p models.Payment) (*models.Payment, error)
	GetByBooking(ctx context.Context, bookingID string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id, status, gatewayPaymentID string) error
}

type PostgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresRepo(pool *pgxpool.Pool, logger *zap.Logger) *PostgresRepo {
	return &PostgresRepo{pool: pool, logger: logger}
}

const paymentColumns = `id, booking_id, amount, tax, total_amount, payment_method,
	gateway_name, COALESCE(gateway_order_id, ''), COALESCE(gateway_payment_id, ''),
	status, transaction_date, created_at, updated_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Tax, &p.TotalAmount,
		&p.PaymentMethod, &p.GatewayName, &p.GatewayOrderID,
		&p.GatewayPaymentID, &p.Status, &p.TransactionDate,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepo) Create(ctx context.Context, p models.Payment) (*models.Payment, error) {
	query := `
		INSERT INTO payments (booking_id, amount, tax, total_amount,
			payment_method, gateway_name, gateway_order_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + paymentColumns

	created, err := scanPayment(r.pool.QueryRow(ctx, query,
		p.BookingID, p.Amount, p.Tax, p.TotalAmount, p.PaymentMethod,
		p.GatewayName, p.GatewayOrderID, p.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return created, nil
}

// GetByBooking returns the most recent payment attempt for a booking.
func (r *PostgresRepo) GetByBooking(ctx context.Context, bookingID string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments WHERE booking_id = $1
		ORDER BY created_at DESC LIMIT 1`

	p, err := scanPayment(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	return p, nil
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id, status, gatewayPaymentID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payments
		SET status = $2,
			gateway_payment_id = COALESCE(NULLIF($3, ''), gateway_payment_id),
			transaction_date = NOW(),
			updated_at = NOW()
		WHERE id = $1`,
		id, status, gatewayPaymentID)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
