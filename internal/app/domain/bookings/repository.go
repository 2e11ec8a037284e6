package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ Repo = (*PostgresRepo)(nil)

type Repo interface {
	Create(ctx context.Context, b models.Booking) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListAll(ctx context.Context, statusFilter string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AssignDriver(ctx context.Context, bookingID, driverID string) error
	UpdatePayment(ctx context.Context, id, paymentStatus string, gatewayOrderID, gatewayPaymentID *string) error
}

type PostgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresRepo(pool *pgxpool.Pool, logger *zap.Logger) *PostgresRepo {
	return &PostgresRepo{pool: pool, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var bookingColumns = []string{
	"id", "user_id", "booking_type", "number_of_days", "driver_option",
	"assigned_driver", "pickup_location", "dropoff_location", "pickup_date",
	"pickup_time", "phone", "agree_to_terms", "payment_method",
	"total_amount", "payment_status", "gateway_order_id",
	"gateway_payment_id", "status", "created_at", "updated_at",
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.BookingType, &b.NumberOfDays,
		&b.DriverOption, &b.AssignedDriverID, &b.PickupLocation,
		&b.DropoffLocation, &b.PickupDate, &b.PickupTime, &b.Phone,
		&b.AgreeToTerms, &b.PaymentMethod, &b.TotalAmount, &b.PaymentStatus,
		&b.GatewayOrderID, &b.GatewayPaymentID, &b.Status,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b models.Booking) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (user_id, booking_type, number_of_days,
			driver_option, pickup_location, dropoff_location, pickup_date,
			pickup_time, phone, agree_to_terms, payment_method, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + strings.Join(bookingColumns, ", ")

	created, err := scanBooking(r.pool.QueryRow(ctx, query,
		b.UserID, b.BookingType, b.NumberOfDays, b.DriverOption,
		b.PickupLocation, b.DropoffLocation, b.PickupDate, b.PickupTime,
		b.Phone, b.AgreeToTerms, b.PaymentMethod, b.TotalAmount))
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return created, nil
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*models.Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("bookings").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build booking query: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return b, nil
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("bookings").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build booking query: %w", err)
	}
	return r.queryBookings(ctx, query, args...)
}

// ListAll is the manager/admin view, optionally narrowed by status.
func (r *PostgresRepo) ListAll(ctx context.Context, statusFilter string) ([]models.Booking, error) {
	builder := psql.Select(bookingColumns...).
		From("bookings").
		OrderBy("created_at DESC")
	if statusFilter != "" {
		builder = builder.Where(sq.Eq{"status": statusFilter})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build booking query: %w", err)
	}
	return r.queryBookings(ctx, query, args...)
}

func (r *PostgresRepo) queryBookings(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) AssignDriver(ctx context.Context, bookingID, driverID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bookings SET assigned_driver = $2, updated_at = NOW() WHERE id = $1`,
		bookingID, driverID)
	if err != nil {
		return fmt.Errorf("failed to assign driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdatePayment records gateway progress on the booking row. Nil gateway
// ids leave the stored values untouched.
func (r *PostgresRepo) UpdatePayment(ctx context.Context, id, paymentStatus string, gatewayOrderID, gatewayPaymentID *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET payment_status = $2,
			gateway_order_id = COALESCE($3, gateway_order_id),
			gateway_payment_id = COALESCE($4, gateway_payment_id),
			updated_at = NOW()
		WHERE id = $1`,
		id, paymentStatus, gatewayOrderID, gatewayPaymentID)
	if err != nil {
		return fmt.Errorf("failed to update booking payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
