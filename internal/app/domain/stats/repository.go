package stats

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Querier is the pgx query surface the repository needs; *pgxpool.Pool
// satisfies it, and so do pgxmock pools in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ensure implementation satisfies the interface
var _ Repo = (*PostgresRepo)(nil)

type Repo interface {
	CountUsers(ctx context.Context) (int64, error)
	CountBookings(ctx context.Context) (int64, error)
	CountVehicles(ctx context.Context) (int64, error)
	CountDrivers(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (int64, error)
	BookingsByStatus(ctx context.Context) (map[string]int64, error)
}

type PostgresRepo struct {
	db     Querier
	logger *zap.Logger
}

func NewPostgresRepo(db Querier, logger *zap.Logger) *PostgresRepo {
	return &PostgresRepo{db: db, logger: logger}
}

func (r *PostgresRepo) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return n, nil
}

func (r *PostgresRepo) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *PostgresRepo) CountBookings(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bookings`)
}

func (r *PostgresRepo) CountVehicles(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM vehicles`)
}

func (r *PostgresRepo) CountDrivers(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM drivers`)
}

// TotalRevenue sums completed payments only.
func (r *PostgresRepo) TotalRevenue(ctx context.Context) (int64, error) {
	return r.count(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM payments WHERE status = 'completed'`)
}

func (r *PostgresRepo) BookingsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("bookings by status query failed: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan booking status row: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}
