package drivers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ Repo = (*PostgresRepo)(nil)

type Repo interface {
	Create(ctx context.Context, d models.Driver) (*models.Driver, error)
	Get(ctx context.Context, id string) (*models.Driver, error)
	List(ctx context.Context, onlyAvailable bool) ([]models.Driver, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Verify(ctx context.Context, id string) (*models.Driver, error)
	Delete(ctx context.Context, id string) error
}

type PostgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresRepo(pool *pgxpool.Pool, logger *zap.Logger) *PostgresRepo {
	return &PostgresRepo{pool: pool, logger: logger}
}

// Profile names come from the joined users row.
const driverSelect = `
	SELECT d.id, d.user_id, u.first_name, u.last_name, d.license_number,
		d.license_expiry, d.experience_years, d.total_trips,
		d.average_rating, d.assigned_vehicle, d.status, d.is_verified,
		d.verification_date, d.created_at, d.updated_at
	FROM drivers d
	JOIN users u ON u.id = d.user_id`

func scanDriver(row pgx.Row) (*models.Driver, error) {
	var d models.Driver
	err := row.Scan(&d.ID, &d.UserID, &d.FirstName, &d.LastName,
		&d.LicenseNumber, &d.LicenseExpiry, &d.ExperienceYears,
		&d.TotalTrips, &d.AverageRating, &d.AssignedVehicleID, &d.Status,
		&d.IsVerified, &d.VerifiedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresRepo) Create(ctx context.Context, d models.Driver) (*models.Driver, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO drivers (user_id, license_number, license_expiry, experience_years)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		d.UserID, d.LicenseNumber, d.LicenseExpiry, d.ExperienceYears).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("driver already registered: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*models.Driver, error) {
	driver, err := scanDriver(r.pool.QueryRow(ctx, driverSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch driver: %w", err)
	}
	return driver, nil
}

// List returns drivers, optionally narrowed to verified available ones
// (the set a booking may be assigned to).
func (r *PostgresRepo) List(ctx context.Context, onlyAvailable bool) ([]models.Driver, error) {
	query := driverSelect
	if onlyAvailable {
		query += ` WHERE d.is_verified AND d.status = 'available'`
	}
	query += ` ORDER BY d.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	drivers := []models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, *d)
	}
	return drivers, rows.Err()
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE drivers SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("failed to update driver status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Verify(ctx context.Context, id string) (*models.Driver, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE drivers
		SET is_verified = TRUE, verification_date = NOW(), updated_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to verify driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
