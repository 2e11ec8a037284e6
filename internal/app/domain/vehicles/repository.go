package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/models"
)

// Ensure implementation satisfies the interface
var _ Repo = (*PostgresRepo)(nil)

type Repo interface {
	List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error)
	Get(ctx context.Context, id string) (*models.Vehicle, error)
	Create(ctx context.Context, v models.Vehicle) (*models.Vehicle, error)
	Update(ctx context.Context, v models.Vehicle) (*models.Vehicle, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type PostgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresRepo(pool *pgxpool.Pool, logger *zap.Logger) *PostgresRepo {
	return &PostgresRepo{pool: pool, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var vehicleColumns = []string{
	"id", "registration_number", "brand", "model", "year", "color",
	"capacity", "fuel_type", "car_type", "daily_rental_price",
	"with_driver_premium", "status", "current_location", "total_km",
	"image_url", "acquired_date", "created_at", "updated_at",
}

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(&v.ID, &v.RegistrationNumber, &v.Brand, &v.Model, &v.Year,
		&v.Color, &v.Capacity, &v.FuelType, &v.CarType, &v.DailyRentalPrice,
		&v.WithDriverPremium, &v.Status, &v.CurrentLocation, &v.TotalKM,
		&v.ImageURL, &v.AcquiredDate, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns vehicles matching the filter, newest first. Empty filter
// fields are simply not applied.
func (r *PostgresRepo) List(ctx context.Context, filter models.VehicleFilter) ([]models.Vehicle, error) {
	builder := psql.Select(vehicleColumns...).
		From("vehicles").
		OrderBy("created_at DESC")

	if filter.CarType != "" {
		builder = builder.Where(sq.Eq{"car_type": filter.CarType})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build vehicle query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	query, args, err := psql.Select(vehicleColumns...).
		From("vehicles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build vehicle query: %w", err)
	}

	v, err := scanVehicle(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch vehicle: %w", err)
	}
	return v, nil
}

func (r *PostgresRepo) Create(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	query := `
		INSERT INTO vehicles (registration_number, brand, model, year, color,
			capacity, fuel_type, car_type, daily_rental_price,
			with_driver_premium, status, current_location, total_km,
			image_url, acquired_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + columnList()

	created, err := scanVehicle(r.pool.QueryRow(ctx, query,
		v.RegistrationNumber, v.Brand, v.Model, v.Year, v.Color, v.Capacity,
		v.FuelType, v.CarType, v.DailyRentalPrice, v.WithDriverPremium,
		v.Status, v.CurrentLocation, v.TotalKM, v.ImageURL, v.AcquiredDate))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("registration number already exists: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return created, nil
}

func (r *PostgresRepo) Update(ctx context.Context, v models.Vehicle) (*models.Vehicle, error) {
	query := `
		UPDATE vehicles
		SET brand = $2, model = $3, year = $4, color = $5, capacity = $6,
			fuel_type = $7, car_type = $8, daily_rental_price = $9,
			with_driver_premium = $10, status = $11, current_location = $12,
			total_km = $13, image_url = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + columnList()

	updated, err := scanVehicle(r.pool.QueryRow(ctx, query,
		v.ID, v.Brand, v.Model, v.Year, v.Color, v.Capacity, v.FuelType,
		v.CarType, v.DailyRentalPrice, v.WithDriverPremium, v.Status,
		v.CurrentLocation, v.TotalKM, v.ImageURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}
	return updated, nil
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vehicles SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("failed to update vehicle status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func columnList() string {
	return strings.Join(vehicleColumns, ", ")
}
