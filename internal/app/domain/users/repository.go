package users

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
	List(ctx context.Context, roleFilter string, limit, offset int) ([]models.UserProfile, int64, error)
	Get(ctx context.Context, id string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) (*models.UserProfile, error)
	UpdateRole(ctx context.Context, id, role string) (*models.UserProfile, error)
	SetActive(ctx context.Context, id string, active bool) error
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

var userColumns = []string{
	"id", "email", "first_name", "last_name", "role", "phone_number",
	"is_active", "is_verified", "created_at",
}

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var u models.UserProfile
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role,
		&u.PhoneNumber, &u.IsActive, &u.IsVerified, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns one page of users plus the unfiltered-match total for the
// pagination envelope.
func (r *PostgresRepo) List(ctx context.Context, roleFilter string, limit, offset int) ([]models.UserProfile, int64, error) {
	countBuilder := psql.Select("COUNT(*)").From("users")
	listBuilder := psql.Select(userColumns...).
		From("users").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if roleFilter != "" {
		countBuilder = countBuilder.Where(sq.Eq{"role": roleFilter})
		listBuilder = listBuilder.Where(sq.Eq{"role": roleFilter})
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build user count query: %w", err)
	}
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build user list query: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.UserProfile{}
	for rows.Next() {
		u, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	query := `SELECT ` + strings.Join(userColumns, ", ") + ` FROM users WHERE id = $1`

	u, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return u, nil
}

func (r *PostgresRepo) UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) (*models.UserProfile, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, phone_number = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + strings.Join(userColumns, ", ")

	u, err := scanProfile(r.pool.QueryRow(ctx, query, id, firstName, lastName, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

func (r *PostgresRepo) UpdateRole(ctx context.Context, id, role string) (*models.UserProfile, error) {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + strings.Join(userColumns, ", ")

	u, err := scanProfile(r.pool.QueryRow(ctx, query, id, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return u, nil
}

func (r *PostgresRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		id, active)
	if err != nil {
		return fmt.Errorf("failed to update account state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
