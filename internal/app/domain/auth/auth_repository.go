package auth

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

// Repo is the persistence contract for accounts.
type Repo interface {
	CreateUser(ctx context.Context, user models.UserAuth) (*models.UserProfile, error)
	GetUserAuthByEmail(ctx context.Context, email string) (*models.UserAuth, error)
	GetUserByID(ctx context.Context, id string) (*models.UserProfile, error)
}

type PostgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresRepo(pool *pgxpool.Pool, logger *zap.Logger) *PostgresRepo {
	return &PostgresRepo{pool: pool, logger: logger}
}

const userColumns = `id, email, first_name, last_name, role, phone_number, is_active, is_verified, created_at`

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	var u models.UserProfile
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role,
		&u.PhoneNumber, &u.IsActive, &u.IsVerified, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new account. A duplicate email maps to
// models.ErrConflict.
func (r *PostgresRepo) CreateUser(ctx context.Context, user models.UserAuth) (*models.UserProfile, error) {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, role, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	profile, err := scanProfile(r.pool.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.PhoneNumber))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("email already registered: %w", models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return profile, nil
}

// GetUserAuthByEmail fetches the profile together with the password hash.
func (r *PostgresRepo) GetUserAuthByEmail(ctx context.Context, email string) (*models.UserAuth, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE email = $1`

	var u models.UserAuth
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role,
		&u.PhoneNumber, &u.IsActive, &u.IsVerified, &u.CreatedAt,
		&u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepo) GetUserByID(ctx context.Context, id string) (*models.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return profile, nil
}
