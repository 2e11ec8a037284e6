package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/autornexus/platform/internal/app/domain/shell"
	"github.com/autornexus/platform/internal/app/models"
	"github.com/autornexus/platform/internal/pkg/config"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the authentication business logic.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (string, *models.UserProfile, error)
	Login(ctx context.Context, email, password string) (string, *models.UserProfile, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, userID string) (*models.UserProfile, error)
}

type SignupRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Role            string `json:"role"`
	PhoneNumber     string `json:"phone_number"`
}

type ServiceImpl struct {
	logger     *zap.Logger
	repo       Repo
	dispatcher shell.Dispatcher
	cfg        *config.Config
}

func NewService(repo Repo, dispatcher shell.Dispatcher, cfg *config.Config, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, dispatcher: dispatcher, cfg: cfg}
}

// Signup creates the account, then behaves exactly like a successful
// login: mints a token and registers the session.
func (s *ServiceImpl) Signup(ctx context.Context, req SignupRequest) (string, *models.UserProfile, error) {
	l := s.logger.With(zap.String("method", "Signup"), zap.String("email", req.Email))
	l.Debug("Attempting signup")

	tracer := otel.Tracer("autornexus-platform")
	ctx, span := tracer.Start(ctx, "AuthService.Signup")
	defer span.End()

	if fields := validateSignup(req); len(fields) > 0 {
		return "", nil, &ValidationError{Fields: fields}
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !models.SelfRegisterRoles[role] {
		l.Warn("signup with non self-registerable role", zap.String("role", role))
		return "", nil, fmt.Errorf("role %q not allowed at signup: %w", role, models.ErrInvalidRole)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile, err := s.repo.CreateUser(ctx, models.UserAuth{
		UserProfile: models.UserProfile{
			Email:       strings.ToLower(strings.TrimSpace(req.Email)),
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Role:        role,
			PhoneNumber: req.PhoneNumber,
		},
		PasswordHash: string(hash),
	})
	if err != nil {
		l.Warn("CreateUser failed", zap.Error(err))
		return "", nil, err
	}
	span.SetAttributes(attribute.String("user.id", profile.ID))

	token, err := s.establishSession(ctx, profile)
	if err != nil {
		l.Error("failed to establish session after signup", zap.Error(err))
		return "", nil, err
	}

	l.Info("Signup successful", zap.String("userID", profile.ID))
	return token, profile, nil
}

// Login validates credentials and establishes a session.
func (s *ServiceImpl) Login(ctx context.Context, email, password string) (string, *models.UserProfile, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", email))
	l.Debug("Attempting login")

	user, err := s.repo.GetUserAuthByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		l.Warn("GetUserAuthByEmail failed")
		// Don't reveal whether the account exists.
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		l.Warn("Password comparison failed", zap.String("userID", user.ID))
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if !user.IsActive {
		l.Warn("Login on deactivated account", zap.String("userID", user.ID))
		return "", nil, fmt.Errorf("account deactivated: %w", models.ErrForbidden)
	}

	token, err := s.establishSession(ctx, &user.UserProfile)
	if err != nil {
		l.Error("failed to establish session", zap.Error(err))
		return "", nil, err
	}

	l.Info("Login successful", zap.String("userID", user.ID))
	return token, &user.UserProfile, nil
}

// Logout invalidates the token through the dispatcher, which clears the
// session and every piece of per-user state with it.
func (s *ServiceImpl) Logout(ctx context.Context, token string) error {
	l := s.logger.With(zap.String("method", "Logout"))
	if err := s.dispatcher.Logout(ctx, token); err != nil {
		l.Error("logout failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *ServiceImpl) Me(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// establishSession mints the access token and hands it to the dispatcher,
// which registers the session and validates the role. The session store
// stays authoritative over the JWT.
func (s *ServiceImpl) establishSession(ctx context.Context, profile *models.UserProfile) (string, error) {
	token, err := s.mintToken(profile)
	if err != nil {
		return "", fmt.Errorf("failed to mint token: %w", err)
	}
	if _, err := s.dispatcher.LoginSuccess(ctx, token, *profile); err != nil {
		return "", err
	}
	return token, nil
}

func (s *ServiceImpl) mintToken(profile *models.UserProfile) (string, error) {
	now := time.Now()
	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   profile.ID,
			Issuer:    s.cfg.JWT.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.JWT.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenTTL)),
		},
		UserID: profile.ID,
		Email:  profile.Email,
		Name:   profile.FirstName + " " + profile.LastName,
		Role:   profile.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.JWT.SecretKey))
}

// ValidationError carries per-field messages for the errors envelope.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string { return "validation failed" }

func (e *ValidationError) Unwrap() error { return models.ErrValidation }

func validateSignup(req SignupRequest) map[string][]string {
	fields := map[string][]string{}
	if strings.TrimSpace(req.FirstName) == "" {
		fields["firstName"] = append(fields["firstName"], "first name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		fields["lastName"] = append(fields["lastName"], "last name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		fields["email"] = append(fields["email"], "a valid email address is required")
	}
	if len(req.Password) < 8 {
		fields["password"] = append(fields["password"], "password must be at least 8 characters")
	}
	if req.Password != req.ConfirmPassword {
		fields["confirmPassword"] = append(fields["confirmPassword"], "passwords do not match")
	}
	return fields
}
