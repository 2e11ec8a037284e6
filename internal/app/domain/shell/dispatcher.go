package shell

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/autornexus/platform/internal/app/domain/dashcache"
	"github.com/autornexus/platform/internal/app/domain/navstate"
	"github.com/autornexus/platform/internal/app/domain/session"
	"github.com/autornexus/platform/internal/app/models"
)

// Shell is what a client needs to render after a restore: the state, the
// resolved page, and whatever stored context exists to paint immediately.
type Shell struct {
	State      State                     `json:"state"`
	Page       string                    `json:"page"`
	User       *models.UserProfile       `json:"user,omitempty"`
	Navigation *models.NavigationState   `json:"navigation,omitempty"`
	Dashboard  *models.DashboardSnapshot `json:"dashboard,omitempty"`
}

// Ensure implementation satisfies the interface
var _ Dispatcher = (*DispatcherImpl)(nil)

// Dispatcher decides which shell a request renders and owns the
// session/navigation/dashboard lifecycle around login and logout.
type Dispatcher interface {
	Restore(ctx context.Context, token string) (*Shell, error)
	LoginSuccess(ctx context.Context, token string, user models.UserProfile) (*Shell, error)
	Logout(ctx context.Context, token string) error
	Navigate(ctx context.Context, userID string, state models.NavigationState) error
	SaveSnapshot(ctx context.Context, role string, scope models.DashboardScope, userID string, snap models.DashboardSnapshot) error
	LoadSnapshot(ctx context.Context, role string, scope models.DashboardScope, userID string) (*models.DashboardSnapshot, error)
}

type DispatcherImpl struct {
	logger   *zap.Logger
	sessions session.Store
	nav      navstate.Store
	dash     dashcache.Store
}

func NewDispatcher(sessions session.Store, nav navstate.Store, dash dashcache.Store, logger *zap.Logger) *DispatcherImpl {
	return &DispatcherImpl{
		logger:   logger,
		sessions: sessions,
		nav:      nav,
		dash:     dash,
	}
}

// Restore rebuilds the shell from stored state. An invalid session always
// yields the unauthenticated shell at Home, no matter what navigation
// state lingers. The result is deterministic for a given session and
// navigation state.
func (d *DispatcherImpl) Restore(ctx context.Context, token string) (*Shell, error) {
	l := d.logger.With(zap.String("method", "Restore"))

	tracer := otel.Tracer("autornexus-platform")
	ctx, span := tracer.Start(ctx, "Dispatcher.Restore")
	defer span.End()

	sess, ok := d.sessions.IsValid(ctx, token)
	if !ok {
		return &Shell{State: StateUnauthenticated, Page: PageHome}, nil
	}

	state := StateForRole(sess.User.Role)
	span.SetAttributes(attribute.String("shell.state", string(state)))

	nav, err := d.nav.Load(ctx, sess.User.ID)
	if err != nil {
		// Degraded restore is better than no restore.
		l.Warn("navigation state unavailable", zap.Error(err))
		nav = nil
	}

	page := LandingPage(state)
	if nav != nil && nav.CurrentPage != "" {
		page = ResolvePage(state, nav.CurrentPage)
	}

	snap, err := d.dash.Load(ctx, ScopeForState(state), sess.User.ID)
	if err != nil {
		l.Warn("dashboard snapshot unavailable", zap.Error(err))
		snap = nil
	}

	return &Shell{
		State:      state,
		Page:       page,
		User:       &sess.User,
		Navigation: nav,
		Dashboard:  snap,
	}, nil
}

// LoginSuccess transitions straight to the state for the server-returned
// role. A missing or unrecognized role fails the attempt outright; no
// partial transition happens and no session is stored.
func (d *DispatcherImpl) LoginSuccess(ctx context.Context, token string, user models.UserProfile) (*Shell, error) {
	l := d.logger.With(zap.String("method", "LoginSuccess"), zap.String("userID", user.ID))

	switch user.Role {
	case models.RoleCustomer, models.RoleManager, models.RoleAdmin, models.RoleDriver:
	default:
		l.Warn("login response carried no usable role", zap.String("role", user.Role))
		return nil, fmt.Errorf("missing or unknown role %q: %w", user.Role, models.ErrValidation)
	}

	if err := d.sessions.Save(ctx, token, user); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	state := StateForRole(user.Role)
	l.Info("shell dispatched", zap.String("state", string(state)))
	return &Shell{
		State: state,
		Page:  LandingPage(state),
		User:  &user,
	}, nil
}

// Logout tears the whole user state down: session, navigation state and
// every dashboard scope, each namespace cleared explicitly. Partial
// failures are joined and reported, but every namespace is still
// attempted.
func (d *DispatcherImpl) Logout(ctx context.Context, token string) error {
	l := d.logger.With(zap.String("method", "Logout"))

	sess, err := d.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Already gone; logout is idempotent.
			return nil
		}
		return fmt.Errorf("failed to resolve session for logout: %w", err)
	}

	var clearErr error
	if err := d.sessions.Clear(ctx, token); err != nil {
		clearErr = errors.Join(clearErr, err)
	}
	if err := d.nav.Clear(ctx, sess.User.ID); err != nil {
		clearErr = errors.Join(clearErr, err)
	}
	if err := d.dash.ClearAll(ctx, sess.User.ID); err != nil {
		clearErr = errors.Join(clearErr, err)
	}

	if clearErr != nil {
		l.Error("logout left residual state", zap.Error(clearErr))
		return clearErr
	}
	l.Info("logout complete", zap.String("userID", sess.User.ID))
	return nil
}

// Navigate records an in-app move. The store itself drops Home and
// anonymous saves.
func (d *DispatcherImpl) Navigate(ctx context.Context, userID string, state models.NavigationState) error {
	return d.nav.Save(ctx, userID, state)
}

// SaveSnapshot overwrites a role-scoped dashboard snapshot after
// checking the caller may touch that scope.
func (d *DispatcherImpl) SaveSnapshot(ctx context.Context, role string, scope models.DashboardScope, userID string, snap models.DashboardSnapshot) error {
	if !ScopeAllowed(role, scope) {
		return fmt.Errorf("role %q cannot write scope %q: %w", role, scope, models.ErrForbidden)
	}
	return d.dash.Save(ctx, scope, userID, snap)
}

// LoadSnapshot reads a role-scoped dashboard snapshot, nil when absent.
func (d *DispatcherImpl) LoadSnapshot(ctx context.Context, role string, scope models.DashboardScope, userID string) (*models.DashboardSnapshot, error) {
	if !ScopeAllowed(role, scope) {
		return nil, fmt.Errorf("role %q cannot read scope %q: %w", role, scope, models.ErrForbidden)
	}
	return d.dash.Load(ctx, scope, userID)
}
