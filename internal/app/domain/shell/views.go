package shell

import "github.com/autornexus/platform/internal/app/models"

// State is the dispatcher's shell state.
type State string

const (
	StateUnauthenticated     State = "unauthenticated"
	StateAuthenticatedNoRole State = "authenticated_no_role"
	StateCustomer            State = "customer"
	StateManager             State = "manager"
	StateAdmin               State = "admin"
)

// Page keys. These are the only values the router recognizes; anything
// else falls back per state.
const (
	PageHome         = "Home"
	PageFleet        = "Fleet"
	PageLocalCars    = "LocalCars"
	PageServices     = "Services"
	PageOnDemandTaxi = "OnDemandTaxi"
	PageAbout        = "About"
	PageContact      = "Contact"
	PageTerms        = "TermsAndConditions"
	PageUsedCars     = "UsedCars"
	PageDashboard    = "Dashboard"

	// Overlay views layered on top of a page.
	ViewLogin         = "Login"
	ViewSignup        = "Signup"
	ViewBookingWizard = "BookingWizard"
)

var publicPages = map[string]bool{
	PageHome:         true,
	PageFleet:        true,
	PageLocalCars:    true,
	PageServices:     true,
	PageOnDemandTaxi: true,
	PageAbout:        true,
	PageContact:      true,
	PageTerms:        true,
	PageUsedCars:     true,
}

// StateForRole maps a stored role onto a shell state. Roles outside the
// dispatch set (driver, service provider) get the customer shell; an
// empty role is the defensive no-role state.
func StateForRole(role string) State {
	switch role {
	case models.RoleManager:
		return StateManager
	case models.RoleAdmin:
		return StateAdmin
	case "":
		return StateAuthenticatedNoRole
	default:
		return StateCustomer
	}
}

// LandingPage is where a shell starts when no navigation state applies.
func LandingPage(state State) string {
	switch state {
	case StateManager, StateAdmin:
		return PageDashboard
	default:
		return PageHome
	}
}

// ResolvePage maps a requested page key onto the page the shell actually
// renders. Pure function; it fetches nothing.
//
// Rules: public pages render for everyone. Dashboard needs an
// authenticated state. Login/Signup overlays only make sense signed out;
// the booking wizard only signed in. Unknown keys fall back to Home for
// public and customer contexts, and to the dashboard for manager/admin.
func ResolvePage(state State, page string) string {
	authenticated := state != StateUnauthenticated

	switch {
	case publicPages[page]:
		return page
	case page == PageDashboard:
		if authenticated {
			return PageDashboard
		}
		return PageHome
	case page == ViewLogin || page == ViewSignup:
		if authenticated {
			return LandingPage(state)
		}
		return page
	case page == ViewBookingWizard:
		if authenticated {
			return ViewBookingWizard
		}
		return ViewLogin
	default:
		return LandingPage(state)
	}
}

// ScopeForState is the dashboard namespace a shell state reads at restore.
func ScopeForState(state State) models.DashboardScope {
	switch state {
	case StateManager:
		return models.ScopeManager
	case StateAdmin:
		return models.ScopeAdmin
	default:
		return models.ScopeUser
	}
}

// ScopeAllowed reports whether a role may read or write a dashboard
// namespace. Admins see everything, managers their own plus the user
// scope, everyone else only the user scope.
func ScopeAllowed(role string, scope models.DashboardScope) bool {
	switch scope {
	case models.ScopeAdmin:
		return role == models.RoleAdmin
	case models.ScopeManager:
		return role == models.RoleManager || role == models.RoleAdmin
	case models.ScopeUser:
		return true
	}
	return false
}
