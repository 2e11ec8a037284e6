package models

import "time"

// Session binds an opaque auth token to the profile it was minted for.
// Token and profile persist as a single value so readers never observe
// one without the other.
type Session struct {
	Token   string      `json:"token"`
	User    UserProfile `json:"user"`
	SavedAt time.Time   `json:"savedAt"`
}

// NavigationState is the last in-app location of an authenticated user.
// It is only meaningful while the owning session is valid; the dispatcher
// enforces that, not the store.
type NavigationState struct {
	CurrentPage  string    `json:"currentPage"`
	SelectedRole string    `json:"selectedRole,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// DashboardScope selects which role-scoped snapshot a read or write
// addresses.
type DashboardScope string

const (
	ScopeUser    DashboardScope = "user"
	ScopeManager DashboardScope = "manager"
	ScopeAdmin   DashboardScope = "admin"
)

// DashboardScopes lists every scope; clear-all walks this so no namespace
// is left behind.
var DashboardScopes = []DashboardScope{ScopeUser, ScopeManager, ScopeAdmin}

// ValidScope reports whether s names a known dashboard scope.
func ValidScope(s string) bool {
	switch DashboardScope(s) {
	case ScopeUser, ScopeManager, ScopeAdmin:
		return true
	}
	return false
}

// DashboardSnapshot is the last-fetched server data for one role-scoped
// dashboard. It is a paint-something-immediately seed, never an
// authoritative cache: the next successful fetch fully replaces it.
type DashboardSnapshot struct {
	ActiveModule string        `json:"activeModule,omitempty"`
	Bookings     []Booking     `json:"bookings,omitempty"`
	Vehicles     []Vehicle     `json:"vehicles,omitempty"`
	Users        []UserProfile `json:"users,omitempty"`
	Stats        *PlatformStats `json:"stats,omitempty"`
	LastFetch    time.Time     `json:"lastFetch"`
}
