package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role values accepted by the dispatcher. Drivers and service providers
// exist in storage but render the customer shell.
const (
	RoleCustomer = "customer"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
	RoleDriver   = "driver"
)

// SelfRegisterRoles are the only roles accepted on public signup. Other
// roles are assigned by an admin.
var SelfRegisterRoles = map[string]bool{
	RoleCustomer: true,
	RoleManager:  true,
}

// UserProfile is the public view of a user, as returned under the
// response "data" key and embedded in sessions.
type UserProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Role        string    `json:"role"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserAuth carries the credential fields the auth repository needs. The
// password hash never leaves the auth package.
type UserAuth struct {
	UserProfile
	PasswordHash string `json:"-"`
}

// Claims is the JWT claim set minted on login. The session store stays
// authoritative: a signed token that is absent from the store is invalid.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}
