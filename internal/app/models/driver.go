package models

import "time"

// Driver duty statuses.
const (
	DriverStatusAvailable = "available"
	DriverStatusAssigned  = "assigned"
	DriverStatusOnTrip    = "on_trip"
	DriverStatusOffDuty   = "off_duty"
	DriverStatusOnBreak   = "on_break"
)

type Driver struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	LicenseNumber     string     `json:"license_number"`
	LicenseExpiry     time.Time  `json:"license_expiry"`
	ExperienceYears   int        `json:"experience_years"`
	TotalTrips        int        `json:"total_trips"`
	AverageRating     float64    `json:"average_rating"`
	AssignedVehicleID *string    `json:"assigned_vehicle,omitempty"`
	Status            string     `json:"status"`
	IsVerified        bool       `json:"is_verified"`
	VerifiedAt        *time.Time `json:"verification_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CanBeAssigned reports whether the driver may be attached to a booking.
func (d *Driver) CanBeAssigned() bool {
	return d.IsVerified && d.Status == DriverStatusAvailable
}
