package models

import "time"

// Vehicle statuses.
const (
	VehicleStatusAvailable   = "available"
	VehicleStatusReserved    = "reserved"
	VehicleStatusRented      = "rented"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusDamaged     = "damaged"
	VehicleStatusInactive    = "inactive"
)

// Vehicle categories; "used" vehicles surface on the used-car sales page.
const (
	CarTypePremium = "premium"
	CarTypeLocal   = "local"
	CarTypeLuxury  = "luxury"
	CarTypeSUV     = "suv"
	CarTypeTaxi    = "taxi"
	CarTypeUsed    = "used"
)

type Vehicle struct {
	ID                 string     `json:"id"`
	RegistrationNumber string     `json:"registration_number"`
	Brand              string     `json:"brand"`
	Model              string     `json:"model"`
	Year               int        `json:"year"`
	Color              string     `json:"color"`
	Capacity           int        `json:"capacity"`
	FuelType           string     `json:"fuel_type"`
	CarType            string     `json:"car_type"`
	DailyRentalPrice   int64      `json:"daily_rental_price"`
	WithDriverPremium  int64      `json:"with_driver_premium"`
	Status             string     `json:"status"`
	CurrentLocation    string     `json:"current_location"`
	TotalKM            int        `json:"total_km"`
	ImageURL           *string    `json:"image_url,omitempty"`
	AcquiredDate       *time.Time `json:"acquired_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsAvailable reports whether the vehicle can take a new booking.
func (v *Vehicle) IsAvailable() bool {
	return v.Status == VehicleStatusAvailable
}

// VehicleFilter narrows fleet listings.
type VehicleFilter struct {
	CarType string
	Status  string
}
