package models

import "time"

// Booking types mirror the three rental products.
const (
	BookingTypePremium = "premium"
	BookingTypeLocal   = "local"
	BookingTypeTaxi    = "taxi"
)

// Driver options on a rental booking.
const (
	DriverOptionWith    = "with-driver"
	DriverOptionWithout = "without-driver"
)

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Payment statuses tracked on the booking itself.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusInitiated = "initiated"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

type Booking struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	BookingType      string     `json:"booking_type"`
	NumberOfDays     int        `json:"number_of_days"`
	DriverOption     string     `json:"driver_option,omitempty"`
	AssignedDriverID *string    `json:"assigned_driver,omitempty"`
	PickupLocation   string     `json:"pickup_location"`
	DropoffLocation  string     `json:"dropoff_location"`
	PickupDate       time.Time  `json:"pickup_date"`
	PickupTime       string     `json:"pickup_time"`
	Phone            string     `json:"phone"`
	AgreeToTerms     bool       `json:"agree_to_terms"`
	PaymentMethod    string     `json:"payment_method"`
	TotalAmount      int64      `json:"total_amount"`
	PaymentStatus    string     `json:"payment_status"`
	GatewayOrderID   *string    `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string    `json:"gateway_payment_id,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TotalPrice computes the rental price in whole currency units from the
// booking type, driver option and day count. Taxi rides have a flat
// per-day rate and ignore the driver option.
func (b *Booking) TotalPrice() int64 {
	days := int64(b.NumberOfDays)
	switch b.BookingType {
	case BookingTypePremium:
		base := int64(5000)
		if b.DriverOption == DriverOptionWith {
			base += 500
		}
		return base * days
	case BookingTypeLocal:
		base := int64(1500)
		if b.DriverOption == DriverOptionWith {
			base += 300
		}
		return base * days
	case BookingTypeTaxi:
		return 100 * days
	}
	return 0
}

// CanTransitionTo reports whether a manager-driven status change is
// allowed. Completed and cancelled are terminal.
func (b *Booking) CanTransitionTo(next string) bool {
	switch b.Status {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	}
	return false
}
