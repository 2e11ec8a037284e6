package models

import "time"

// PaymentStatusProcessing marks a gateway order that is awaiting
// confirmation; the remaining statuses are shared with Booking.
const PaymentStatusProcessing = "processing"

// Payment methods accepted at checkout.
const (
	PaymentMethodCard    = "credit_card"
	PaymentMethodWallet  = "digital_wallet"
	PaymentMethodUPI     = "upi"
	PaymentMethodGateway = "gateway"
)

type Payment struct {
	ID               string    `json:"id"`
	BookingID        string    `json:"booking_id"`
	Amount           int64     `json:"amount"`
	Tax              int64     `json:"tax"`
	TotalAmount      int64     `json:"total_amount"`
	PaymentMethod    string    `json:"payment_method"`
	GatewayName      string    `json:"gateway_name"`
	GatewayOrderID   string    `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	Status           string    `json:"status"`
	TransactionDate  time.Time `json:"transaction_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PlatformStats is the admin/manager overview aggregation.
type PlatformStats struct {
	TotalUsers       int64            `json:"total_users"`
	TotalBookings    int64            `json:"total_bookings"`
	TotalVehicles    int64            `json:"total_vehicles"`
	TotalDrivers     int64            `json:"total_drivers"`
	TotalRevenue     int64            `json:"total_revenue"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	GeneratedAt      time.Time        `json:"generated_at"`
}
