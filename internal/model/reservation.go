package model

import "time"

// Reservation statuses.  A reservation is created PENDING and moves to
// CONFIRMED only through the payment-confirmation path.  Cancellation
// deletes the row, so there is no explicit CANCELLED value.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
)

// Reservation mirrors the reservations table.  RoomID is nullable: a
// reservation may be taken without a specific room, in which case billing
// falls back to a default nightly rate.  CheckIn and CheckOut carry dates
// only (midnight UTC).
type Reservation struct {
	ID              uint64    `json:"id"`
	UserID          uint64    `json:"user_id"`
	HotelID         uint64    `json:"hotel_id"`
	RoomID          *uint64   `json:"room_id,omitempty"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	FirstName       string    `json:"first_name,omitempty"`
	LastName        string    `json:"last_name,omitempty"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	TotalPrice      float64   `json:"total_price"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Nights returns the stay length as a whole-day difference between
// check-out and check-in.  Both dates are expected at midnight UTC.
func (r *Reservation) Nights() int64 {
	return NightsBetween(r.CheckIn, r.CheckOut)
}

// NightsBetween computes the whole-day difference between two dates.
func NightsBetween(checkIn, checkOut time.Time) int64 {
	return int64(checkOut.Sub(checkIn) / (24 * time.Hour))
}
