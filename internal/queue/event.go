// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published after a reservation transitions to
// CONFIRMED.  Downstream consumers (notifications, analytics) get enough to
// act without querying the reservation store.
type ReservationConfirmedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	UserID        uint64  `json:"user_id"`
	HotelID       uint64  `json:"hotel_id"`
	RoomID        *uint64 `json:"room_id,omitempty"`
	TotalPrice    float64 `json:"total_price"`
	ConfirmedAt   string  `json:"confirmed_at"`
}

// PaymentCompletedEvent is published after a charge lands in COMPLETED.
type PaymentCompletedEvent struct {
	PaymentID     uint64  `json:"payment_id"`
	ReservationID uint64  `json:"reservation_id"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
	CompletedAt   string  `json:"completed_at"`
}
