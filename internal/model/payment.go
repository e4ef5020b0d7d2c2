package model

import "time"

// Payment statuses.  COMPLETED and FAILED are terminal outcomes of the
// gateway call; REFUNDED is reachable only from COMPLETED.  Payments are
// never deleted.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
)

// DefaultPaymentMethod is used when a charge request does not name one.
const DefaultPaymentMethod = "CREDIT_CARD"

// Payment mirrors the payments table.  At most one payment row exists per
// reservation; the store enforces this with a unique key on reservation_id.
// CardNumber only ever holds the masked form, the full number is never
// persisted.
type Payment struct {
	ID             uint64    `json:"id"`
	ReservationID  uint64    `json:"reservation_id"`
	Amount         float64   `json:"amount"`
	Method         string    `json:"payment_method"`
	TransactionID  string    `json:"transaction_id"`
	Status         string    `json:"status"`
	CardNumber     string    `json:"card_number,omitempty"`
	CardHolderName string    `json:"card_holder_name,omitempty"`
	ExpiryDate     string    `json:"expiry_date,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MaskCardNumber reduces a card number to its last four digits prefixed by
// the masking pattern.  Inputs shorter than four characters produce an
// empty string so nothing card-like is stored at all.
func MaskCardNumber(number string) string {
	if len(number) < 4 {
		return ""
	}
	return "**** **** **** " + number[len(number)-4:]
}
