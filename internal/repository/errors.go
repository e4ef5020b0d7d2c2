// Package repository persists reservations and payments in MySQL.  The
// sentinel errors below let the service layer distinguish storage outcomes
// without leaking database/sql details upward.
package repository

import "errors"

// ErrReservationNotFound is returned when no reservation row matches the
// requested id.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrPaymentNotFound is returned when no payment row matches the requested
// id, reservation id or transaction id.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrDuplicatePayment is returned when an insert violates the unique key on
// payments.reservation_id.  The constraint is what serializes two requests
// racing to pay the same reservation across orchestrator instances.
var ErrDuplicatePayment = errors.New("payment already exists for reservation")
