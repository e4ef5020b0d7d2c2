// Package service implements the reservation and payment orchestrators:
// the remote-call sequencing, local state transitions and best-effort
// compensations that make a booking look atomic across four independently
// owned services.  The sentinel errors below form the business taxonomy the
// handlers translate to HTTP status codes.
package service

import "errors"

// ErrInvalidRequest covers malformed input: missing required fields, a
// check-out date not strictly after check-in, a non-positive amount.
var ErrInvalidRequest = errors.New("invalid request")

// ErrReferenceNotFound is returned when a referenced user, hotel or room
// does not exist at its owning service.  Nothing has been persisted when
// this is returned.
var ErrReferenceNotFound = errors.New("referenced resource not found")

// ErrNotFound is returned for direct entity lookups by id.
var ErrNotFound = errors.New("not found")

// ErrDuplicatePayment is returned when a reservation already has a payment,
// whatever its status.
var ErrDuplicatePayment = errors.New("a payment already exists for this reservation")

// ErrInvalidState is returned when an operation is not legal in the
// entity's current status, e.g. refunding a payment that never completed.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrUpstreamUnavailable is returned when a required remote collaborator is
// unreachable or misbehaving.  Best-effort side effects never produce it.
var ErrUpstreamUnavailable = errors.New("upstream service unavailable")
