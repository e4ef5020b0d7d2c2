// Package idgen generates externally visible transaction identifiers.  The
// generator is injected into the payment service instead of being read from
// ambient process state, so tests can pin ids and a future move to a
// database sequence stays local to this package.
package idgen

import "github.com/google/uuid"

// Generator produces unique transaction ids.
type Generator interface {
	NewTransactionID() string
}

// UUIDGenerator issues ids of the form "<prefix>-<uuid>".  UUIDs replace
// the timestamp-based ids of earlier revisions, which could collide when
// two payments were created within the same millisecond.
type UUIDGenerator struct {
	Prefix string
}

// NewUUIDGenerator returns a generator with the conventional "TXN" prefix.
func NewUUIDGenerator() UUIDGenerator {
	return UUIDGenerator{Prefix: "TXN"}
}

func (g UUIDGenerator) NewTransactionID() string {
	id := uuid.NewString()
	if g.Prefix == "" {
		return id
	}
	return g.Prefix + "-" + id
}
