package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDGeneratorPrefix(t *testing.T) {
	id := NewUUIDGenerator().NewTransactionID()
	assert.True(t, strings.HasPrefix(id, "TXN-"), "got %q", id)

	bare := UUIDGenerator{}.NewTransactionID()
	assert.False(t, strings.HasPrefix(bare, "-"), "got %q", bare)
}

func TestUUIDGeneratorUniqueness(t *testing.T) {
	g := NewUUIDGenerator()
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := g.NewTransactionID()
		assert.False(t, seen[id], "duplicate id %q", id)
		seen[id] = true
	}
}
