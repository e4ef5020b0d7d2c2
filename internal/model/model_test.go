package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   string
	}{
		{name: "standard card", number: "4111111111111111", want: "**** **** **** 1111"},
		{name: "13 digits", number: "4222222222222", want: "**** **** **** 2222"},
		{name: "exactly four", number: "1234", want: "**** **** **** 1234"},
		{name: "too short", number: "123", want: ""},
		{name: "empty", number: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskCardNumber(tt.number))
		})
	}
}

func TestNightsBetween(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, int64(2), NightsBetween(day(1), day(3)))
	assert.Equal(t, int64(1), NightsBetween(day(1), day(2)))
	assert.Equal(t, int64(0), NightsBetween(day(1), day(1)))

	r := Reservation{CheckIn: day(10), CheckOut: day(17)}
	assert.Equal(t, int64(7), r.Nights())
}
