package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservite/hotel-booking/internal/client"
	"github.com/reservite/hotel-booking/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func roomID(id uint64) *uint64 { return &id }

// newReservationFixture builds a service over populated fakes: user 1,
// hotel 1, room 101 at 150.0/night.
func newReservationFixture() (*ReservationService, *fakeReservationStore, *fakeHotels) {
	users := &fakeUsers{users: map[uint64]client.UserRecord{1: {ID: 1, Email: "guest@example.com"}}}
	hotels := &fakeHotels{
		hotels: map[uint64]client.HotelRecord{1: {ID: 1, Name: "Grand Hotel"}},
		rooms: map[string]client.RoomRecord{
			roomKey(1, 101): {ID: 101, Price: 150.0, Available: true},
		},
	}
	store := newFakeReservationStore()
	return NewReservationService(users, hotels, store, nil, nil), store, hotels
}

func validRequest() CreateReservationRequest {
	return CreateReservationRequest{
		UserID:    1,
		HotelID:   1,
		RoomID:    roomID(101),
		CheckIn:   date(2024, time.June, 1),
		CheckOut:  date(2024, time.June, 3),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "guest@example.com",
	}
}

func TestCreateRejectsBadDates(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{name: "missing dates"},
		{name: "check-out equals check-in", checkIn: date(2024, time.June, 1), checkOut: date(2024, time.June, 1)},
		{name: "check-out before check-in", checkIn: date(2024, time.June, 3), checkOut: date(2024, time.June, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newReservationFixture()
			req := validRequest()
			req.CheckIn = tt.checkIn
			req.CheckOut = tt.checkOut

			_, err := svc.Create(context.Background(), req)

			require.ErrorIs(t, err, ErrInvalidRequest)
			assert.Empty(t, store.rows, "nothing may be persisted on validation failure")
		})
	}
}

func TestCreateRejectsMissingReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateReservationRequest)
	}{
		{name: "unknown user", mutate: func(r *CreateReservationRequest) { r.UserID = 99 }},
		{name: "unknown hotel", mutate: func(r *CreateReservationRequest) { r.HotelID = 99 }},
		{name: "unknown room", mutate: func(r *CreateReservationRequest) { r.RoomID = roomID(999) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, hotels := newReservationFixture()
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)

			require.ErrorIs(t, err, ErrReferenceNotFound)
			assert.Empty(t, store.rows, "nothing may be persisted when a reference is missing")
			assert.Empty(t, hotels.calls, "no availability mutation before persistence")
		})
	}
}

func TestCreateUpstreamFailure(t *testing.T) {
	svc, store, _ := newReservationFixture()
	svc.users = &fakeUsers{err: client.ErrRemoteUnavailable}

	_, err := svc.Create(context.Background(), validRequest())

	require.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Empty(t, store.rows)
}

func TestCreatePricesFromRoom(t *testing.T) {
	svc, store, hotels := newReservationFixture()

	res, err := svc.Create(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 300.0, res.TotalPrice, "2 nights at 150.0")
	assert.Equal(t, model.ReservationPending, res.Status)
	assert.Len(t, store.rows, 1)

	require.Len(t, hotels.calls, 1)
	assert.Equal(t, availabilityCall{hotelID: 1, roomID: 101, available: false}, hotels.calls[0])
}

func TestCreateWithoutRoomUsesFallbackRate(t *testing.T) {
	svc, _, hotels := newReservationFixture()
	req := validRequest()
	req.RoomID = nil

	res, err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 2*DefaultNightlyRate, res.TotalPrice)
	assert.Empty(t, hotels.calls, "no room, no availability mutation")
}

func TestCreateSurvivesAvailabilityFailure(t *testing.T) {
	svc, store, hotels := newReservationFixture()
	hotels.availErr = errBoom

	res, err := svc.Create(context.Background(), validRequest())

	require.NoError(t, err, "availability mutation is best effort")
	assert.Len(t, store.rows, 1)
	assert.Equal(t, model.ReservationPending, store.rows[res.ID].Status)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	svc, store, _ := newReservationFixture()
	res, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPayment(context.Background(), res.ID))
	require.NoError(t, svc.ConfirmPayment(context.Background(), res.ID), "second confirm must succeed as a no-op")

	assert.Equal(t, model.ReservationConfirmed, store.rows[res.ID].Status)
	assert.Equal(t, 1, store.statusUpdates, "only the first confirm may mutate")
}

func TestConfirmPaymentPublishesEvent(t *testing.T) {
	svc, _, _ := newReservationFixture()
	events := &fakeEvents{}
	svc.events = events

	res, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	require.NoError(t, svc.ConfirmPayment(context.Background(), res.ID))
	require.NoError(t, svc.ConfirmPayment(context.Background(), res.ID))

	require.Len(t, events.reservationEvents, 1, "idempotent confirms publish once")
	assert.Equal(t, res.ID, events.reservationEvents[0].ReservationID)
	assert.Equal(t, 300.0, events.reservationEvents[0].TotalPrice)
}

func TestConfirmPaymentNotFound(t *testing.T) {
	svc, _, _ := newReservationFixture()
	assert.ErrorIs(t, svc.ConfirmPayment(context.Background(), 42), ErrNotFound)
}

func TestCancelDeletesAndReleasesRoom(t *testing.T) {
	svc, _, hotels := newReservationFixture()
	res, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	hotels.calls = nil

	require.NoError(t, svc.Cancel(context.Background(), res.ID))

	_, err = svc.GetByID(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, hotels.calls, 1)
	assert.Equal(t, availabilityCall{hotelID: 1, roomID: 101, available: true}, hotels.calls[0])
}

func TestCancelSurvivesReleaseFailure(t *testing.T) {
	svc, _, hotels := newReservationFixture()
	res, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	hotels.availErr = errBoom

	require.NoError(t, svc.Cancel(context.Background(), res.ID), "room release is best effort")

	_, err = svc.GetByID(context.Background(), res.ID)
	assert.ErrorIs(t, err, ErrNotFound, "reservation must be gone regardless of the release outcome")
}

func TestCancelNotFound(t *testing.T) {
	svc, _, _ := newReservationFixture()
	assert.ErrorIs(t, svc.Cancel(context.Background(), 42), ErrNotFound)
}

func TestListByUser(t *testing.T) {
	svc, _, _ := newReservationFixture()
	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	mine, err := svc.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	others, err := svc.ListByUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, others)
}
